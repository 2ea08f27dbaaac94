package quicknotes_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/quicknotes"
)

// Example_basic creates a few notes in memory and queries them.
func Example_basic() {
	ctx := context.Background()

	nb, err := quicknotes.OpenMemory(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer nb.Close()

	for _, n := range []struct {
		title, content string
		color          quicknotes.Color
	}{
		{"Groceries", "milk, eggs", quicknotes.ColorGreen},
		{"call mom", "", quicknotes.ColorPink},
		{"Book list", "Dune, Milkman", quicknotes.ColorGreen},
	} {
		if _, err := nb.Create(ctx, n.title, n.content, n.color); err != nil {
			log.Fatal(err)
		}
	}

	for _, n := range nb.Query(quicknotes.Query{Search: "MILK", Sort: quicknotes.SortByTitle}) {
		fmt.Printf("%s (%s)\n", n.Title, n.Color)
	}
	// Output:
	// Book list (green)
	// Groceries (green)
}

// Example_filesystem persists notes to a directory and reopens it.
func Example_filesystem() {
	dir, err := os.MkdirTemp("", "quicknotes-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	nb, err := quicknotes.Open(ctx, dir, quicknotes.WithAutoInit(true), quicknotes.WithCodec("yaml"))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := nb.Create(ctx, "Persisted", "on disk", ""); err != nil {
		log.Fatal(err)
	}

	again, err := quicknotes.Open(ctx, dir, quicknotes.WithCodec("yaml"))
	if err != nil {
		log.Fatal(err)
	}
	n := again.Notes()[0]
	fmt.Println(n.Title, n.Color)
	// Output:
	// Persisted blue
}

// Example_validation shows that blank notes are rejected.
func Example_validation() {
	ctx := context.Background()
	nb, err := quicknotes.OpenMemory(ctx)
	if err != nil {
		log.Fatal(err)
	}

	_, err = nb.Create(ctx, "   ", "\t", quicknotes.ColorBlue)
	fmt.Println(errors.Is(err, quicknotes.ErrValidationRejected), nb.Len())
	// Output:
	// true 0
}
