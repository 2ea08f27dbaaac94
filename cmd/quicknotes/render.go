package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"

	"github.com/aretw0/quicknotes"
	"github.com/aretw0/quicknotes/pkg/storage"
)

const (
	idWidth    = 8
	colorWidth = 6
	titleWidth = 32
	dateLayout = "2006-01-02 15:04"
)

// shortID returns the prefix of id shown in listings.
func shortID(id string) string {
	if len(id) <= idWidth {
		return id
	}
	return id[:idWidth]
}

// cell truncates s to width columns and pads it, counting wide runes.
func cell(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// printTable writes one line per note.
func printTable(w io.Writer, notes []quicknotes.Note) {
	for _, n := range notes {
		title := n.Title
		if title == "" {
			title = n.Content
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			cell(shortID(n.ID), idWidth),
			cell(string(n.Color), colorWidth),
			cell(title, titleWidth),
			n.UpdatedAt.Local().Format(dateLayout),
		)
	}
}

// printNote writes every field of n.
func printNote(w io.Writer, n quicknotes.Note) {
	fmt.Fprintf(w, "ID:      %s\n", n.ID)
	fmt.Fprintf(w, "Title:   %s\n", n.Title)
	fmt.Fprintf(w, "Color:   %s\n", n.Color)
	fmt.Fprintf(w, "Created: %s\n", n.CreatedAt.Local().Format(dateLayout))
	fmt.Fprintf(w, "Updated: %s\n", n.UpdatedAt.Local().Format(dateLayout))
	if n.Content != "" {
		fmt.Fprintf(w, "\n%s\n", n.Content)
	}
}

// printJSON writes notes in their persisted form.
func printJSON(w io.Writer, notes ...quicknotes.Note) error {
	records := make([]storage.Record, len(notes))
	for i, n := range notes {
		records[i] = storage.FromNote(n)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// resolveID expands a unique ID prefix, as printed by list, to the full ID.
func resolveID(nb *quicknotes.Notebook, prefix string) (string, error) {
	// A blank prefix would match every note.
	if strings.TrimSpace(prefix) == "" {
		return "", fmt.Errorf("%w: empty id", quicknotes.ErrNotFound)
	}
	if _, err := nb.Get(prefix); err == nil {
		return prefix, nil
	}
	var match string
	for _, n := range nb.Notes() {
		if !strings.HasPrefix(n.ID, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("ambiguous id prefix %q", prefix)
		}
		match = n.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", quicknotes.ErrNotFound, prefix)
	}
	return match, nil
}

// saved reports a mutation error. The process exits right after the
// command, so a change that reached memory but not the store is lost.
func saved(err error) error {
	if errors.Is(err, quicknotes.ErrPersistenceDegraded) {
		return fmt.Errorf("change was not saved: %w", err)
	}
	return err
}
