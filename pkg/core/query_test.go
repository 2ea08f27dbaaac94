package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/aretw0/quicknotes/pkg/core"
)

func ids(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestQuery_Scenario(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	notes := []core.Note{
		{ID: "A", Title: "A", Color: core.ColorBlue, CreatedAt: t1, UpdatedAt: t1},
		{ID: "B", Title: "B", Color: core.ColorGreen, CreatedAt: t2, UpdatedAt: t2},
	}

	green := core.Query{Search: "", Color: "green", Sort: core.SortByDate}.Apply(notes, language.English)
	assert.Equal(t, []string{"B"}, ids(green))

	byTitle := core.Query{Search: "a", Color: core.AllColors, Sort: core.SortByTitle}.Apply(notes, language.English)
	assert.Equal(t, []string{"A"}, ids(byTitle))
}

func TestQuery_Filter(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notes := []core.Note{
		{ID: "1", Title: "Groceries", Content: "Milk and EGGS", Color: core.ColorYellow, UpdatedAt: ts},
		{ID: "2", Title: "Meeting", Content: "discuss eggs budget", Color: core.ColorBlue, UpdatedAt: ts},
		{ID: "3", Title: "Ideas", Content: "", Color: core.ColorYellow, UpdatedAt: ts},
	}

	tests := []struct {
		name  string
		query core.Query
		want  []string
	}{
		{"Empty Matches All", core.Query{}, []string{"1", "2", "3"}},
		{"Content Case Insensitive", core.Query{Search: "eggs"}, []string{"1", "2"}},
		{"Title Case Insensitive", core.Query{Search: "IDEA"}, []string{"3"}},
		{"Color Only", core.Query{Color: "yellow"}, []string{"1", "3"}},
		{"Search And Color", core.Query{Search: "eggs", Color: "blue"}, []string{"2"}},
		{"All Keyword", core.Query{Search: "m", Color: core.AllColors}, []string{"1", "2"}},
		{"No Match", core.Query{Search: "zzz"}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.query.Apply(notes, language.English)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestQuery_SortByDate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notes := []core.Note{
		{ID: "old", UpdatedAt: base},
		{ID: "newest", UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "tie-1", UpdatedAt: base.Add(time.Hour)},
		{ID: "tie-2", UpdatedAt: base.Add(time.Hour)},
	}

	got := core.Query{Sort: core.SortByDate}.Apply(notes, language.English)
	assert.Equal(t, []string{"newest", "tie-1", "tie-2", "old"}, ids(got))

	// Input is untouched.
	assert.Equal(t, "old", notes[0].ID)
}

func TestQuery_SortByTitle(t *testing.T) {
	notes := []core.Note{
		{ID: "c", Title: "cherry"},
		{ID: "same-1", Title: "Same"},
		{ID: "B", Title: "Banana"},
		{ID: "a", Title: "apple"},
		{ID: "same-2", Title: "Same"},
	}

	got := core.Query{Sort: core.SortByTitle}.Apply(notes, language.English)
	// Collation interleaves cases instead of putting every capital first.
	assert.Equal(t, []string{"a", "B", "c", "same-1", "same-2"}, ids(got))
}

func TestCollection_Query_DoesNotMutate(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	c := newCollection(t, repo)

	_, err := c.Create(ctx, "zeta", "", "")
	require.NoError(t, err)
	_, err = c.Create(ctx, "alpha", "", "")
	require.NoError(t, err)
	saves := repo.saves

	before := c.Notes()
	sorted := c.Query(core.Query{Sort: core.SortByTitle})
	require.Len(t, sorted, 2)
	assert.Equal(t, "alpha", sorted[0].Title)

	sorted[0].Title = "changed"
	assert.Equal(t, before, c.Notes())
	assert.Equal(t, saves, repo.saves)
}

func TestParseSort(t *testing.T) {
	s, err := core.ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, core.SortByDate, s)

	s, err = core.ParseSort("Title")
	require.NoError(t, err)
	assert.Equal(t, core.SortByTitle, s)

	_, err = core.ParseSort("size")
	assert.Error(t, err)
}

func TestParseColorFilter(t *testing.T) {
	f, err := core.ParseColorFilter("")
	require.NoError(t, err)
	assert.Equal(t, core.AllColors, f)

	f, err = core.ParseColorFilter(" PINK ")
	require.NoError(t, err)
	assert.Equal(t, "pink", f)

	_, err = core.ParseColorFilter("orange")
	assert.ErrorIs(t, err, core.ErrValidationRejected)
}

func TestParseColor(t *testing.T) {
	for _, c := range core.Colors {
		got, err := core.ParseColor(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := core.ParseColor("")
	assert.ErrorIs(t, err, core.ErrValidationRejected)
}
