package core

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortBy selects the display order of a query.
type SortBy string

const (
	// SortByDate orders by UpdatedAt, most recent first.
	SortByDate SortBy = "date"
	// SortByTitle orders by title using locale-aware collation.
	SortByTitle SortBy = "title"
)

// AllColors disables the color filter.
const AllColors = "all"

// Query describes a filtered and sorted view of the collection.
// The zero value returns every note, most recently updated first.
type Query struct {
	Search string
	Color  string // AllColors, a Color value, or empty (all)
	Sort   SortBy
}

// ParseSort validates a sort key. Empty input selects SortByDate.
func ParseSort(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByTitle:
		return SortByTitle, nil
	}
	return "", fmt.Errorf("unknown sort %q (expected %q or %q)", s, SortByDate, SortByTitle)
}

// ParseColorFilter validates a color filter. Empty input selects AllColors.
func ParseColorFilter(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == AllColors {
		return AllColors, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

func (q Query) accepts(n Note) bool {
	if q.Color != "" && q.Color != AllColors && string(n.Color) != q.Color {
		return false
	}
	return n.Matches(q.Search)
}

// Apply filters and sorts notes without modifying the input slice.
// Ties keep their relative input order.
func (q Query) Apply(notes []Note, lang language.Tag) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if q.accepts(n) {
			out = append(out, n)
		}
	}

	switch q.Sort {
	case SortByTitle:
		// Collators keep internal buffers, so each query gets its own.
		col := collate.New(lang)
		slices.SortStableFunc(out, func(a, b Note) int {
			return col.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(out, func(a, b Note) int {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		})
	}
	return out
}
