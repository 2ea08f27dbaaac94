package core

import (
	"fmt"
	"strings"
	"time"
)

// Color is the tag a note is displayed with.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
	ColorGray   Color = "gray"
)

// DefaultColor is assigned to new notes created without an explicit color.
const DefaultColor = ColorBlue

// FallbackColor replaces unknown colors found in persisted data.
const FallbackColor = ColorGray

// Colors lists the supported colors in display order.
var Colors = []Color{ColorBlue, ColorGreen, ColorYellow, ColorPink, ColorPurple, ColorGray}

// Valid reports whether c is one of the supported colors.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

func (c Color) String() string {
	return string(c)
}

// ParseColor normalizes user input into a Color.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown color %q", ErrValidationRejected, s)
	}
	return c, nil
}

// Note is the central entity of the domain.
// Timestamps are kept in UTC with millisecond precision.
type Note struct {
	ID        string
	Title     string
	Content   string
	Color     Color
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blank reports whether both title and content are empty after trimming.
func (n Note) Blank() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == ""
}

// Matches reports whether term is a case-insensitive substring of the
// title or the content. An empty term matches every note.
func (n Note) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(n.Title), term) ||
		strings.Contains(strings.ToLower(n.Content), term)
}
