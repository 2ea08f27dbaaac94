package storage

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/quicknotes/pkg/core"
)

// TimeLayout is the ISO-8601 layout timestamps are persisted with.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is the persisted form of a note.
type Record struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Color     string    `json:"color" yaml:"color"`
	CreatedAt Timestamp `json:"createdAt" yaml:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt" yaml:"updatedAt"`
}

// Timestamp persists as an ISO-8601 string with millisecond precision.
// Epoch milliseconds (number or numeric string) are accepted on input.
type Timestamp struct {
	time.Time
}

func (t Timestamp) String() string {
	return t.UTC().Format(TimeLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	raw := string(data)
	if unq, err := strconv.Unquote(raw); err == nil {
		raw = unq
	}
	return t.parse(raw)
}

func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid timestamp node at line %d", value.Line)
	}
	return t.parse(value.Value)
}

func (t *Timestamp) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	t.Time = parsed.UTC().Truncate(time.Millisecond)
	return nil
}

// FromNote converts a note into its persisted form.
func FromNote(n core.Note) Record {
	return Record{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Color:     string(n.Color),
		CreatedAt: Timestamp{n.CreatedAt},
		UpdatedAt: Timestamp{n.UpdatedAt},
	}
}

// ToNote converts a record back into a note. Colors are matched
// case-insensitively; unknown ones become core.FallbackColor.
func (r Record) ToNote() core.Note {
	color, err := core.ParseColor(r.Color)
	if err != nil {
		color = core.FallbackColor
	}
	return core.Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Color:     color,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}
