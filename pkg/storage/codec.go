package storage

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Codec defines how the record list is turned into the stored string and back.
type Codec interface {
	// Name identifies the codec in configuration ("json", "yaml").
	Name() string
	// Decode parses a stored value.
	Decode(data []byte) ([]Record, error)
	// Encode converts records into the value to store.
	Encode(records []Record) ([]byte, error)
}

// DefaultCodecs returns the standard set of codecs keyed by name.
func DefaultCodecs() map[string]Codec {
	return map[string]Codec{
		"json": NewJSONCodec(),
		"yaml": NewYAMLCodec(),
	}
}

// CodecNames lists the names of the default codecs, sorted.
func CodecNames() []string {
	names := make([]string, 0, 2)
	for name := range DefaultCodecs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupCodec returns the default codec registered under name.
// An empty name selects JSON.
func LookupCodec(name string) (Codec, error) {
	if name == "" {
		name = "json"
	}
	c, ok := DefaultCodecs()[name]
	if !ok {
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
	return c, nil
}

// --- JSON Codec ---

// JSONCodec stores notes as a compact JSON array.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

func (c *JSONCodec) Name() string { return "json" }

func (c *JSONCodec) Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return records, nil
}

func (c *JSONCodec) Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

// --- YAML Codec ---

// YAMLCodec stores notes as a YAML sequence. Handy for stores a human edits.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

func (c *YAMLCodec) Name() string { return "yaml" }

func (c *YAMLCodec) Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return records, nil
}

func (c *YAMLCodec) Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(records); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
