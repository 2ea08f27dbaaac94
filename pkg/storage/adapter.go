// Package storage turns a raw core.ByteStore into a typed note repository.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/quicknotes/pkg/core"
)

// Config holds the configuration for an Adapter.
type Config struct {
	Codec  Codec        // Defaults to JSON.
	Logger *slog.Logger // Defaults to a discard logger.
	NewID  func() string
}

// Adapter implements core.Repository on top of a core.ByteStore.
//
// Loading never fails: a missing key, a store read error or a value that
// does not decode all degrade to an empty collection and are logged.
type Adapter struct {
	store  core.ByteStore
	codec  Codec
	logger *slog.Logger
	newID  func() string
}

// NewAdapter creates a new Adapter over store.
func NewAdapter(store core.ByteStore, cfg Config) *Adapter {
	a := &Adapter{
		store:  store,
		codec:  cfg.Codec,
		logger: cfg.Logger,
		newID:  cfg.NewID,
	}
	if a.codec == nil {
		a.codec = NewJSONCodec()
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if a.newID == nil {
		a.newID = core.NewID
	}
	return a
}

// Store returns the underlying byte store.
func (a *Adapter) Store() core.ByteStore {
	return a.store
}

// Codec returns the codec in use.
func (a *Adapter) Codec() Codec {
	return a.codec
}

// Load reads the collection stored under key.
func (a *Adapter) Load(ctx context.Context, key string) []core.Note {
	raw, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.Warn("failed to read notes, starting empty", "key", key, "error", err)
		return []core.Note{}
	}
	if !ok {
		a.logger.Debug("no stored notes, starting empty", "key", key)
		return []core.Note{}
	}

	records, err := a.codec.Decode([]byte(raw))
	if err != nil {
		a.logger.Warn("stored notes are corrupt, starting empty", "key", key, "codec", a.codec.Name(), "error", err)
		return []core.Note{}
	}

	return a.repair(key, records)
}

// repair converts records into notes and restores the collection
// invariants: every note has a unique ID and CreatedAt <= UpdatedAt.
func (a *Adapter) repair(key string, records []Record) []core.Note {
	notes := make([]core.Note, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		n := r.ToNote()
		if _, err := core.ParseColor(r.Color); err != nil {
			a.logger.Debug("unknown color replaced", "key", key, "id", n.ID, "color", r.Color)
		}
		if n.ID == "" {
			n.ID = a.newID()
			a.logger.Warn("note without id assigned a new one", "key", key, "id", n.ID)
		}
		if _, dup := seen[n.ID]; dup {
			a.logger.Warn("duplicate note id dropped", "key", key, "id", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		if n.UpdatedAt.Before(n.CreatedAt) {
			a.logger.Warn("note updated before creation, clamped", "key", key, "id", n.ID)
			n.UpdatedAt = n.CreatedAt
		}
		notes = append(notes, n)
	}
	return notes
}

// Save encodes notes and overwrites the value stored under key.
func (a *Adapter) Save(ctx context.Context, key string, notes []core.Note) error {
	records := make([]Record, len(notes))
	for i, n := range notes {
		records[i] = FromNote(n)
	}

	data, err := a.codec.Encode(records)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	if err := a.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write notes: %w", err)
	}
	return nil
}

// Remove deletes the collection stored under key.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	return a.store.Remove(ctx, key)
}

// Watch forwards to the byte store when it supports watching.
func (a *Adapter) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w, ok := a.store.(core.Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "storage/" + a.codec.Name()
}

var _ core.Repository = (*Adapter)(nil)
var _ core.Watchable = (*Adapter)(nil)
