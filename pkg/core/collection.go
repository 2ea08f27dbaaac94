package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
)

// DefaultKey is the store key notes are persisted under.
const DefaultKey = "quicknotes"

// Config holds the configuration for a Collection.
type Config struct {
	Key      string       // Store key. Defaults to DefaultKey.
	Logger   *slog.Logger // Defaults to a discard logger.
	Language language.Tag // Collation used for title sorting. Defaults to English.
	Now      func() time.Time
	NewID    func() string
}

// Collection owns the in-memory list of notes and persists it through a
// Repository after every mutation.
//
// Storage order is newest-created first. Display order is always derived
// through Query.
type Collection struct {
	mu     sync.RWMutex
	repo   Repository
	key    string
	logger *slog.Logger
	lang   language.Tag
	now    func() time.Time
	newID  func() string
	notes  []Note
}

// NewCollection creates a Collection and loads its initial state from repo.
func NewCollection(ctx context.Context, repo Repository, cfg Config) *Collection {
	c := &Collection{
		repo:   repo,
		key:    cfg.Key,
		logger: cfg.Logger,
		lang:   cfg.Language,
		now:    cfg.Now,
		newID:  cfg.NewID,
	}
	if c.key == "" {
		c.key = DefaultKey
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.lang == language.Und {
		c.lang = language.English
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = NewID
	}
	c.notes = repo.Load(ctx, c.key)
	return c
}

// Key returns the store key this collection persists under.
func (c *Collection) Key() string {
	return c.key
}

func (c *Collection) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

// Create adds a new note at the head of the collection.
// Title and content are trimmed; if both end up empty the note is rejected
// with ErrValidationRejected and nothing is written. An empty color selects
// DefaultColor.
//
// If the note was added but could not be persisted, the note is returned
// together with an error matching ErrPersistenceDegraded.
func (c *Collection) Create(ctx context.Context, title, content string, color Color) (Note, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" && content == "" {
		return Note{}, fmt.Errorf("%w: title and content are both empty", ErrValidationRejected)
	}
	if color == "" {
		color = DefaultColor
	}
	if !color.Valid() {
		return Note{}, fmt.Errorf("%w: unknown color %q", ErrValidationRejected, color)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.newID()
	for c.indexLocked(id) >= 0 {
		c.logger.Warn("generated id already in use, retrying", "id", id)
		id = c.newID()
	}

	ts := c.timestamp()
	n := Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Color:     color,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	c.notes = append([]Note{n}, c.notes...)
	c.logger.Debug("note created", "id", id)

	return n, c.persistLocked(ctx)
}

// Update replaces title, content and color of the note with the given ID.
// It returns ErrNotFound when no such note exists. Input is trimmed as in
// Create; an edit that would leave both fields empty is rejected with
// ErrValidationRejected and the note keeps its previous values. An empty
// color keeps the current color.
//
// UpdatedAt always moves forward, even when the clock has not.
func (c *Collection) Update(ctx context.Context, id, title, content string, color Color) (Note, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if title == "" && content == "" {
		return Note{}, fmt.Errorf("%w: title and content are both empty", ErrValidationRejected)
	}
	if color == "" {
		color = c.notes[i].Color
	}
	if !color.Valid() {
		return Note{}, fmt.Errorf("%w: unknown color %q", ErrValidationRejected, color)
	}

	n := &c.notes[i]
	ts := c.timestamp()
	if !ts.After(n.UpdatedAt) {
		ts = n.UpdatedAt.Add(time.Millisecond)
	}
	n.Title = title
	n.Content = content
	n.Color = color
	n.UpdatedAt = ts
	c.logger.Debug("note updated", "id", id)

	return *n, c.persistLocked(ctx)
}

// Delete removes the note with the given ID. Deleting an unknown ID is a
// no-op and does not touch the store.
func (c *Collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		c.logger.Debug("delete of unknown note ignored", "id", id)
		return nil
	}
	c.notes = append(c.notes[:i:i], c.notes[i+1:]...)
	c.logger.Debug("note deleted", "id", id)

	return c.persistLocked(ctx)
}

// ClearAll removes every note. Asking the user for confirmation is the
// caller's job.
func (c *Collection) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.notes)
	c.notes = []Note{}
	c.logger.Info("collection cleared", "removed", removed)

	return c.persistLocked(ctx)
}

// Query returns a filtered, sorted copy of the collection. It never
// mutates state or touches the store.
func (c *Collection) Query(q Query) []Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return q.Apply(c.notes, c.lang)
}

// Notes returns a copy of the unfiltered collection in storage order.
func (c *Collection) Notes() []Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Note, len(c.notes))
	copy(out, c.notes)
	return out
}

// Len returns the number of notes in the collection.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.notes)
}

// Get returns the note with the given ID.
func (c *Collection) Get(id string) (Note, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.notes[i], nil
}

// Reload replaces the in-memory state with whatever the store holds now.
// The load happens under the write lock so that a concurrent mutation
// cannot be saved and then overwritten by an older snapshot.
func (c *Collection) Reload(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	notes := c.repo.Load(ctx, c.key)
	c.notes = notes
	c.logger.Debug("collection reloaded", "count", len(notes))
}

// Watch reports external changes to the collection key, if the underlying
// repository supports it.
func (c *Collection) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := c.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, c.key)
}

func (c *Collection) indexLocked(id string) int {
	for i := range c.notes {
		if c.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole collection. Failures are logged and
// wrapped in ErrPersistenceDegraded; the in-memory state stays as is.
func (c *Collection) persistLocked(ctx context.Context) error {
	if err := c.repo.Save(ctx, c.key, c.notes); err != nil {
		c.logger.Warn("failed to persist notes", "key", c.key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceDegraded, err)
	}
	return nil
}
