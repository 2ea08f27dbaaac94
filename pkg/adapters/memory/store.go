// Package memory provides a volatile core.ByteStore.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/quicknotes/pkg/core"
)

// Store is a process-local core.ByteStore backed by a map. It is safe for
// concurrent access and best suited for tests or throwaway sessions.
// It also implements core.Watchable, notifying watchers of every write.
type Store struct {
	mu       sync.RWMutex
	values   map[string]string
	watchers map[*watcher]struct{}
}

type watcher struct {
	pattern string
	ch      chan core.Event
}

// watchBuffer bounds how many events a slow watcher may lag behind before
// further events are dropped.
const watchBuffer = 64

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		values:   make(map[string]string),
		watchers: make(map[*watcher]struct{}),
	}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set overwrites the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	eType := core.EventModify
	if _, ok := s.values[key]; !ok {
		eType = core.EventCreate
	}
	s.values[key] = value
	s.notifyLocked(eType, key)
	return nil
}

// Remove deletes key if present.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	s.notifyLocked(core.EventDelete, key)
	return nil
}

// Keys returns the sorted keys matching pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		if matches(pattern, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch emits an event for every write to a key matching pattern until ctx
// is cancelled.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	w := &watcher{pattern: pattern, ch: make(chan core.Event, watchBuffer)}

	s.mu.Lock()
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, w)
		close(w.ch)
		s.mu.Unlock()
	}()

	return w.ch, nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *Store) notifyLocked(t core.EventType, key string) {
	e := core.Event{Type: t, Key: key, Timestamp: time.Now().UnixMilli()}
	for w := range s.watchers {
		if !matches(w.pattern, key) {
			continue
		}
		select {
		case w.ch <- e:
		default:
		}
	}
}

func matches(pattern, key string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, key)
	return err == nil && ok
}

var _ core.ByteStore = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}
