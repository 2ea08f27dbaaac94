package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/quicknotes/pkg/core"
)

// watchDebounce coalesces the burst of events an atomic write produces.
const watchDebounce = 50 * time.Millisecond

// Watch emits an event whenever a key matching pattern is created, modified
// or deleted on disk, including changes made by other processes. The
// channel is closed when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := s.recursiveAdd(watcher, s.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	known := make(map[string]bool)
	if keys, err := s.Keys(ctx, pattern); err == nil {
		for _, k := range keys {
			known[k] = true
		}
	}

	out := make(chan core.Event, 16)
	deb := newDebouncer(watchDebounce)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer s.setWatcherActive(false)
		defer watcher.Close()
		defer deb.stop()

		emit := func(key string) {
			e, ok := s.resolveEvent(key, known)
			if !ok {
				return
			}
			select {
			case out <- e:
			case <-ctx.Done():
			}
		}

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				s.config.Logger.Debug("fs event received", "name", event.Name, "op", event.Op.String())

				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = s.recursiveAdd(watcher, event.Name)
						continue
					}
				}

				rel, err := filepath.Rel(s.Path, event.Name)
				if err != nil {
					continue
				}
				key, ok := s.keyOf(rel)
				if !ok || !matches(pattern, key) {
					continue
				}
				deb.add(key, emit)

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.config.Logger.Error("fsnotify error", "error", wErr)
				if s.config.ErrorHandler != nil {
					s.config.ErrorHandler(wErr)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.config.Logger.Error("watcher stopped", "error", err)
		if s.config.ErrorHandler != nil {
			s.config.ErrorHandler(err)
		}
	}))

	return out, nil
}

// resolveEvent decides the event type from the file's current state.
// known tracks which keys existed when last observed. It is only touched
// by debouncer callbacks, which never run concurrently.
func (s *Store) resolveEvent(key string, known map[string]bool) (core.Event, bool) {
	name, err := s.filename(key)
	if err != nil {
		return core.Event{}, false
	}
	_, err = os.Stat(filepath.Join(s.Path, name))
	exists := err == nil

	var t core.EventType
	switch {
	case exists && known[key]:
		t = core.EventModify
	case exists:
		t = core.EventCreate
	case known[key]:
		t = core.EventDelete
	default:
		return core.Event{}, false
	}
	known[key] = exists

	return core.Event{Type: t, Key: key, Timestamp: time.Now().UnixMilli()}, true
}

// recursiveAdd watches root and every directory below it except the
// system and git directories.
func (s *Store) recursiveAdd(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != s.Path && (name == s.config.SystemDir || name == ".git") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// debouncer delays a callback per key until events stop arriving for that
// key. Callbacks are serialized.
type debouncer struct {
	mu      sync.Mutex
	fire    sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(key string, fn func(key string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.fire.Lock()
		d.mu.Unlock()

		defer d.fire.Unlock()
		fn(key)
	})
}

// stop cancels pending callbacks and waits for a running one to return.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	for _, t := range d.timers {
		t.Stop()
	}
	d.timers = nil
	d.mu.Unlock()

	d.fire.Lock()
	d.fire.Unlock()
}
