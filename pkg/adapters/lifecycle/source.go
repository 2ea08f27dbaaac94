// Package lifecycle exposes collection changes as a lifecycle.Source.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/quicknotes/pkg/core"
)

// Watcher is the part of core.Collection a source needs.
type Watcher interface {
	Watch(ctx context.Context) (<-chan core.Event, error)
	Reload(ctx context.Context)
}

// ErrAlreadyStarted is returned by every Start after the first.
var ErrAlreadyStarted = errors.New("collection source already started")

type collectionSource struct {
	c       Watcher
	out     chan lifecycle.Event
	started atomic.Bool
}

// NewSource creates a lifecycle.Source that reloads c whenever its key
// changes in the backing store and then emits the change.
// Consumers reading Events therefore always observe the reloaded state.
func NewSource(c Watcher) lifecycle.Source {
	return &collectionSource{
		c:   c,
		out: make(chan lifecycle.Event),
	}
}

func (s *collectionSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start subscribes to the collection. It fails when the repository cannot
// be watched. Events closes once ctx is done or the store stops emitting.
// A source starts at most once.
func (s *collectionSource) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	events, err := s.c.Watch(ctx)
	if err != nil {
		close(s.out)
		return fmt.Errorf("failed to start collection source: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				s.c.Reload(ctx)
				// core.Event satisfies lifecycle.Event through String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
