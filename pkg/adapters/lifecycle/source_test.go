package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicknotes/pkg/adapters/lifecycle"
	"github.com/aretw0/quicknotes/pkg/adapters/memory"
	"github.com/aretw0/quicknotes/pkg/core"
	"github.com/aretw0/quicknotes/pkg/storage"
)

func TestSource_ReloadsBeforeEmitting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewStore()
	watched := core.NewCollection(ctx, storage.NewAdapter(store, storage.Config{}), core.Config{})

	src := lifecycle.NewSource(watched)
	require.NoError(t, src.Start(ctx))

	// A second writer sharing the store.
	writer := core.NewCollection(ctx, storage.NewAdapter(store, storage.Config{}), core.Config{})
	n, err := writer.Create(ctx, "from elsewhere", "", core.ColorGreen)
	require.NoError(t, err)

	select {
	case e := <-src.Events():
		assert.Equal(t, "CREATE quicknotes", e.String())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	got, err := watched.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)

	cancel()
	select {
	case _, ok := <-src.Events():
		for ok {
			_, ok = <-src.Events()
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events not closed after cancel")
	}
}

type unwatchable struct{}

func (unwatchable) Watch(context.Context) (<-chan core.Event, error) {
	return nil, assert.AnError
}

func (unwatchable) Reload(context.Context) {}

func TestSource_StartFails(t *testing.T) {
	src := lifecycle.NewSource(unwatchable{})
	assert.ErrorIs(t, src.Start(context.Background()), assert.AnError)

	_, ok := <-src.Events()
	assert.False(t, ok)
}

func TestSource_StartTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := core.NewCollection(ctx, storage.NewAdapter(memory.NewStore(), storage.Config{}), core.Config{})
	src := lifecycle.NewSource(c)
	require.NoError(t, src.Start(ctx))
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, src.Start(ctx), lifecycle.ErrAlreadyStarted)
	})

	failed := lifecycle.NewSource(unwatchable{})
	assert.ErrorIs(t, failed.Start(ctx), assert.AnError)
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, failed.Start(ctx), lifecycle.ErrAlreadyStarted)
	})
}
