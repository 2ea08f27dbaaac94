package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicknotes/pkg/adapters/sqlite"
	"github.com/aretw0/quicknotes/pkg/core"
	"github.com/aretw0/quicknotes/pkg/storage"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, ":memory:")

	_, ok, err := s.Get(ctx, "quicknotes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "quicknotes", "[]"))
	require.NoError(t, s.Set(ctx, "quicknotes", `[{"id":"1"}]`))

	v, ok, err := s.Get(ctx, "quicknotes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Remove(ctx, "quicknotes"))
	require.NoError(t, s.Remove(ctx, "quicknotes"))
	_, ok, err = s.Get(ctx, "quicknotes")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, ":memory:")
	for _, k := range []string{"quicknotes", "quicknotes/archive", "settings"} {
		require.NoError(t, s.Set(ctx, k, "x"))
	}

	all, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"quicknotes", "quicknotes/archive", "settings"}, all)

	notes, err := s.Keys(ctx, "quicknotes/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"quicknotes/archive"}, notes)
}

func TestStore_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")

	first := openStore(t, path)
	c := core.NewCollection(ctx, storage.NewAdapter(first, storage.Config{}), core.Config{})
	n, err := c.Create(ctx, "sqlite", "survives reopen", core.ColorYellow)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := openStore(t, path)
	reopened := core.NewCollection(ctx, storage.NewAdapter(second, storage.Config{}), core.Config{})
	got, err := reopened.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Equal(t, "sqlite", second.ComponentType())
}
