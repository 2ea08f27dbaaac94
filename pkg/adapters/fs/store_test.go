package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicknotes/pkg/adapters/fs"
	"github.com/aretw0/quicknotes/pkg/core"
	"github.com/aretw0/quicknotes/pkg/git"
	"github.com/aretw0/quicknotes/pkg/storage"
)

// setupStore helps create an initialized store for testing.
// It returns the store and its root path.
func setupStore(t *testing.T, opts ...func(*fs.Config)) (*fs.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "notes")
	cfg := fs.Config{
		Path:     path,
		AutoInit: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := fs.NewStore(cfg)
	require.NoError(t, s.Initialize(context.Background()))
	return s, path
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupStore(t)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.DirExists(t, filepath.Join(path, fs.DefaultSystemDir))
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		s := fs.NewStore(fs.Config{
			Path:      filepath.Join(t.TempDir(), "missing"),
			MustExist: true,
		})
		assert.Error(t, s.Initialize(context.Background()))
	})

	t.Run("Fails if Path is a File", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
		s := fs.NewStore(fs.Config{Path: file})
		assert.Error(t, s.Initialize(context.Background()))
	})
}

func TestStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s, path := setupStore(t)

	_, ok, err := s.Get(ctx, "quicknotes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "quicknotes", `[{"id":"1"}]`))
	assert.FileExists(t, filepath.Join(path, "quicknotes.json"))

	v, ok, err := s.Get(ctx, "quicknotes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Set(ctx, "boards/work", "[]"))
	assert.FileExists(t, filepath.Join(path, "boards", "work.json"))

	require.NoError(t, s.Remove(ctx, "quicknotes"))
	require.NoError(t, s.Remove(ctx, "quicknotes"), "removing a missing key is not an error")
	_, ok, _ = s.Get(ctx, "quicknotes")
	assert.False(t, ok)

	// No temp files left behind.
	entries, err := os.ReadDir(path)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), fs.TempFilePrefix)
	}
}

func TestStore_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)

	for _, key := range []string{"", "../escape", "/abs", "a/../b", fs.DefaultSystemDir + "/x", ".git/config"} {
		t.Run(key, func(t *testing.T) {
			assert.Error(t, s.Set(ctx, key, "x"))
		})
	}
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	s, path := setupStore(t, func(c *fs.Config) { c.Extension = "yaml" })

	for _, k := range []string{"quicknotes", "archive/2023", "archive/2024"} {
		require.NoError(t, s.Set(ctx, k, "[]"))
	}
	// Files with other extensions are not keys.
	require.NoError(t, os.WriteFile(filepath.Join(path, "README.md"), []byte("hi"), 0644))

	all, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive/2023", "archive/2024", "quicknotes"}, all)

	archived, err := s.Keys(ctx, "archive/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive/2023", "archive/2024"}, archived)
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	_, path := setupStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(path, "quicknotes.json"), []byte("[]"), 0644))

	ro := fs.NewStore(fs.Config{Path: path, ReadOnly: true})
	require.NoError(t, ro.Initialize(ctx))

	v, ok, err := ro.Get(ctx, "quicknotes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	assert.True(t, errors.Is(ro.Set(ctx, "quicknotes", "x"), core.ErrReadOnly))
	assert.True(t, errors.Is(ro.Remove(ctx, "quicknotes"), core.ErrReadOnly))

	state, ok := ro.State().(fs.StoreState)
	require.True(t, ok)
	assert.True(t, state.ReadOnly)
	assert.Equal(t, "fs", ro.ComponentType())
}

func TestStore_Versioned(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	t.Setenv("GIT_AUTHOR_NAME", "quicknotes")
	t.Setenv("GIT_AUTHOR_EMAIL", "quicknotes@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "quicknotes")
	t.Setenv("GIT_COMMITTER_EMAIL", "quicknotes@example.com")

	ctx := context.Background()
	s, path := setupStore(t, func(c *fs.Config) { c.Versioned = true })
	assert.DirExists(t, filepath.Join(path, ".git"))

	require.NoError(t, s.Set(ctx, "quicknotes", "[]"))
	require.NoError(t, s.Set(ctx, "quicknotes", `[{"id":"1"}]`))
	require.NoError(t, s.Remove(ctx, "quicknotes"))

	history, err := s.History(ctx, "quicknotes", 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	client := git.NewClient(path, "", nil)
	status, err := client.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, status, "working tree should be clean")
}

func TestStore_History_Unversioned(t *testing.T) {
	s, _ := setupStore(t)
	_, err := s.History(context.Background(), "quicknotes", 1)
	assert.Error(t, err)
}

func TestStore_WithCollection(t *testing.T) {
	ctx := context.Background()
	s, path := setupStore(t)

	adapter := storage.NewAdapter(s, storage.Config{})
	c := core.NewCollection(ctx, adapter, core.Config{})
	n, err := c.Create(ctx, "on disk", "", core.ColorPurple)
	require.NoError(t, err)

	// A second process opening the same directory sees the note.
	other := fs.NewStore(fs.Config{Path: path, MustExist: true})
	require.NoError(t, other.Initialize(ctx))
	loaded := core.NewCollection(ctx, storage.NewAdapter(other, storage.Config{}), core.Config{})
	got, err := loaded.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)

	// Corrupt file degrades to an empty collection.
	require.NoError(t, os.WriteFile(filepath.Join(path, "quicknotes.json"), []byte("{oops"), 0644))
	loaded.Reload(ctx)
	assert.Equal(t, 0, loaded.Len())
}

func TestStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, path := setupStore(t)
	require.NoError(t, s.Set(ctx, "existing", "[]"))

	events, err := s.Watch(ctx, "")
	require.NoError(t, err)

	next := func() core.Event {
		t.Helper()
		select {
		case e, ok := <-events:
			require.True(t, ok, "channel closed early")
			return e
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for event")
		}
		return core.Event{}
	}

	// External writer (another process).
	require.NoError(t, os.WriteFile(filepath.Join(path, "fresh.json"), []byte("[]"), 0644))
	e := next()
	assert.Equal(t, core.EventCreate, e.Type)
	assert.Equal(t, "fresh", e.Key)

	require.NoError(t, s.Set(ctx, "existing", `[{"id":"1"}]`))
	e = next()
	assert.Equal(t, core.EventModify, e.Type)
	assert.Equal(t, "existing", e.Key)

	require.NoError(t, s.Remove(ctx, "existing"))
	e = next()
	assert.Equal(t, core.EventDelete, e.Type)
	assert.Equal(t, "existing", e.Key)

	cancel()
	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
