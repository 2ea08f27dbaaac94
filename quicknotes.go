package quicknotes

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/aretw0/quicknotes/internal/platform"
	"github.com/aretw0/quicknotes/pkg/core"
)

// --- Types ---

// Note is a single note.
type Note = core.Note

// Color is one of the fixed note colors.
type Color = core.Color

// Query selects and orders notes for display.
type Query = core.Query

// Collection is the in-memory, persisted list of notes.
type Collection = core.Collection

// Notebook is an opened Collection bound to its store.
type Notebook = platform.Notebook

// DefaultKey is the store key notes are persisted under.
const DefaultKey = core.DefaultKey

// Note colors.
const (
	ColorBlue   = core.ColorBlue
	ColorGreen  = core.ColorGreen
	ColorYellow = core.ColorYellow
	ColorPink   = core.ColorPink
	ColorPurple = core.ColorPurple
	ColorGray   = core.ColorGray
)

// Sort orders.
const (
	SortByDate  = core.SortByDate
	SortByTitle = core.SortByTitle
)

// Errors.
var (
	ErrValidationRejected  = core.ErrValidationRejected
	ErrNotFound            = core.ErrNotFound
	ErrPersistenceDegraded = core.ErrPersistenceDegraded
	ErrReadOnly            = core.ErrReadOnly
)

// --- Configuration ---

// Option defines a functional option for opening a Notebook.
type Option = platform.Option

// WithLogger sets the logger for the collection and its store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the byte store: "memory", "fs", "sqlite" or "redis".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStore injects a custom byte store.
func WithStore(store core.ByteStore) Option {
	return platform.WithStore(store)
}

// WithCodec selects the serialization format ("json" or "yaml").
func WithCodec(name string) Option {
	return platform.WithCodec(name)
}

// WithKey sets the store key notes are persisted under.
func WithKey(key string) Option {
	return platform.WithKey(key)
}

// WithLanguage sets the collation used for title sorting.
func WithLanguage(tag language.Tag) Option {
	return platform.WithLanguage(tag)
}

// WithAutoInit creates the notes directory if missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist requires the notes directory to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithVersioning commits every write to Git (fs adapter only).
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithReadOnly rejects every write to the store.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the fs adapter into a temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety toggles the temporary-directory sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithSystemDir sets the hidden directory name of the fs adapter.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithWatcherErrorHandler receives runtime errors of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithRedisAuth sets the password and database number of the redis adapter.
func WithRedisAuth(password string, db int) Option {
	return platform.WithRedisAuth(password, db)
}

// WithRedisPrefix namespaces the keys of the redis adapter.
func WithRedisPrefix(prefix string) Option {
	return platform.WithRedisPrefix(prefix)
}

// --- Factory ---

// Open opens a Notebook. The URI is adapter-specific: a directory for
// "fs", a database file for "sqlite", a host:port for "redis".
func Open(ctx context.Context, uri string, opts ...Option) (*Notebook, error) {
	return platform.New(ctx, uri, opts...)
}

// OpenMemory opens a Notebook that lives only in process memory.
func OpenMemory(ctx context.Context, opts ...Option) (*Notebook, error) {
	return platform.New(ctx, "", append(opts[:len(opts):len(opts)], platform.WithAdapter(platform.AdapterMemory))...)
}

// History lists the commits of a versioned fs notebook, newest first.
func History(ctx context.Context, path string, limit int, opts ...Option) ([]string, error) {
	return platform.History(ctx, path, limit, opts...)
}

// FindRoot looks upwards from startDir for a notes directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Helpers ---

// ParseColor parses a color name, case-insensitively.
func ParseColor(s string) (Color, error) {
	return core.ParseColor(s)
}

// ParseSort parses a sort order name.
func ParseSort(s string) (core.SortBy, error) {
	return core.ParseSort(s)
}

// ParseColorFilter parses a list color filter: "all" or a color name.
func ParseColorFilter(s string) (string, error) {
	return core.ParseColorFilter(s)
}
