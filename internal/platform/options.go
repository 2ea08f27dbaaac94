package platform

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/aretw0/quicknotes/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory = "memory"
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterRedis  = "redis"
)

// Adapters lists every adapter name in a stable order.
var Adapters = []string{AdapterMemory, AdapterFS, AdapterSQLite, AdapterRedis}

// options holds the internal configuration for opening a notebook.
type options struct {
	store    core.ByteStore
	logger   *slog.Logger
	adapter  string
	codec    string
	key      string
	language language.Tag
	config   map[string]interface{}
}

// Option defines a functional option for configuring a notebook.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		codec:   "json",
		key:     core.DefaultKey,
		config:  make(map[string]interface{}),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger shared by the collection and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a ready byte store. The adapter name and URI are then ignored.
func WithStore(store core.ByteStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the byte store by name (see Adapters).
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithCodec selects the serialization format ("json" or "yaml").
// Defaults to "json".
func WithCodec(name string) Option {
	return func(o *options) {
		o.codec = name
	}
}

// WithKey sets the store key the notes live under. Defaults to "quicknotes".
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithLanguage sets the collation used when sorting by title.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.language = tag
	}
}

// WithAutoInit creates the notes directory (and git repo when versioned) if missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithMustExist makes opening fail when the notes directory is missing.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithVersioning commits every write to Git. Only the fs adapter supports it.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioned"] = enabled
	}
}

// WithReadOnly rejects writes with core.ErrReadOnly and skips initialization.
// Mutations still apply in memory and report core.ErrPersistenceDegraded.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithSystemDir sets the hidden directory name of the fs adapter.
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithForceTemp re-roots the fs path into a temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the sandbox applied under `go run` and `go test`.
// By default (true) the fs adapter works in a temporary directory in those
// cases, so a development build never touches real notes.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler receives runtime errors of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithRedisAuth sets the password and database number for the redis adapter.
func WithRedisAuth(password string, db int) Option {
	return func(o *options) {
		o.config["redis_password"] = password
		o.config["redis_db"] = db
	}
}

// WithRedisPrefix namespaces the keys of the redis adapter.
func WithRedisPrefix(prefix string) Option {
	return func(o *options) {
		o.config["redis_prefix"] = prefix
	}
}
