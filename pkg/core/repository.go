package core

import "context"

// ByteStore is the opaque key-value persistence the notes end up in.
// Implementations live under pkg/adapters (memory, fs, sqlite, redis).
type ByteStore interface {
	// Get returns the raw value stored under key. The boolean is false when
	// the key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys returns the stored keys matching a doublestar glob pattern.
	// An empty pattern matches everything.
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// Watchable is implemented by stores that can report external changes.
type Watchable interface {
	// Watch emits an Event whenever a key matching pattern changes.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Repository is the typed view of a ByteStore used by the Collection.
// Load never fails: missing or corrupt data degrades to an empty collection.
type Repository interface {
	Load(ctx context.Context, key string) []Note
	Save(ctx context.Context, key string, notes []Note) error
}
