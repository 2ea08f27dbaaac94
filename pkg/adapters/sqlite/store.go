// Package sqlite provides a core.ByteStore backed by a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/aretw0/quicknotes/pkg/core"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// entry maps a row of the kv table.
type entry struct {
	Key       string `db:"key"`
	Value     string `db:"value"`
	UpdatedAt int64  `db:"updated_at"`
}

// Store implements core.ByteStore on a SQLite database.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database file at path (":memory:" for a private
// in-memory database) and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}
	// Every pooled connection to ":memory:" would get its own empty
	// database, and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	return New(ctx, db)
}

// New wraps an existing connection and applies the schema.
func New(ctx context.Context, db *sqlx.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e entry
	err := s.db.GetContext(ctx, &e, `SELECT key, value, updated_at FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return e.Value, true, nil
}

// Set upserts the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	e := entry{Key: key, Value: value, UpdatedAt: time.Now().UnixMilli()}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (:key, :value, :updated_at)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, e)
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Keys returns the sorted keys matching pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	var all []string
	if err := s.db.SelectContext(ctx, &all, `SELECT key FROM kv`); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if pattern == "" {
			keys = append(keys, k)
			continue
		}
		if ok, err := doublestar.Match(pattern, k); err == nil && ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ core.ByteStore = (*Store)(nil)
