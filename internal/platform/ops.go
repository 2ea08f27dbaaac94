package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/quicknotes/pkg/adapters/fs"
	"github.com/aretw0/quicknotes/pkg/adapters/memory"
	"github.com/aretw0/quicknotes/pkg/adapters/redis"
	"github.com/aretw0/quicknotes/pkg/adapters/sqlite"
	"github.com/aretw0/quicknotes/pkg/core"
	"github.com/aretw0/quicknotes/pkg/storage"
)

// DefaultRedisAddr is used when the redis adapter gets an empty URI.
const DefaultRedisAddr = "localhost:6379"

// DefaultSQLiteFile is used when the sqlite adapter gets an empty URI.
const DefaultSQLiteFile = "quicknotes.db"

// OpenStore creates and initializes the byte store selected by the options.
// The URI is adapter-specific: a directory for "fs", a database file for
// "sqlite", a host:port for "redis". It is ignored by "memory".
//
// The returned close function releases connections and is never nil.
func OpenStore(ctx context.Context, uri string, opts ...Option) (core.ByteStore, func() error, error) {
	return openStore(ctx, uri, applyOptions(opts))
}

func openStore(ctx context.Context, uri string, o *options) (core.ByteStore, func() error, error) {
	noop := func() error { return nil }

	if o.store != nil {
		return o.store, noop, nil
	}

	switch o.adapter {
	case AdapterMemory:
		return memory.NewStore(), noop, nil

	case AdapterFS, "":
		store, err := openFS(ctx, uri, o)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case AdapterSQLite:
		if uri == "" {
			uri = DefaultSQLiteFile
		}
		store, err := sqlite.Open(ctx, uri)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case AdapterRedis:
		if uri == "" {
			uri = DefaultRedisAddr
		}
		password, _ := o.config["redis_password"].(string)
		db, _ := o.config["redis_db"].(int)
		prefix, _ := o.config["redis_prefix"].(string)
		store, err := redis.Open(ctx, redis.Config{
			Addr:     uri,
			Password: password,
			DB:       db,
			Prefix:   prefix,
			Logger:   o.logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// openFS resolves the notes directory and initializes the filesystem store.
func openFS(ctx context.Context, path string, o *options) (*fs.Store, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	versioned, _ := o.config["versioned"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	devSafety := true
	if v, ok := o.config["dev_safety"].(bool); ok {
		devSafety = v
	}

	// Read-only stores cannot damage anything, so they skip the sandbox.
	useTemp := tempDir || (IsDevRun() && devSafety && !readOnly)
	resolved := ResolvePath(path, useTemp)
	if useTemp && o.logger != nil && resolved != path {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	}

	store := fs.NewStore(fs.Config{
		Path:         resolved,
		Extension:    o.codec,
		AutoInit:     autoInit || useTemp,
		MustExist:    mustExist,
		Versioned:    versioned,
		ReadOnly:     readOnly,
		SystemDir:    systemDir,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// History returns the commit summaries recorded for the notes key of a
// versioned fs store, newest first.
func History(ctx context.Context, uri string, limit int, opts ...Option) ([]string, error) {
	o := applyOptions(opts)
	if o.store == nil && o.adapter != AdapterFS {
		return nil, fmt.Errorf("adapter %s does not keep history", o.adapter)
	}
	// Reading history never writes.
	o.config["read_only"] = true
	o.config["versioned"] = true

	store, closeFn, err := openStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	h, ok := store.(interface {
		History(ctx context.Context, key string, limit int) ([]string, error)
	})
	if !ok {
		return nil, fmt.Errorf("store does not keep history")
	}
	return h.History(ctx, o.key, limit)
}

func codecFor(o *options) (storage.Codec, error) {
	return storage.LookupCodec(o.codec)
}

func loggerFor(o *options) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
