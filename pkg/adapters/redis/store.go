// Package redis provides a core.ByteStore backed by Redis strings.
//
// Writes are announced on a Pub/Sub channel so that every process sharing
// the same server can watch for changes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"

	"github.com/aretw0/quicknotes/pkg/core"
)

// DefaultPrefix namespaces every key the store touches.
const DefaultPrefix = "quicknotes:"

// Config holds the connection settings for the Redis store.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Logger   *slog.Logger
}

// Store implements core.ByteStore and core.Watchable on Redis.
type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// Open creates a client and verifies the server answers.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return New(client, cfg), nil
}

// New wraps an existing client.
func New(client *redis.Client, cfg Config) *Store {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{client: client, prefix: cfg.Prefix, logger: cfg.Logger}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// channel is a Pub/Sub channel name, which never shows up in SCAN.
func (s *Store) channel() string {
	return s.prefix + "events"
}

// Get returns the value stored for key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key and announces the change. SET ... GET
// reports the previous value in the same round trip, so concurrent
// writers agree on which of them created the key. It needs Redis 6.2.
func (s *Store) Set(ctx context.Context, key, value string) error {
	t := core.EventModify
	err := s.client.SetArgs(ctx, s.prefix+key, value, redis.SetArgs{Get: true}).Err()
	switch {
	case errors.Is(err, redis.Nil):
		t = core.EventCreate
	case err != nil:
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	s.publish(ctx, core.Event{Type: t, Key: key, Timestamp: time.Now().UnixMilli()})
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	if n > 0 {
		s.publish(ctx, core.Event{Type: core.EventDelete, Key: key, Timestamp: time.Now().UnixMilli()})
	}
	return nil
}

// Keys scans the keyspace and returns the sorted keys matching pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := strings.TrimPrefix(iter.Val(), s.prefix)
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, key); !ok {
				continue
			}
		}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Watch subscribes to the change channel. Only writes made through a Store
// with the same prefix are observed.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	sub := s.client.Subscribe(ctx, s.channel())
	// Wait for the confirmation so no write is missed after Watch returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan core.Event, 16)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-msgs:
				if !ok {
					return nil
				}
				var e core.Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					s.logger.Warn("dropping malformed event", "payload", msg.Payload, "error", err)
					continue
				}
				if pattern != "" {
					if ok, _ := doublestar.Match(pattern, e.Key); !ok {
						continue
					}
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return out, nil
}

func (s *Store) publish(ctx context.Context, e core.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := s.client.Publish(ctx, s.channel(), payload).Err(); err != nil {
		s.logger.Warn("failed to publish event", "key", e.Key, "error", err)
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "redis"
}

var (
	_ core.ByteStore = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
)
