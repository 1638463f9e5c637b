// Package cache provides the TTL-based key-value store backing the
// proxy, with a Redis implementation.
//
// Keys are canonical request paths (including the query string) of
// inbound requests or synthesized upstream page requests. Values are
// JSON strings. Entries are immutable for their TTL window: writers use
// the override flag to declare whether they have already proven the key
// absent or want an existence check performed first.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss indicates the requested key was not found in the store.
// Any other error from Get means the store itself failed; callers must
// not treat that as a miss.
var ErrCacheMiss = errors.New("cache miss")

// Store is the key-value cache contract used by the request pipeline.
type Store interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set persists value under key with the store's fixed TTL. With
	// override false the write is skipped when the key already exists;
	// with override true it is unconditional, for callers that have
	// just observed a miss and can skip the redundant existence check.
	Set(ctx context.Context, key, value string, override bool) error

	// Exists reports whether key currently holds an entry.
	Exists(ctx context.Context, key string) (bool, error)

	Close() error
}

// RedisStore implements Store on a Redis backend with one fixed TTL for
// every entry.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed store. Entries expire after ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis: client,
		ttl:   ttl,
	}
}

// Get retrieves the value stored under key.
// Returns ErrCacheMiss if the key doesn't exist.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return "", ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return "", fmt.Errorf("redis get: %w", err)
	}

	CacheHits.Inc()
	return value, nil
}

// Set stores value under key with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string, override bool) error {
	if !override {
		exists, err := s.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			// A concurrent writer got here first; the entry is
			// immutable for its TTL window.
			CacheWritesSkipped.Inc()
			return nil
		}
	}

	if err := s.redis.Set(ctx, key, value, s.ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheWrites.Inc()
	return nil
}

// Exists reports whether key currently holds an entry.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		CacheErrors.WithLabelValues("exists").Inc()
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}
