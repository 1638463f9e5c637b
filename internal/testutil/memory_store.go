// Package testutil provides test doubles shared across packages: an
// in-memory cache store and a configurable mock of the upstream API.
package testutil

import (
	"context"
	"sync"

	"github.com/holonet/swapi-proxy/pkg/cache"
)

// MemoryStore is an in-memory cache.Store for unit tests. The TTL is
// not enforced; entries live until the store is discarded. All methods
// are safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string

	// Err, when set, is returned by every operation to simulate a
	// store outage.
	Err error

	gets          int
	writes        int
	skippedWrites int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string),
	}
}

// Seed stores value under key directly, bypassing counters.
func (s *MemoryStore) Seed(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.gets++
	value, ok := s.entries[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return value, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, override bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if !override {
		if _, ok := s.entries[key]; ok {
			s.skippedWrites++
			return nil
		}
	}
	s.entries[key] = value
	s.writes++
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.entries[key]
	return ok, nil
}

func (s *MemoryStore) Close() error { return nil }

// Gets returns the number of Get calls served.
func (s *MemoryStore) Gets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets
}

// Writes returns the number of effective writes.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// SkippedWrites returns the number of non-override writes skipped
// because the key already existed.
func (s *MemoryStore) SkippedWrites() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skippedWrites
}

// Value returns the stored value and whether the key exists.
func (s *MemoryStore) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
