package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client. Unit tests are skipped
// when no local Redis is reachable; tests/integration covers the same
// paths against a containerized instance.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStore should panic with nil redis client")
		}
	}()
	NewRedisStore(nil, time.Minute)
}

func TestRedisStore_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, "/api/films/1", `{"title":"A New Hope"}`, false); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "/api/films/1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != `{"title":"A New Hope"}` {
		t.Errorf("Get = %q, want stored value", got)
	}
}

func TestRedisStore_Get_CacheMiss(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute)

	_, err := store.Get(context.Background(), "/api/nonexistent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisStore_Set_NoOverrideKeepsExisting(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, "/api/people/1", `{"name":"first"}`, false); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	// Second non-override write must not clobber the entry.
	if err := store.Set(ctx, "/api/people/1", `{"name":"second"}`, false); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	got, err := store.Get(ctx, "/api/people/1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != `{"name":"first"}` {
		t.Errorf("entry was overwritten: got %q", got)
	}
}

func TestRedisStore_Set_OverrideReplaces(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Set(ctx, "/api/people/1", `{"name":"first"}`, false); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	if err := store.Set(ctx, "/api/people/1", `{"name":"second"}`, true); err != nil {
		t.Fatalf("override Set failed: %v", err)
	}

	got, err := store.Get(ctx, "/api/people/1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != `{"name":"second"}` {
		t.Errorf("override write not applied: got %q", got)
	}
}

func TestRedisStore_Exists(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "/api/planets/3")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists = true for absent key")
	}

	if err := store.Set(ctx, "/api/planets/3", `{}`, true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	exists, err = store.Exists(ctx, "/api/planets/3")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Exists = false for present key")
	}
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, 50*time.Millisecond)
	ctx := context.Background()

	if err := store.Set(ctx, "/api/starships/9", `{}`, true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	_, err := store.Get(ctx, "/api/starships/9")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after TTL expiry, got %v", err)
	}
}

func TestRedisStore_Get_StoreError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1", // nothing listens here
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewRedisStore(client, time.Minute)

	_, err := store.Get(context.Background(), "/api/films")
	if err == nil {
		t.Fatal("expected error from unreachable store")
	}
	if errors.Is(err, ErrCacheMiss) {
		t.Error("store failure must not be reported as a cache miss")
	}
}
