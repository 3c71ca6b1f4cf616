package snapshots

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStoreWriteAndLatest(t *testing.T) {
	ctx := context.Background()
	kv := newFakeRedis()
	store := NewRedisStore(kv, 3)

	if err := store.WriteRoster(ctx, sampleSnapshot("2024-03-09")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.WriteRoster(ctx, sampleSnapshot("2024-03-10")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if kv.ttls["swish:roster:2024-03-10"] != 72*time.Hour {
		t.Fatalf("expected retention ttl, got %s", kv.ttls["swish:roster:2024-03-10"])
	}
	if kv.ttls["swish:roster:latest"] != 0 {
		t.Fatalf("expected latest pointer without ttl")
	}

	latest, err := store.LatestRoster(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Date != "2024-03-10" || len(latest.Players) != 1 {
		t.Fatalf("unexpected latest snapshot %+v", latest)
	}

	older, err := store.LoadRoster(ctx, "2024-03-09")
	if err != nil || older.Date != "2024-03-09" {
		t.Fatalf("expected older snapshot, got %+v (%v)", older, err)
	}
}

func TestRedisStoreMissingAndErrors(t *testing.T) {
	ctx := context.Background()
	kv := newFakeRedis()
	store := NewRedisStore(kv, 0)

	if _, err := store.LatestRoster(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.LoadRoster(ctx, "2024-01-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	kv.data["swish:roster:2024-01-02"] = "{not json"
	if _, err := store.LoadRoster(ctx, "2024-01-02"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}

	kv.getErr = errors.New("connection refused")
	if _, err := store.LoadRoster(ctx, "2024-01-01"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}

	kv.setErr = errors.New("readonly")
	if err := store.WriteRoster(ctx, sampleSnapshot("2024-01-01")); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestNewRedisStoreFromURLRejectsBadURL(t *testing.T) {
	if _, _, err := NewRedisStoreFromURL("://nope", 7); err == nil {
		t.Fatalf("expected parse error")
	}
	store, client, err := NewRedisStoreFromURL("redis://localhost:6379/0", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()
	if store == nil {
		t.Fatalf("expected store")
	}
}
