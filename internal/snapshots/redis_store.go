package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/swish-service/internal/timeutil"
)

const (
	defaultRedisPrefix = "swish:roster"
	latestSuffix       = "latest"
)

// redisKV is the subset of the redis client the store needs.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps roster snapshots in Redis under {prefix}:{date}, expiring
// after the retention window, with {prefix}:latest naming the newest date.
type RedisStore struct {
	client    redisKV
	prefix    string
	retention time.Duration
	now       func() time.Time
}

// NewRedisStore constructs a Redis-backed snapshot store.
func NewRedisStore(client redisKV, retentionDays int) *RedisStore {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &RedisStore{
		client:    client,
		prefix:    defaultRedisPrefix,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// NewRedisStoreFromURL parses a redis:// URL and returns the store plus the client for shutdown.
func NewRedisStoreFromURL(url string, retentionDays int) (*RedisStore, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	return NewRedisStore(client, retentionDays), client, nil
}

func (s *RedisStore) key(suffix string) string {
	return s.prefix + ":" + suffix
}

// LoadRoster reads the snapshot for the given date.
func (s *RedisStore) LoadRoster(ctx context.Context, date string) (RosterSnapshot, error) {
	if s == nil || s.client == nil {
		return RosterSnapshot{}, errors.New("snapshot store not configured")
	}
	if date == "" {
		return RosterSnapshot{}, errors.New("snapshot date required")
	}
	raw, err := s.client.Get(ctx, s.key(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return RosterSnapshot{}, ErrNotFound
		}
		return RosterSnapshot{}, fmt.Errorf("redis get snapshot %s: %w", date, err)
	}
	var snap RosterSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return RosterSnapshot{}, fmt.Errorf("decode snapshot %s: %w", date, err)
	}
	if snap.Date == "" {
		snap.Date = date
	}
	return snap, nil
}

// LatestRoster follows the latest pointer.
func (s *RedisStore) LatestRoster(ctx context.Context) (RosterSnapshot, error) {
	if s == nil || s.client == nil {
		return RosterSnapshot{}, errors.New("snapshot store not configured")
	}
	date, err := s.client.Get(ctx, s.key(latestSuffix)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return RosterSnapshot{}, ErrNotFound
		}
		return RosterSnapshot{}, fmt.Errorf("redis get latest snapshot: %w", err)
	}
	return s.LoadRoster(ctx, date)
}

// WriteRoster stores the snapshot and moves the latest pointer.
func (s *RedisStore) WriteRoster(ctx context.Context, snap RosterSnapshot) error {
	if s == nil || s.client == nil {
		return errors.New("snapshot writer not configured")
	}
	if snap.Date == "" {
		snap.Date = timeutil.DateKey(s.now())
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(snap.Date), data, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set snapshot %s: %w", snap.Date, err)
	}
	if err := s.client.Set(ctx, s.key(latestSuffix), snap.Date, 0).Err(); err != nil {
		return fmt.Errorf("redis set latest snapshot: %w", err)
	}
	return nil
}
