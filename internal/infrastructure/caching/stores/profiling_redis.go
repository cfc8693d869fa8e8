package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces profiling snapshots in Redis.
const KeyPrefix = "profiling:"

// RedisProfilingStore keeps snapshots in Redis with the session TTL, refreshed on every write.
type RedisProfilingStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisProfilingStore(client redis.UniversalClient, ttl time.Duration) *RedisProfilingStore {
	return &RedisProfilingStore{client: client, ttl: ttl}
}

// Key returns the Redis key for sessionID.
func Key(sessionID string) string {
	return KeyPrefix + sessionID
}

func (s *RedisProfilingStore) Save(ctx context.Context, sessionID string, data []byte) error {
	if err := s.client.Set(ctx, Key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", Key(sessionID), err)
	}
	return nil
}

// Load returns nil data for an unknown or expired session.
func (s *RedisProfilingStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := s.client.Get(ctx, Key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", Key(sessionID), err)
	}
	return data, nil
}

// Ping checks connectivity at startup.
func (s *RedisProfilingStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
