package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps snapshots as plain string values, one Redis key per
// snapshot key.  Entries never expire; the snapshot is the primary copy of
// the data, not a cache, so the Redis server must be configured with
// persistence (AOF or RDB) when this backend is selected.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore constructs a RedisStore.  The prefix namespaces all keys
// (e.g. "agroscout:snap:") so one Redis database can be shared.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Load returns the payload stored under key, or ErrSnapshotNotFound.
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return b, nil
}

// Save overwrites the payload under key with no TTL.
func (s *RedisStore) Save(ctx context.Context, key string, payload []byte) error {
	return s.rdb.Set(ctx, s.prefix+key, payload, 0).Err()
}
