package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// HashStore implements ports.HashStore on top of a Redis client.
type HashStore struct {
	r redis.Cmdable
	// optional key prefix to namespace entries
	prefix string
}

// NewHashStore creates a Redis-backed hash store.
func NewHashStore(r redis.Cmdable, prefix string) *HashStore {
	return &HashStore{r: r, prefix: prefix}
}

func (s *HashStore) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *HashStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return s.r.HGetAll(ctx, s.namespaced(key)).Result()
}

func (s *HashStore) HSet(ctx context.Context, key string, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	return s.r.HSet(ctx, s.namespaced(key), fields).Result()
}

func (s *HashStore) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	return s.r.HDel(ctx, s.namespaced(key), fields...).Result()
}

func (s *HashStore) HExists(ctx context.Context, key, field string) (bool, error) {
	return s.r.HExists(ctx, s.namespaced(key), field).Result()
}

func (s *HashStore) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	return s.r.HIncrBy(ctx, s.namespaced(key), field, delta).Result()
}

func (s *HashStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.r.Expire(ctx, s.namespaced(key), ttl).Result()
}

func (s *HashStore) Del(ctx context.Context, keys ...string) (int64, error) {
	ns := make([]string, len(keys))
	for i, k := range keys {
		ns[i] = s.namespaced(k)
	}
	return s.r.Del(ctx, ns...).Result()
}
