package ports

import (
	"context"
	"time"
)

// HashStore is the remote store boundary used by the cart store. Every call
// reports failure through its error; a missing key or field is not a failure.
type HashStore interface {
	// HGetAll returns every field of the hash at key; an empty map if the key does not exist.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HSet writes the given fields into the hash at key.
	HSet(ctx context.Context, key string, fields map[string]any) (int64, error)
	// HDel removes fields and returns how many existed.
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
	HExists(ctx context.Context, key, field string) (bool, error)
	// HIncrBy atomically adds delta to an integer field and returns the new value.
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	// Expire sets the key's time to live. It reports false when the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Del removes whole keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)
}
