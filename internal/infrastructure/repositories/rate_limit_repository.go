package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	cb "github.com/acme/cartsvc/internal/infrastructure/circuitbreaker"
)

// ErrRateLimitUnavailable is returned when the counter could not be updated.
var ErrRateLimitUnavailable = errors.New("rate limit counters unavailable")

type windowCount struct {
	count int
}

// RateLimitRedisRepository keeps fixed-window request counters in Redis.
// With a breaker set, a dead Redis stops being dialled after the breaker
// trips and every call reports ErrRateLimitUnavailable.
type RateLimitRedisRepository struct {
	r       redis.Cmdable
	breaker *cb.Breaker
}

func NewRateLimitRedisRepository(r redis.Cmdable, breaker *cb.Breaker) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r, breaker: breaker}
}

// IncrementWindow increments the counter of key for the window containing now.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Truncate(window)
	k := fmt.Sprintf("%s:%s:%d", keyPrefix, key, windowStart.Unix())
	incr := func(ctx context.Context) (windowCount, error) {
		pipe := repo.r.TxPipeline()
		n := pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return windowCount{}, err
		}
		return windowCount{count: int(n.Val())}, nil
	}
	if repo.breaker == nil {
		wc, err := incr(ctx)
		return wc.count, windowStart, err
	}
	wc, ok := cb.Exec(ctx, repo.breaker, "incr_window", incr).Get()
	if !ok {
		return 0, windowStart, ErrRateLimitUnavailable
	}
	return wc.count, windowStart, nil
}
