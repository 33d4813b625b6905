package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"

	"github.com/acme/cartsvc/internal/core/ports"
	"github.com/acme/cartsvc/internal/infrastructure/circuitbreaker"
)

// ErrBreakerTripped reports a store that now serves everything from its fallback.
var ErrBreakerTripped = errors.New("circuit breaker tripped")

// pingTimeout bounds a shared PING; it does not follow any single caller's context.
const pingTimeout = 2 * time.Second

// redisHealthChecker wraps the redis client for health checks. Concurrent
// probes share one PING.
type redisHealthChecker struct {
	client redis.Cmdable
	group  singleflight.Group
}

func (r *redisHealthChecker) Name() string { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error {
	_, err, _ := r.group.Do("ping", func() (interface{}, error) {
		pingCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pingTimeout)
		defer cancel()
		return nil, r.client.Ping(pingCtx).Err()
	})
	return err
}

// breakerHealthChecker fails once the breaker has latched.
type breakerHealthChecker struct{ b *circuitbreaker.Breaker }

func (c *breakerHealthChecker) Name() string { return "breaker_" + c.b.Name() }
func (c *breakerHealthChecker) Check(ctx context.Context) error {
	if c.b.Tripped() {
		return fmt.Errorf("%w after %d consecutive failures", ErrBreakerTripped, c.b.Threshold())
	}
	return nil
}

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// NewBreakerHealthChecker reports the breaker state of a cart store.
func NewBreakerHealthChecker(b *circuitbreaker.Breaker) ports.HealthChecker {
	return &breakerHealthChecker{b: b}
}
