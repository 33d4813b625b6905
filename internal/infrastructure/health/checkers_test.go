package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme/cartsvc/internal/infrastructure/circuitbreaker"
	"github.com/acme/cartsvc/internal/infrastructure/health"
)

func TestRedisHealthChecker_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer client.Close()

	hc := health.NewRedisHealthChecker(client)
	assert.Equal(t, "redis", hc.Name())
	assert.Error(t, hc.Check(context.Background()))
}

// pingRecorder answers PING and records whether the context it saw was live.
type pingRecorder struct {
	redis.Cmdable
	ctxErr error
}

func (p *pingRecorder) Ping(ctx context.Context) *redis.StatusCmd {
	p.ctxErr = ctx.Err()
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return redis.NewStatusResult("", errors.New("ping without deadline"))
	}
	return redis.NewStatusResult("PONG", nil)
}

func TestRedisHealthChecker_IgnoresCallerCancellation(t *testing.T) {
	rec := &pingRecorder{}
	hc := health.NewRedisHealthChecker(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, hc.Check(ctx))
	assert.NoError(t, rec.ctxErr)
}

func TestBreakerHealthChecker(t *testing.T) {
	b := circuitbreaker.NewBreaker(1, circuitbreaker.WithName("cart"))
	hc := health.NewBreakerHealthChecker(b)
	assert.Equal(t, "breaker_cart", hc.Name())
	require.NoError(t, hc.Check(context.Background()))

	circuitbreaker.Exec(context.Background(), b, "ping", func(context.Context) (string, error) {
		return "", errors.New("down")
	})
	err := hc.Check(context.Background())
	require.ErrorIs(t, err, health.ErrBreakerTripped)
}
