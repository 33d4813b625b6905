package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cb "github.com/acme/cartsvc/internal/infrastructure/circuitbreaker"
	"github.com/acme/cartsvc/internal/infrastructure/repositories"
)

func TestRateLimitRedisRepository_BreakerStopsDialling(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	b := cb.NewBreaker(2, cb.WithName("ratelimit"))
	repo := repositories.NewRateLimitRedisRepository(client, b)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := repo.IncrementWindow(ctx, "10.0.0.1", time.Minute, "rl", 2*time.Minute)
		require.ErrorIs(t, err, repositories.ErrRateLimitUnavailable)
	}
	require.True(t, b.Tripped())

	start := time.Now()
	_, windowStart, err := repo.IncrementWindow(ctx, "10.0.0.1", time.Minute, "rl", 2*time.Minute)
	require.ErrorIs(t, err, repositories.ErrRateLimitUnavailable)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, windowStart, windowStart.Truncate(time.Minute))
}

func TestRateLimitRedisRepository_WithoutBreakerSurfacesRedisError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	repo := repositories.NewRateLimitRedisRepository(client, nil)
	_, _, err := repo.IncrementWindow(context.Background(), "k", time.Minute, "rl", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrRateLimitUnavailable)
}
