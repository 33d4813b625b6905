package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/acme/cartsvc/configs"
	"github.com/acme/cartsvc/internal/core/ports"
	infraredis "github.com/acme/cartsvc/internal/infrastructure/redis"
)

var _ ports.HashStore = (*infraredis.HashStore)(nil)

// unreachableClient points at a port nothing listens on so every command fails fast.
func unreachableClient() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
}

func TestHashStore_ErrorsSurfaceAsResults(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	s := infraredis.NewHashStore(client, "cart")
	ctx := context.Background()

	_, err := s.HGetAll(ctx, "c1")
	require.Error(t, err)
	_, err = s.HSet(ctx, "c1", map[string]any{"a": 1})
	require.Error(t, err)
	_, err = s.HDel(ctx, "c1", "a")
	require.Error(t, err)
	_, err = s.HExists(ctx, "c1", "a")
	require.Error(t, err)
	_, err = s.HIncrBy(ctx, "c1", "a", 1)
	require.Error(t, err)
	_, err = s.Expire(ctx, "c1", time.Minute)
	require.Error(t, err)
	_, err = s.Del(ctx, "c1", "c1:sku")
	require.Error(t, err)
}

func TestHashStore_EmptyHSetIsNoop(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	s := infraredis.NewHashStore(client, "")
	n, err := s.HSet(context.Background(), "c1", map[string]any{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOptions_MapsConfig(t *testing.T) {
	cfg := &config.RedisConfig{
		Host:         "redis",
		Port:         "6380",
		Password:     "pw",
		DB:           2,
		PoolSize:     7,
		MinIdleConns: 1,
		MaxRetries:   2,
		DialTimeout:  time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
		IdleTimeout:  5 * time.Minute,
	}
	o := infraredis.Options(cfg)
	assert.Equal(t, "redis:6380", o.Addr)
	assert.Equal(t, "pw", o.Password)
	assert.Equal(t, 2, o.DB)
	assert.Equal(t, 7, o.PoolSize)
	assert.Equal(t, 2, o.MaxRetries)
	assert.Equal(t, 3*time.Second, o.WriteTimeout)
}

func TestNewRedisClient_ReturnsClientAndErrorWhenUnreachable(t *testing.T) {
	cfg := &config.RedisConfig{Host: "127.0.0.1", Port: "1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond, ConnectAttempts: 1}
	client, err := infraredis.NewRedisClient(context.Background(), cfg, nil)
	require.Error(t, err)
	require.NotNil(t, client)
	_ = client.Close()
}
