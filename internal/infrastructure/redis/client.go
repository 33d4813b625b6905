package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	config "github.com/acme/cartsvc/configs"
)

// NewRedisClient creates a Redis client and waits until it answers a ping.
// It retries with exponential backoff up to cfg.ConnectAttempts times; the
// cart store can run on its fallback, so callers may choose to continue on error.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, logger *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(Options(cfg))
	if cfg.Tracing {
		client.AddHook(redisotel.NewTracingHook())
	}

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return client, nil
		}
		if i == attempts-1 {
			break
		}
		backoff := time.Duration(1<<uint(i)) * 250 * time.Millisecond
		if backoff > 5*time.Second {
			backoff = 5 * time.Second
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{"attempt": i + 1, "attempts": attempts, "backoff": backoff.String()}).WithError(err).Warn("redis ping failed, retrying")
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return client, fmt.Errorf("failed to connect to Redis: %w", err)
}

// Options maps configuration onto go-redis options.
func Options(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
