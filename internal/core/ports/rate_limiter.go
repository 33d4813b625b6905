package ports

import (
	"context"
	"time"
)

// RateLimitRepository provides atomic fixed-window counters (e.g. Redis INCR).
type RateLimitRepository interface {
	// IncrementWindow increments the counter for key in the current window
	// and ensures it expires after ttl. Returns the updated count and the window start.
	IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimiterService limits requests per client key. Safe for concurrent use.
type RateLimiterService interface {
	// Allow consumes one request unit for key.
	// remaining: requests still allowed in the current window (>=0)
	// limit: configured max requests per window
	// reset: when the current window ends
	Allow(ctx context.Context, key string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
