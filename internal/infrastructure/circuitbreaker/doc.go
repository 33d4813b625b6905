// Package circuitbreaker guards remote store calls with a one-way latch.
//
// A Breaker counts consecutive failures. Once the count reaches the
// threshold the breaker trips and stays tripped: every later call is
// short-circuited without touching the remote store.
//
// Usage:
//
//	b := circuitbreaker.NewBreaker(3, circuitbreaker.WithLogger(logger))
//	var n int64
//	steps := []circuitbreaker.Step{
//	    circuitbreaker.Do(b, "hincrby", func(ctx context.Context) (int64, error) {
//	        return store.HIncrBy(ctx, key, field, 1)
//	    }, &n),
//	}
//	v, fellBack, err := circuitbreaker.WithFallback(ctx, b, "increment", steps, fallbackFn)
package circuitbreaker
