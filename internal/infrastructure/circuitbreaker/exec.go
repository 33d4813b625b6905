package circuitbreaker

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/acme/cartsvc/internal/utils"
)

// Exec runs fn through the breaker. A tripped breaker returns None without
// calling fn. An error from fn is counted and absorbed into None; a
// successful call resets the failure count and returns Some, even when the
// value itself is empty.
func Exec[T any](ctx context.Context, b *Breaker, op string, fn func(context.Context) (T, error)) utils.Option[T] {
	if b.Tripped() {
		return utils.None[T]()
	}
	v, err := fn(ctx)
	if err != nil {
		b.recordFailure(op, err)
		return utils.None[T]()
	}
	b.recordSuccess()
	return utils.Some(v)
}

// Step is one breaker-wrapped remote sub-operation. It reports whether it
// produced a value.
type Step func(ctx context.Context) bool

// Do builds a Step that stores a successful result in dst.
func Do[T any](b *Breaker, op string, fn func(context.Context) (T, error), dst *T) Step {
	return func(ctx context.Context) bool {
		v, ok := Exec(ctx, b, op, fn).Get()
		if ok && dst != nil {
			*dst = v
		}
		return ok
	}
}

// Run builds a Step whose result is not needed.
func Run[T any](b *Breaker, op string, fn func(context.Context) (T, error)) Step {
	return Do[T](b, op, fn, nil)
}

// WithFallback runs steps in order. If any step yields no value the remote
// path is abandoned and fallback's result is returned with fellBack set.
// Later steps are not run, so a failed operation stops writing remotely.
// When every step succeeds it returns the zero value and fellBack false; the
// caller then keeps its remote-derived result.
func WithFallback[T any](ctx context.Context, b *Breaker, op string, steps []Step, fallback func(context.Context) (T, error)) (T, bool, error) {
	for _, step := range steps {
		if step(ctx) {
			continue
		}
		if b.metrics != nil {
			b.metrics.fallbacks.WithLabelValues(b.name, op).Inc()
		}
		if b.logger != nil {
			b.logger.WithFields(logrus.Fields{"breaker": b.name, "op": op}).Debug("delegating to fallback store")
		}
		v, err := fallback(ctx)
		return v, true, err
	}
	var zero T
	return zero, false, nil
}
