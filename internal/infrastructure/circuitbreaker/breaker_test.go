package circuitbreaker_test

import (
	"context"
	"errors"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"github.com/acme/cartsvc/internal/infrastructure/circuitbreaker"
)

var errBoom = errors.New("boom")

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var _ = Describe("Breaker", func() {
	var (
		ctx context.Context
		cb  *circuitbreaker.Breaker
		m   *circuitbreaker.Metrics
		reg *prometheus.Registry
	)

	failing := func(calls *int) func(context.Context) (int64, error) {
		return func(context.Context) (int64, error) {
			*calls++
			return 0, errBoom
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		reg = prometheus.NewRegistry()
		m = circuitbreaker.NewMetrics(reg)
		cb = circuitbreaker.NewBreaker(3, circuitbreaker.WithName("test"), circuitbreaker.WithLogger(quietLogger()), circuitbreaker.WithMetrics(m))
	})

	Describe("NewBreaker", func() {
		It("should start in normal state", func() {
			Expect(cb.State()).To(Equal(circuitbreaker.StateNormal))
			Expect(cb.Failures()).To(Equal(0))
			Expect(cb.Threshold()).To(Equal(3))
		})

		It("should use the default threshold for non-positive values", func() {
			Expect(circuitbreaker.NewBreaker(0).Threshold()).To(Equal(circuitbreaker.DefaultThreshold))
		})
	})

	Describe("Exec", func() {
		It("should return the value on success, including empty values", func() {
			v, ok := circuitbreaker.Exec(ctx, cb, "hget", func(context.Context) (int64, error) { return 0, nil }).Get()
			Expect(ok).To(BeTrue())
			Expect(v).To(BeZero())
		})

		It("should absorb errors as absent and count them", func() {
			calls := 0
			_, ok := circuitbreaker.Exec(ctx, cb, "hget", failing(&calls)).Get()
			Expect(ok).To(BeFalse())
			Expect(cb.Failures()).To(Equal(1))
			Expect(cb.Tripped()).To(BeFalse())
		})

		It("should reset the failure count on success", func() {
			calls := 0
			circuitbreaker.Exec(ctx, cb, "hget", failing(&calls))
			circuitbreaker.Exec(ctx, cb, "hget", failing(&calls))
			circuitbreaker.Exec(ctx, cb, "hget", func(context.Context) (int64, error) { return 1, nil })
			Expect(cb.Failures()).To(Equal(0))
			circuitbreaker.Exec(ctx, cb, "hget", failing(&calls))
			Expect(cb.Tripped()).To(BeFalse())
		})

		It("should trip after threshold consecutive failures and never call again", func() {
			calls := 0
			for i := 0; i < 3; i++ {
				circuitbreaker.Exec(ctx, cb, "hget", failing(&calls))
			}
			Expect(cb.State()).To(Equal(circuitbreaker.StateTripped))
			Expect(calls).To(Equal(3))

			invoked := false
			_, ok := circuitbreaker.Exec(ctx, cb, "hget", func(context.Context) (int64, error) {
				invoked = true
				return 1, nil
			}).Get()
			Expect(ok).To(BeFalse())
			Expect(invoked).To(BeFalse())
			Expect(cb.Tripped()).To(BeTrue(), "a success can never un-trip the latch")
		})

		It("should record failures and one trip in metrics", func() {
			calls := 0
			for i := 0; i < 5; i++ {
				circuitbreaker.Exec(ctx, cb, "hdel", failing(&calls))
			}
			Expect(calls).To(Equal(3))
			Expect(testutil.ToFloat64(m.FailuresCounter().WithLabelValues("test", "hdel"))).To(Equal(3.0))
			Expect(testutil.ToFloat64(m.TripsCounter().WithLabelValues("test"))).To(Equal(1.0))
			Expect(testutil.ToFloat64(m.TrippedGauge().WithLabelValues("test"))).To(Equal(1.0))
		})
	})

	Describe("WithFallback", func() {
		It("should return absent when every step succeeded", func() {
			var n int64
			steps := []circuitbreaker.Step{
				circuitbreaker.Do(cb, "incr", func(context.Context) (int64, error) { return 4, nil }, &n),
				circuitbreaker.Run(cb, "expire", func(context.Context) (bool, error) { return true, nil }),
			}
			fallbackCalled := false
			v, fellBack, err := circuitbreaker.WithFallback(ctx, cb, "increment", steps, func(context.Context) (string, error) {
				fallbackCalled = true
				return "fallback", nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(fellBack).To(BeFalse())
			Expect(v).To(BeEmpty())
			Expect(fallbackCalled).To(BeFalse())
			Expect(n).To(Equal(int64(4)))
		})

		It("should treat partial success as total failure", func() {
			calls := 0
			later := false
			steps := []circuitbreaker.Step{
				circuitbreaker.Run(cb, "del", func(context.Context) (int64, error) { return 1, nil }),
				circuitbreaker.Run(cb, "hset", failing(&calls)),
				circuitbreaker.Run(cb, "expire", func(context.Context) (bool, error) { later = true; return true, nil }),
			}
			v, fellBack, err := circuitbreaker.WithFallback(ctx, cb, "set", steps, func(context.Context) (string, error) {
				return "fallback", nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(fellBack).To(BeTrue())
			Expect(v).To(Equal("fallback"))
			Expect(later).To(BeFalse())
			Expect(testutil.ToFloat64(m.FallbacksCounter().WithLabelValues("test", "set"))).To(Equal(1.0))
		})

		It("should propagate the fallback error", func() {
			steps := []circuitbreaker.Step{circuitbreaker.Run(cb, "del", func(context.Context) (int64, error) { return 0, errBoom })}
			_, fellBack, err := circuitbreaker.WithFallback(ctx, cb, "delete", steps, func(context.Context) (struct{}, error) {
				return struct{}{}, io.ErrUnexpectedEOF
			})
			Expect(fellBack).To(BeTrue())
			Expect(err).To(MatchError(io.ErrUnexpectedEOF))
		})
	})

	Describe("State", func() {
		It("should render readable names", func() {
			Expect(circuitbreaker.StateNormal.String()).To(Equal("NORMAL"))
			Expect(circuitbreaker.StateTripped.String()).To(Equal("TRIPPED"))
			Expect(circuitbreaker.State(9).String()).To(Equal("UNKNOWN"))
		})
	})
})
