package circuitbreaker

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultThreshold is the number of consecutive failures that trips a breaker.
const DefaultThreshold = 3

type State int

const (
	StateNormal  State = iota // remote calls allowed
	StateTripped              // remote calls short-circuited for good
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateTripped:
		return "TRIPPED"
	default:
		return "UNKNOWN"
	}
}

// Breaker counts consecutive remote failures and latches into fallback mode
// once the threshold is reached. There is no way back to StateNormal.
type Breaker struct {
	mutex     sync.Mutex
	failures  int
	tripped   bool
	threshold int
	name      string
	logger    *logrus.Logger
	metrics   *Metrics
}

type Option func(*Breaker)

// WithName labels log lines and metrics of this breaker.
func WithName(name string) Option {
	return func(b *Breaker) { b.name = name }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(b *Breaker) { b.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(b *Breaker) { b.metrics = m }
}

// NewBreaker creates a breaker in StateNormal. A threshold below 1 falls back
// to DefaultThreshold.
func NewBreaker(threshold int, opts ...Option) *Breaker {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	b := &Breaker{threshold: threshold, name: "remote"}
	for _, opt := range opts {
		opt(b)
	}
	if b.metrics != nil {
		b.metrics.tripped.WithLabelValues(b.name).Set(0)
	}
	return b
}

func (b *Breaker) State() State {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.tripped {
		return StateTripped
	}
	return StateNormal
}

func (b *Breaker) Tripped() bool {
	return b.State() == StateTripped
}

func (b *Breaker) Failures() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.failures
}

func (b *Breaker) Threshold() int { return b.threshold }

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) recordSuccess() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.failures = 0
}

// recordFailure reports whether this failure tripped the breaker.
func (b *Breaker) recordFailure(op string, err error) bool {
	b.mutex.Lock()
	b.failures++
	failures := b.failures
	justTripped := false
	if !b.tripped && b.failures >= b.threshold {
		b.tripped = true
		justTripped = true
	}
	b.mutex.Unlock()

	if b.logger != nil {
		b.logger.WithFields(logrus.Fields{"breaker": b.name, "op": op, "failures": failures}).WithError(err).Warn("remote operation failed")
	}
	if b.metrics != nil {
		b.metrics.failures.WithLabelValues(b.name, op).Inc()
	}
	if justTripped {
		if b.logger != nil {
			b.logger.WithFields(logrus.Fields{"breaker": b.name, "threshold": b.threshold}).Error("remote store unavailable; switching to fallback for the rest of the process lifetime")
		}
		if b.metrics != nil {
			b.metrics.trips.WithLabelValues(b.name).Inc()
			b.metrics.tripped.WithLabelValues(b.name).Set(1)
		}
	}
	return justTripped
}
