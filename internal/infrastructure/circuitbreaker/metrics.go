package circuitbreaker

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors shared by breakers.
type Metrics struct {
	failures  *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	trips     *prometheus.CounterVec
	tripped   *prometheus.GaugeVec
}

// NewMetrics creates the breaker collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_remote_failures_total",
				Help: "Remote store operations that failed and were absorbed by the breaker",
			},
			[]string{"breaker", "op"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_fallback_delegations_total",
				Help: "Logical cart operations served by the fallback store",
			},
			[]string{"breaker", "op"},
		),
		trips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_breaker_trips_total",
				Help: "Number of times a breaker latched into fallback mode",
			},
			[]string{"breaker"},
		),
		tripped: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cart_breaker_tripped",
				Help: "1 when the breaker routes everything to the fallback store",
			},
			[]string{"breaker"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.failures, m.fallbacks, m.trips, m.tripped)
	}
	return m
}

func (m *Metrics) FailuresCounter() *prometheus.CounterVec  { return m.failures }
func (m *Metrics) FallbacksCounter() *prometheus.CounterVec { return m.fallbacks }
func (m *Metrics) TripsCounter() *prometheus.CounterVec     { return m.trips }
func (m *Metrics) TrippedGauge() *prometheus.GaugeVec       { return m.tripped }
