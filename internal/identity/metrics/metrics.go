package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeBlank      = "blank"
	OutcomeCacheHit   = "cache_hit"
	OutcomeRegistry   = "registry"
	OutcomeFallback   = "fallback_cache"
	OutcomeFailClosed = "fail_closed"
)

// Metrics provides observability for identity lookups.
type Metrics struct {
	// Lookups by outcome
	Lookups *prometheus.CounterVec

	// Registry call latency by endpoint (lookup, health)
	RegistryLatency *prometheus.HistogramVec

	// Registry failures by error category
	RegistryErrors *prometheus.CounterVec

	// 1 while the circuit to the registry is open
	CircuitOpen prometheus.Gauge
}

// New registers the identity metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the identity metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobeval_identity_lookups_total",
			Help: "Identity validity lookups by outcome",
		}, []string{"outcome"}),

		RegistryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobeval_identity_registry_duration_seconds",
			Help:    "Duration of identity registry calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),

		RegistryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobeval_identity_registry_errors_total",
			Help: "Identity registry failures by category",
		}, []string{"category"}),

		CircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "jobeval_identity_registry_circuit_open",
			Help: "1 when the identity registry circuit breaker is open",
		}),
	}
}

// IncrementLookup records a lookup outcome.
func (m *Metrics) IncrementLookup(outcome string) {
	if m != nil {
		m.Lookups.WithLabelValues(outcome).Inc()
	}
}

// ObserveRegistryLatency records the duration of one registry call.
func (m *Metrics) ObserveRegistryLatency(endpoint string, d time.Duration) {
	if m != nil {
		m.RegistryLatency.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

// IncrementRegistryError records a failed registry call.
func (m *Metrics) IncrementRegistryError(category string) {
	if m != nil {
		m.RegistryErrors.WithLabelValues(category).Inc()
	}
}

// SetCircuitOpen mirrors the breaker state.
func (m *Metrics) SetCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitOpen.Set(1)
		return
	}
	m.CircuitOpen.Set(0)
}
