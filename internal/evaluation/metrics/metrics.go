package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the evaluation module.
type Metrics struct {
	// Evaluation outcomes by result (or error code)
	Outcomes *prometheus.CounterVec

	// Overall evaluation latency including identity lookups
	EvaluateLatency prometheus.Histogram

	// Audit emission failures
	AuditFailures prometheus.Counter

	// 1 when the last connectivity check reached the identity registry
	RegistryUp prometheus.Gauge
}

// New registers the evaluation metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the evaluation metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobeval_evaluation_outcomes_total",
			Help: "Application evaluations by result",
		}, []string{"result"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobeval_evaluation_duration_seconds",
			Help:    "Duration of application evaluation including identity validation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "jobeval_evaluation_audit_failures_total",
			Help: "Evaluations whose audit event could not be emitted",
		}),

		RegistryUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "jobeval_identity_registry_up",
			Help: "1 when the identity registry answered the last connectivity check",
		}),
	}
}

// IncrementOutcome records an evaluation outcome.
func (m *Metrics) IncrementOutcome(result string) {
	if m != nil {
		m.Outcomes.WithLabelValues(result).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// IncrementAuditFailure records a failed audit emission.
func (m *Metrics) IncrementAuditFailure() {
	if m != nil {
		m.AuditFailures.Inc()
	}
}

// SetRegistryUp records the result of a connectivity check.
func (m *Metrics) SetRegistryUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.RegistryUp.Set(1)
		return
	}
	m.RegistryUp.Set(0)
}
