package app

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hylla/tablero/internal/domain"
)

const metricsNamespace = "tablero"

// Metrics records operation counts and latencies.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics builds the operation collectors and registers them with reg when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "operations_total",
				Help:      "Count of record operations by component, kind, operation and outcome.",
			},
			[]string{"component", "kind", "op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "operation_duration_seconds",
				Help:      "Latency of record operations including data source exchange.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"component", "kind", "op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.duration)
	}
	return m
}

// observe is safe on a nil receiver.
func (m *Metrics) observe(component string, kind domain.Kind, op Op, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(component, string(kind), string(op), outcomeOf(err)).Inc()
	m.duration.WithLabelValues(component, string(kind), string(op)).Observe(elapsed.Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrBusy):
		return "rejected"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	default:
		return "error"
	}
}
