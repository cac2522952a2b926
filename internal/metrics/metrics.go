package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/schema"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	RecordOperations *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RecordOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "barangay_records_operations_total",
			Help: "Record pipeline operations by kind, operation and outcome",
		}, []string{"kind", "op", "outcome"}),
	}
}

// Observe counts one pipeline operation.
func (m *Metrics) Observe(_ context.Context, kind models.Kind, op schema.Op, outcome string) {
	m.RecordOperations.WithLabelValues(string(kind), string(op), outcome).Inc()
}
