package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/schema"
)

func TestObserveCountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	m.Observe(ctx, models.KindPregnant, schema.OpCreate, "ok")
	m.Observe(ctx, models.KindPregnant, schema.OpCreate, "ok")
	m.Observe(ctx, models.KindPregnant, schema.OpCreate, "validation")
	m.Observe(ctx, models.KindHousehold, schema.OpDelete, "not-found")

	ops := m.RecordOperations
	assert.Equal(t, 2.0, testutil.ToFloat64(ops.WithLabelValues("pregnant", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("pregnant", "create", "validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("households", "delete", "not-found")))
	assert.Equal(t, 3, testutil.CollectAndCount(ops))
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
