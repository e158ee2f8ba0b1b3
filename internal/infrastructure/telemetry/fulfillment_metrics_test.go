package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMeter(t *testing.T) (*telemetry.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zap.NewNop())
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func gaugeFor(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "%s is not an int64 gauge", m.Name)
	want := attribute.NewSet(attrs...)
	for _, dp := range gauge.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	t.Fatalf("no %s data point for %v", m.Name, attrs)
	return 0
}

func TestNewFulfillmentMetrics_RequiresMeter(t *testing.T) {
	_, err := telemetry.NewFulfillmentMetrics(telemetry.FulfillmentMetricsConfig{})
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestFulfillmentMetrics_RecordTransition(t *testing.T) {
	mp, reader := newTestMeter(t)
	fm, err := telemetry.NewFulfillmentMetrics(telemetry.FulfillmentMetricsConfig{Meter: mp.Meter("fulfillment")})
	require.NoError(t, err)
	ctx := context.Background()

	fm.RecordTransition(ctx, "ship", "success", 120*time.Millisecond)
	fm.RecordTransition(ctx, "ship", "success", 80*time.Millisecond)
	fm.RecordTransition(ctx, "ship", "rejected", time.Millisecond)
	fm.RecordDocument(ctx, "SHIP", "pending")

	metrics := collect(t, reader)

	transitions := metrics["erp_fulfillment_transitions_total"]
	assert.Equal(t, int64(2), sumFor(t, transitions,
		telemetry.AttrAction.String("ship"), telemetry.AttrOutcome.String("success")))
	assert.Equal(t, int64(1), sumFor(t, transitions,
		telemetry.AttrAction.String("ship"), telemetry.AttrOutcome.String("rejected")))

	hist, ok := metrics["erp_fulfillment_transition_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)

	assert.Equal(t, int64(1), sumFor(t, metrics["erp_fulfillment_documents_total"],
		telemetry.AttrDocumentType.String("SHIP"), telemetry.AttrOutcome.String("pending")))
}

type fakeStats struct {
	tenants    []uuid.UUID
	tenantsErr error
	pending    map[string]int64
	reserved   map[uuid.UUID]int64
	backlog    map[string]int64
	backlogErr error
}

func (f *fakeStats) ActiveTenantIDs(context.Context) ([]uuid.UUID, error) {
	return f.tenants, f.tenantsErr
}

func (f *fakeStats) PendingDocumentsByType(context.Context, uuid.UUID) (map[string]int64, error) {
	return f.pending, nil
}

func (f *fakeStats) ReservedQuantityByWarehouse(context.Context, uuid.UUID) (map[uuid.UUID]int64, error) {
	return f.reserved, nil
}

func (f *fakeStats) OutboxBacklog(context.Context) (map[string]int64, error) {
	return f.backlog, f.backlogErr
}

func TestFulfillmentMetrics_Collect(t *testing.T) {
	mp, reader := newTestMeter(t)
	tenantID := uuid.New()
	warehouseID := uuid.New()
	stats := &fakeStats{
		tenants:  []uuid.UUID{tenantID},
		pending:  map[string]int64{"DELIVERY": 4},
		reserved: map[uuid.UUID]int64{warehouseID: 30},
		backlog:  map[string]int64{"PENDING": 7, "DEAD": 1},
	}
	fm, err := telemetry.NewFulfillmentMetrics(telemetry.FulfillmentMetricsConfig{
		Meter: mp.Meter("fulfillment"),
		Stats: stats,
	})
	require.NoError(t, err)

	fm.Collect(context.Background())
	metrics := collect(t, reader)

	tenant := telemetry.AttrTenantID.String(tenantID.String())
	assert.Equal(t, int64(4), gaugeFor(t, metrics["erp_fulfillment_pending_documents"],
		tenant, telemetry.AttrDocumentType.String("DELIVERY")))
	assert.Equal(t, int64(30), gaugeFor(t, metrics["erp_inventory_reserved_quantity"],
		tenant, telemetry.AttrWarehouseID.String(warehouseID.String())))
	assert.Equal(t, int64(7), gaugeFor(t, metrics["erp_outbox_backlog"], telemetry.AttrOutboxStatus.String("PENDING")))
	assert.Equal(t, int64(1), gaugeFor(t, metrics["erp_outbox_backlog"], telemetry.AttrOutboxStatus.String("DEAD")))
}

func TestFulfillmentMetrics_CollectSurvivesProviderErrors(t *testing.T) {
	mp, reader := newTestMeter(t)
	stats := &fakeStats{
		tenantsErr: errors.New("db down"),
		backlogErr: errors.New("db down"),
	}
	fm, err := telemetry.NewFulfillmentMetrics(telemetry.FulfillmentMetricsConfig{
		Meter: mp.Meter("fulfillment"),
		Stats: stats,
	})
	require.NoError(t, err)

	fm.Collect(context.Background())

	metrics := collect(t, reader)
	assert.NotContains(t, metrics, "erp_outbox_backlog")
	assert.NotContains(t, metrics, "erp_fulfillment_pending_documents")
}

func TestFulfillmentMetrics_PeriodicCollection(t *testing.T) {
	mp, reader := newTestMeter(t)
	stats := &fakeStats{backlog: map[string]int64{"FAILED": 2}}
	fm, err := telemetry.NewFulfillmentMetrics(telemetry.FulfillmentMetricsConfig{
		Meter: mp.Meter("fulfillment"),
		Stats: stats,
	})
	require.NoError(t, err)

	fm.StartPeriodicCollection(context.Background(), time.Hour)
	defer fm.Stop()

	require.Eventually(t, func() bool {
		_, ok := collect(t, reader)["erp_outbox_backlog"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	fm.Stop()
	fm.Stop()
}
