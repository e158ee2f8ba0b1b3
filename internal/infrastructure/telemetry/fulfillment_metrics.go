package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics constructor gets no meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// FulfillmentStatsProvider supplies point-in-time values for the gauges
// refreshed by periodic collection.
type FulfillmentStatsProvider interface {
	ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
	PendingDocumentsByType(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)
	ReservedQuantityByWarehouse(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error)
	OutboxBacklog(ctx context.Context) (map[string]int64, error)
}

// FulfillmentMetricsConfig configures NewFulfillmentMetrics
type FulfillmentMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
	Stats  FulfillmentStatsProvider
}

// FulfillmentMetrics records fulfillment transitions and document outcomes
// as OpenTelemetry instruments.
type FulfillmentMetrics struct {
	logger *zap.Logger
	stats  FulfillmentStatsProvider

	transitionsTotal   *Counter
	transitionDuration *Histogram
	documentsTotal     *Counter

	pendingDocuments *Gauge
	reservedQuantity *Gauge
	outboxBacklog    *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewFulfillmentMetrics registers the fulfillment instruments on cfg.Meter.
func NewFulfillmentMetrics(cfg FulfillmentMetricsConfig) (*FulfillmentMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fm := &FulfillmentMetrics{
		logger:   logger,
		stats:    cfg.Stats,
		stopChan: make(chan struct{}),
	}

	var err error
	if fm.transitionsTotal, err = NewCounter(cfg.Meter,
		"erp_fulfillment_transitions_total",
		"Fulfillment transitions by action and outcome",
		"{transitions}"); err != nil {
		return nil, err
	}
	if fm.transitionDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "erp_fulfillment_transition_duration_seconds",
		Description: "Fulfillment transition latency",
		Unit:        "s",
		Boundaries:  TransitionDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if fm.documentsTotal, err = NewCounter(cfg.Meter,
		"erp_fulfillment_documents_total",
		"Document render attempts by type and outcome",
		"{documents}"); err != nil {
		return nil, err
	}
	if fm.pendingDocuments, err = NewGauge(cfg.Meter,
		"erp_fulfillment_pending_documents",
		"Documents waiting to be rendered",
		"{documents}"); err != nil {
		return nil, err
	}
	if fm.reservedQuantity, err = NewGauge(cfg.Meter,
		"erp_inventory_reserved_quantity",
		"Stock reserved by allocations, per warehouse",
		"{units}"); err != nil {
		return nil, err
	}
	if fm.outboxBacklog, err = NewGauge(cfg.Meter,
		"erp_outbox_backlog",
		"Outbox entries not yet delivered, per status",
		"{entries}"); err != nil {
		return nil, err
	}
	return fm, nil
}

// RecordTransition counts a fulfillment transition and records its latency.
func (fm *FulfillmentMetrics) RecordTransition(ctx context.Context, action, outcome string, duration time.Duration) {
	attrs := []attribute.KeyValue{AttrAction.String(action), AttrOutcome.String(outcome)}
	fm.transitionsTotal.Inc(ctx, attrs...)
	fm.transitionDuration.RecordDuration(ctx, duration, attrs...)
}

// RecordDocument counts a document render attempt.
func (fm *FulfillmentMetrics) RecordDocument(ctx context.Context, documentType, outcome string) {
	fm.documentsTotal.Inc(ctx, AttrDocumentType.String(documentType), AttrOutcome.String(outcome))
}

// StartPeriodicCollection refreshes the gauges every interval until ctx
// ends or Stop is called. Only the first call has an effect.
func (fm *FulfillmentMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if fm.stats == nil {
		return
	}
	fm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go fm.runPeriodicCollection(ctx, interval)
	})
}

func (fm *FulfillmentMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fm.Collect(ctx)
	for {
		select {
		case <-fm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			fm.Collect(ctx)
		}
	}
}

// Collect refreshes every gauge once. Provider failures are logged and the
// affected gauge keeps its previous value.
func (fm *FulfillmentMetrics) Collect(ctx context.Context) {
	if fm.stats == nil {
		return
	}

	if backlog, err := fm.stats.OutboxBacklog(ctx); err != nil {
		fm.logger.Warn("Failed to read outbox backlog", zap.Error(err))
	} else {
		for status, count := range backlog {
			fm.outboxBacklog.Record(ctx, count, AttrOutboxStatus.String(status))
		}
	}

	tenantIDs, err := fm.stats.ActiveTenantIDs(ctx)
	if err != nil {
		fm.logger.Error("Failed to list tenants for metrics collection", zap.Error(err))
		return
	}
	for _, tenantID := range tenantIDs {
		fm.collectTenant(ctx, tenantID)
	}
}

func (fm *FulfillmentMetrics) collectTenant(ctx context.Context, tenantID uuid.UUID) {
	tenant := AttrTenantID.String(tenantID.String())

	pending, err := fm.stats.PendingDocumentsByType(ctx, tenantID)
	if err != nil {
		fm.logger.Warn("Failed to count pending documents",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
	} else {
		for docType, count := range pending {
			fm.pendingDocuments.Record(ctx, count, tenant, AttrDocumentType.String(docType))
		}
	}

	reserved, err := fm.stats.ReservedQuantityByWarehouse(ctx, tenantID)
	if err != nil {
		fm.logger.Warn("Failed to read reserved quantity",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return
	}
	for warehouseID, qty := range reserved {
		fm.reservedQuantity.Record(ctx, qty, tenant, AttrWarehouseID.String(warehouseID.String()))
	}
}

// Stop ends periodic collection
func (fm *FulfillmentMetrics) Stop() {
	fm.stopOnce.Do(func() {
		close(fm.stopChan)
	})
}
