package event

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsHandler counts relayed events by type. Subscribe it without event
// types to receive everything.
type MetricsHandler struct {
	counter *telemetry.Counter
}

// NewMetricsHandler creates the counter on the given meter
func NewMetricsHandler(meter metric.Meter) (*MetricsHandler, error) {
	counter, err := telemetry.NewCounter(meter,
		"fulfillment_events_relayed_total",
		"Domain events relayed from the outbox",
		"{event}",
	)
	if err != nil {
		return nil, err
	}
	return &MetricsHandler{counter: counter}, nil
}

// Handle increments the counter for the event's type
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.counter.Inc(ctx,
		telemetry.AttrEventType.String(event.EventType()),
		attribute.String("aggregate_type", event.AggregateType()),
	)
	return nil
}

// EventTypes returns nil: every event is counted
func (h *MetricsHandler) EventTypes() []string {
	return nil
}
