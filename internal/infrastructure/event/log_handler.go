package event

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/shared"
	"go.uber.org/zap"
)

// LogHandler writes one line per relayed event
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a LogHandler
func NewLogHandler(logger *zap.Logger) *LogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogHandler{logger: logger}
}

// Handle logs the event envelope
func (h *LogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("Domain event relayed",
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("order_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns nil: every event is logged
func (h *LogHandler) EventTypes() []string {
	return nil
}
