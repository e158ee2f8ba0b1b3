package event

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/shared"
	"go.uber.org/zap"
)

// TxDispatcher runs handlers inside the transaction that raised the events.
// The first handler error aborts dispatch so the caller rolls back.
type TxDispatcher struct {
	registry *HandlerRegistry[shared.TxEventHandler]
	logger   *zap.Logger
}

// NewTxDispatcher creates a dispatcher with no handlers
func NewTxDispatcher(logger *zap.Logger) *TxDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxDispatcher{
		registry: NewHandlerRegistry[shared.TxEventHandler](),
		logger:   logger,
	}
}

// Register adds a handler for the event types it declares
func (d *TxDispatcher) Register(handler shared.TxEventHandler) {
	d.registry.Register(handler, handler.EventTypes()...)
}

// Dispatch delivers each event to its handlers in registration order. An event
// that requires a handler and has none is an error.
func (d *TxDispatcher) Dispatch(ctx context.Context, tx any, events ...shared.DomainEvent) error {
	for _, event := range events {
		handlers := d.registry.Handlers(event.EventType())
		if required, ok := event.(shared.HandlerRequired); ok && required.RequiresHandler() && !d.registry.HasTyped(event.EventType()) {
			return fmt.Errorf("no handler registered for %s", event.EventType())
		}
		for _, handler := range handlers {
			if err := handler.HandleInTx(ctx, tx, event); err != nil {
				d.logger.Warn("in-transaction handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
				return fmt.Errorf("handle %s: %w", event.EventType(), err)
			}
		}
	}
	return nil
}
