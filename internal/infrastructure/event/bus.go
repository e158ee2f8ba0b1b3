package event

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus hands relayed outbox events to subscribers in-process.
// A failing or panicking subscriber is logged and skipped; the relay has
// already committed to delivering the entry.
type InMemoryEventBus struct {
	subscribers *HandlerRegistry[shared.EventHandler]
	logger      *zap.Logger
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		subscribers: NewHandlerRegistry[shared.EventHandler](),
		logger:      logger,
	}
}

// Publish never returns an error; per-subscriber failures are only logged
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		for _, sub := range b.subscribers.Handlers(ev.EventType()) {
			if err := deliver(ctx, sub, ev); err != nil {
				b.logger.Error("subscriber rejected relayed event",
					zap.String("event_type", ev.EventType()),
					zap.String("event_id", ev.EventID().String()),
					zap.String("order_id", ev.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe falls back to the handler's own EventTypes
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.subscribers.Register(handler, eventTypes...)
	b.logger.Debug("subscriber registered", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.subscribers.Unregister(handler)
}

func deliver(ctx context.Context, sub shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panicked: %v", r)
		}
	}()
	return sub.Handle(ctx, ev)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
