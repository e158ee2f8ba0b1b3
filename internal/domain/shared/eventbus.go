package shared

import "context"

// EventHandler consumes relayed events after commit. An empty EventTypes
// subscribes to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what the outbox relay hands entries to
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus fans relayed events out to subscribers
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
}

// TxEventHandler runs inside the transaction that raised the event. tx is
// the persistence layer's transactional repository set; handlers assert it
// to the narrower interface they need.
type TxEventHandler interface {
	HandleInTx(ctx context.Context, tx any, event DomainEvent) error
	EventTypes() []string
}
