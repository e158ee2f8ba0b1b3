package event

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
)

// EventSerializer turns outbox payloads back into typed events. Payloads
// are plain JSON of the event struct, so the stored event ID is preserved.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]func() shared.DomainEvent
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{factories: make(map[string]func() shared.DomainEvent)}
}

// Register binds eventType to a constructor of an empty pointer value
func (s *EventSerializer) Register(eventType string, factory func() shared.DomainEvent) {
	s.mu.Lock()
	s.factories[eventType] = factory
	s.mu.Unlock()
}

func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	factory, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", eventType, err)
	}
	return event, nil
}

// RegisteredTypes lists the known event type names in sorted order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// RegisterFulfillmentEvents registers every event the orchestrator writes
// to the outbox
func RegisterFulfillmentEvents(s *EventSerializer) {
	s.Register(fulfillment.EventTypeOrderAllocationConfirmed, func() shared.DomainEvent { return &fulfillment.OrderAllocationConfirmedEvent{} })
	s.Register(fulfillment.EventTypeOrderPickConfirmed, func() shared.DomainEvent { return &fulfillment.OrderPickConfirmedEvent{} })
	s.Register(fulfillment.EventTypeOrderPacked, func() shared.DomainEvent { return &fulfillment.OrderPackedEvent{} })
	s.Register(fulfillment.EventTypeOrderShipped, func() shared.DomainEvent { return &fulfillment.OrderShippedEvent{} })
	s.Register(fulfillment.EventTypeOrderDelivered, func() shared.DomainEvent { return &fulfillment.OrderDeliveredEvent{} })
	s.Register(fulfillment.EventTypePartialDeliveryRejected, func() shared.DomainEvent { return &fulfillment.PartialDeliveryRejectedEvent{} })
}
