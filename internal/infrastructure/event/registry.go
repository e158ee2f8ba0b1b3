package event

import "sync"

// HandlerRegistry maps event types to handlers. Handlers registered without
// event types receive every event.
type HandlerRegistry[H comparable] struct {
	mu       sync.RWMutex
	handlers map[string][]H
	wildcard []H
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry[H comparable]() *HandlerRegistry[H] {
	return &HandlerRegistry[H]{handlers: make(map[string][]H)}
}

// Register adds a handler for the given event types, or for all events when
// none are given
func (r *HandlerRegistry[H]) Register(handler H, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}
	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], handler)
	}
}

// Unregister removes a handler from every event type
func (r *HandlerRegistry[H]) Unregister(handler H) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = removeHandler(r.wildcard, handler)
	for eventType, handlers := range r.handlers {
		r.handlers[eventType] = removeHandler(handlers, handler)
		if len(r.handlers[eventType]) == 0 {
			delete(r.handlers, eventType)
		}
	}
}

// Handlers returns the type-specific handlers followed by the wildcard ones
func (r *HandlerRegistry[H]) Handlers(eventType string) []H {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.handlers[eventType]
	result := make([]H, 0, len(typed)+len(r.wildcard))
	result = append(result, typed...)
	return append(result, r.wildcard...)
}

// HasTyped reports whether any handler is registered for exactly eventType
func (r *HandlerRegistry[H]) HasTyped(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[eventType]) > 0
}

func removeHandler[H comparable](handlers []H, target H) []H {
	result := make([]H, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}
