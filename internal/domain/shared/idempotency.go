package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which events a subscriber already handled.
// The outbox relay delivers at least once, so subscribers that must not
// double count consult it before acting.
type IdempotencyStore interface {
	// MarkProcessed records eventID for ttl. It returns false when the ID
	// was already recorded and has not expired.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	Close() error
}

// IdempotencyConfig controls deduplication of relayed events
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
	// Scope namespaces the stored IDs so subscribers sharing a store
	// deduplicate independently
	Scope string
}

// DefaultIdempotencyConfig keeps processed IDs for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}
