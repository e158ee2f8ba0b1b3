package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus tracks an entry through the relay
type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "PENDING"
	OutboxStatusSent    OutboxStatus = "SENT"
	OutboxStatusFailed  OutboxStatus = "FAILED"
	OutboxStatusDead    OutboxStatus = "DEAD"
)

const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
	maxBackoff         = 10 * time.Minute
)

// OutboxEntry is an event written in the same transaction as the order
// transition that raised it. The relay publishes it after commit.
type OutboxEntry struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	LastError     string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOutboxEntry wraps an already serialized event
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		TenantID:      event.TenantID(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (e *OutboxEntry) MarkSent() {
	now := time.Now()
	e.Status, e.ProcessedAt, e.UpdatedAt = OutboxStatusSent, &now, now
}

// MarkFailed schedules the next attempt with doubling backoff starting at
// DefaultBaseBackoff. The entry goes dead once RetryCount reaches MaxRetries.
func (e *OutboxEntry) MarkFailed(reason string) {
	e.RetryCount++
	e.LastError = reason
	e.UpdatedAt = time.Now()

	if e.RetryCount >= e.MaxRetries {
		e.Status, e.NextRetryAt = OutboxStatusDead, nil
		return
	}
	wait := min(DefaultBaseBackoff<<(e.RetryCount-1), maxBackoff)
	next := e.UpdatedAt.Add(wait)
	e.Status, e.NextRetryAt = OutboxStatusFailed, &next
}

func (e *OutboxEntry) IsDead() bool { return e.Status == OutboxStatusDead }

// ResetForRetry gives a dead entry a fresh retry budget
func (e *OutboxEntry) ResetForRetry() error {
	if !e.IsDead() {
		return NewDomainError("INVALID_STATUS", "only dead entries can be retried")
	}
	e.Status, e.RetryCount, e.NextRetryAt = OutboxStatusPending, 0, nil
	e.UpdatedAt = time.Now()
	return nil
}

// OutboxRepository is what the relay reads and writes
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// FindDispatchable returns pending entries plus failed ones due before
	// now, oldest first
	FindDispatchable(ctx context.Context, now time.Time, limit int) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
}
