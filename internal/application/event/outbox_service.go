package event

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultDeadPageSize = 20
	maxDeadPageSize     = 100
)

var errEntryNotFound = shared.NewDomainError("ENTRY_NOT_FOUND", "Outbox entry not found")

// DeadLetterStore is the slice of the outbox repository the admin
// endpoints use
type DeadLetterStore interface {
	FindDead(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]*shared.OutboxEntry, int64, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*shared.OutboxEntry, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[shared.OutboxStatus]int64, error)
	Update(ctx context.Context, entry *shared.OutboxEntry) error
}

// OutboxService lets operators inspect fulfillment events the relay gave
// up on and put them back in the queue
type OutboxService struct {
	store  DeadLetterStore
	logger *zap.Logger
}

func NewOutboxService(store DeadLetterStore, logger *zap.Logger) *OutboxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxService{store: store, logger: logger}
}

// OutboxEntryDTO is one relayed event as operators see it. Payload is only
// filled for single-entry reads.
type OutboxEntryDTO struct {
	ID          uuid.UUID       `json:"id" swaggertype:"string" format:"uuid"`
	EventID     uuid.UUID       `json:"event_id" swaggertype:"string" format:"uuid"`
	EventType   string          `json:"event_type"`
	OrderID     uuid.UUID       `json:"order_id" swaggertype:"string" format:"uuid"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	LastError   string          `json:"last_error,omitempty"`
	NextRetryAt *time.Time      `json:"next_retry_at,omitempty"`
	RelayedAt   *time.Time      `json:"relayed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Payload     json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
}

// OutboxFilter is bound from the dead-letter list query string
type OutboxFilter struct {
	Page     int `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

type OutboxListResult struct {
	Entries    []OutboxEntryDTO `json:"entries"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type OutboxStatsDTO struct {
	Pending int64 `json:"pending"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Dead    int64 `json:"dead"`
	Total   int64 `json:"total"`
}

// ListDead pages through the tenant's dead entries, oldest first
func (s *OutboxService) ListDead(ctx context.Context, tenantID uuid.UUID, filter OutboxFilter) (*OutboxListResult, error) {
	page, size := max(filter.Page, 1), filter.PageSize
	switch {
	case size < 1:
		size = defaultDeadPageSize
	case size > maxDeadPageSize:
		size = maxDeadPageSize
	}

	entries, total, err := s.store.FindDead(ctx, tenantID, page, size)
	if err != nil {
		s.logger.Error("list dead outbox entries", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to retrieve dead letter entries")
	}

	result := &OutboxListResult{
		Entries:    make([]OutboxEntryDTO, 0, len(entries)),
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
	for _, e := range entries {
		result.Entries = append(result.Entries, entryView(e, false))
	}
	return result, nil
}

// Get returns one entry with its stored payload
func (s *OutboxService) Get(ctx context.Context, tenantID, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	view := entryView(entry, true)
	return &view, nil
}

// Requeue resets a dead entry so the next relay run picks it up
func (s *OutboxService) Requeue(ctx context.Context, tenantID, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, entry); err != nil {
		s.logger.Error("requeue outbox entry", zap.String("entry_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to retry entry")
	}

	s.logger.Info("dead outbox entry requeued",
		zap.String("entry_id", id.String()),
		zap.String("event_type", entry.EventType),
		zap.String("order_id", entry.AggregateID.String()),
	)
	view := entryView(entry, false)
	return &view, nil
}

// RequeueAll requeues every dead entry of the tenant. Requeued entries
// leave the dead set, so the first page is read until it drains or stops
// shrinking.
func (s *OutboxService) RequeueAll(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var requeued int64
	for {
		batch, _, err := s.store.FindDead(ctx, tenantID, 1, maxDeadPageSize)
		if err != nil {
			s.logger.Error("list dead outbox entries", zap.Error(err))
			return requeued, shared.NewDomainError("INTERNAL_ERROR", "Failed to retrieve dead letter entries")
		}

		progress := 0
		for _, entry := range batch {
			if entry.ResetForRetry() != nil {
				continue
			}
			if err := s.store.Update(ctx, entry); err != nil {
				s.logger.Error("requeue outbox entry", zap.String("entry_id", entry.ID.String()), zap.Error(err))
				continue
			}
			progress++
		}
		requeued += int64(progress)

		if progress == 0 || len(batch) < maxDeadPageSize {
			break
		}
	}

	s.logger.Info("dead outbox entries requeued", zap.Int64("count", requeued))
	return requeued, nil
}

// Stats counts the tenant's entries per status
func (s *OutboxService) Stats(ctx context.Context, tenantID uuid.UUID) (*OutboxStatsDTO, error) {
	counts, err := s.store.CountByStatus(ctx, tenantID)
	if err != nil {
		s.logger.Error("count outbox entries", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to get outbox stats")
	}

	stats := &OutboxStatsDTO{
		Pending: counts[shared.OutboxStatusPending],
		Sent:    counts[shared.OutboxStatusSent],
		Failed:  counts[shared.OutboxStatusFailed],
		Dead:    counts[shared.OutboxStatusDead],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *OutboxService) load(ctx context.Context, tenantID, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := s.store.FindByID(ctx, tenantID, id)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return nil, errEntryNotFound
	case err != nil:
		s.logger.Error("load outbox entry", zap.String("entry_id", id.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to retrieve outbox entry")
	}
	return entry, nil
}

func entryView(e *shared.OutboxEntry, withPayload bool) OutboxEntryDTO {
	view := OutboxEntryDTO{
		ID:          e.ID,
		EventID:     e.EventID,
		EventType:   e.EventType,
		OrderID:     e.AggregateID,
		Status:      string(e.Status),
		Attempts:    e.RetryCount,
		MaxAttempts: e.MaxRetries,
		LastError:   e.LastError,
		NextRetryAt: e.NextRetryAt,
		RelayedAt:   e.ProcessedAt,
		CreatedAt:   e.CreatedAt,
	}
	if withPayload && json.Valid(e.Payload) {
		view.Payload = json.RawMessage(e.Payload)
	}
	return view
}
