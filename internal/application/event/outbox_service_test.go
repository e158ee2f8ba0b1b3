package event

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryDeadLetterStore struct {
	entries   map[uuid.UUID]*shared.OutboxEntry
	updateErr error
}

func newMemoryDeadLetterStore(entries ...*shared.OutboxEntry) *memoryDeadLetterStore {
	s := &memoryDeadLetterStore{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return s
}

func (s *memoryDeadLetterStore) FindDead(_ context.Context, tenantID uuid.UUID, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var result []*shared.OutboxEntry
	for _, e := range s.entries {
		if e.TenantID == tenantID && e.Status == shared.OutboxStatusDead {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	total := int64(len(result))

	start := (page - 1) * pageSize
	if start >= len(result) {
		return nil, total, nil
	}
	end := min(start+pageSize, len(result))
	return result[start:end], total, nil
}

func (s *memoryDeadLetterStore) FindByID(_ context.Context, tenantID, id uuid.UUID) (*shared.OutboxEntry, error) {
	if e, ok := s.entries[id]; ok && e.TenantID == tenantID {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (s *memoryDeadLetterStore) CountByStatus(_ context.Context, tenantID uuid.UUID) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range s.entries {
		if e.TenantID == tenantID {
			counts[e.Status]++
		}
	}
	return counts, nil
}

func (s *memoryDeadLetterStore) Update(_ context.Context, entry *shared.OutboxEntry) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.entries[entry.ID] = entry
	return nil
}

func outboxEntry(tenantID uuid.UUID, status shared.OutboxStatus, age time.Duration) *shared.OutboxEntry {
	now := time.Now()
	return &shared.OutboxEntry{
		ID:            uuid.New(),
		TenantID:      tenantID,
		EventID:       uuid.New(),
		EventType:     "OrderShipped",
		AggregateID:   uuid.New(),
		AggregateType: "SalesOrder",
		Status:        status,
		RetryCount:    shared.DefaultMaxRetries,
		MaxRetries:    shared.DefaultMaxRetries,
		LastError:     "handler failed",
		Payload:       []byte(`{"order_number":"SO-1"}`),
		CreatedAt:     now.Add(-age),
		UpdatedAt:     now.Add(-age),
	}
}

func TestOutboxService_ListDead(t *testing.T) {
	tenantID := uuid.New()
	var entries []*shared.OutboxEntry
	for i := range 5 {
		entries = append(entries, outboxEntry(tenantID, shared.OutboxStatusDead, time.Duration(i)*time.Minute))
	}
	entries = append(entries,
		outboxEntry(tenantID, shared.OutboxStatusPending, 0),
		outboxEntry(uuid.New(), shared.OutboxStatusDead, 0),
	)
	svc := NewOutboxService(newMemoryDeadLetterStore(entries...), nil)

	tests := []struct {
		name         string
		filter       OutboxFilter
		wantLen      int
		wantPage     int
		wantPageSize int
		wantPages    int
	}{
		{"defaults", OutboxFilter{}, 5, 1, 20, 1},
		{"second page", OutboxFilter{Page: 2, PageSize: 2}, 2, 2, 2, 3},
		{"last partial page", OutboxFilter{Page: 3, PageSize: 2}, 1, 3, 2, 3},
		{"page size capped", OutboxFilter{PageSize: 500}, 5, 1, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ListDead(context.Background(), tenantID, tt.filter)
			require.NoError(t, err)
			assert.Len(t, result.Entries, tt.wantLen)
			assert.Equal(t, int64(5), result.Total)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Equal(t, tt.wantPageSize, result.PageSize)
			assert.Equal(t, tt.wantPages, result.TotalPages)
		})
	}
}

func TestOutboxService_Get(t *testing.T) {
	tenantID := uuid.New()
	entry := outboxEntry(tenantID, shared.OutboxStatusDead, 0)
	svc := NewOutboxService(newMemoryDeadLetterStore(entry), nil)

	got, err := svc.Get(context.Background(), tenantID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "DEAD", got.Status)
	assert.Equal(t, "handler failed", got.LastError)
	assert.Equal(t, entry.AggregateID, got.OrderID)
	assert.JSONEq(t, `{"order_number":"SO-1"}`, string(got.Payload))

	_, err = svc.Get(context.Background(), uuid.New(), entry.ID)
	assert.Equal(t, "ENTRY_NOT_FOUND", shared.CodeOf(err))
}

func TestOutboxService_Requeue(t *testing.T) {
	tenantID := uuid.New()

	t.Run("requeues a dead entry", func(t *testing.T) {
		entry := outboxEntry(tenantID, shared.OutboxStatusDead, 0)
		store := newMemoryDeadLetterStore(entry)
		svc := NewOutboxService(store, nil)

		got, err := svc.Requeue(context.Background(), tenantID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "PENDING", got.Status)
		assert.Zero(t, got.Attempts)
		assert.Nil(t, got.Payload)
		assert.Equal(t, shared.OutboxStatusPending, store.entries[entry.ID].Status)
	})

	t.Run("unknown entry", func(t *testing.T) {
		svc := NewOutboxService(newMemoryDeadLetterStore(), nil)
		_, err := svc.Requeue(context.Background(), tenantID, uuid.New())
		assert.Equal(t, "ENTRY_NOT_FOUND", shared.CodeOf(err))
	})

	t.Run("entry is not dead", func(t *testing.T) {
		entry := outboxEntry(tenantID, shared.OutboxStatusPending, 0)
		svc := NewOutboxService(newMemoryDeadLetterStore(entry), nil)
		_, err := svc.Requeue(context.Background(), tenantID, entry.ID)
		assert.Equal(t, "INVALID_STATUS", shared.CodeOf(err))
	})

	t.Run("update failure", func(t *testing.T) {
		entry := outboxEntry(tenantID, shared.OutboxStatusDead, 0)
		store := newMemoryDeadLetterStore(entry)
		store.updateErr = errors.New("db down")
		svc := NewOutboxService(store, nil)
		_, err := svc.Requeue(context.Background(), tenantID, entry.ID)
		assert.Equal(t, "INTERNAL_ERROR", shared.CodeOf(err))
	})
}

func TestOutboxService_Stats(t *testing.T) {
	tenantID := uuid.New()
	svc := NewOutboxService(newMemoryDeadLetterStore(
		outboxEntry(tenantID, shared.OutboxStatusPending, 0),
		outboxEntry(tenantID, shared.OutboxStatusSent, 0),
		outboxEntry(tenantID, shared.OutboxStatusSent, 0),
		outboxEntry(tenantID, shared.OutboxStatusFailed, 0),
		outboxEntry(tenantID, shared.OutboxStatusDead, 0),
		outboxEntry(uuid.New(), shared.OutboxStatusDead, 0),
	), nil)

	stats, err := svc.Stats(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, &OutboxStatsDTO{Pending: 1, Sent: 2, Failed: 1, Dead: 1, Total: 5}, stats)
}

func TestOutboxService_RequeueAll(t *testing.T) {
	tenantID := uuid.New()
	var entries []*shared.OutboxEntry
	for i := range 150 {
		entries = append(entries, outboxEntry(tenantID, shared.OutboxStatusDead, time.Duration(i)*time.Second))
	}
	foreign := outboxEntry(uuid.New(), shared.OutboxStatusDead, 0)
	store := newMemoryDeadLetterStore(append(entries, foreign)...)
	svc := NewOutboxService(store, nil)

	count, err := svc.RequeueAll(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), count)
	for _, e := range entries {
		assert.Equal(t, shared.OutboxStatusPending, store.entries[e.ID].Status)
	}
	assert.Equal(t, shared.OutboxStatusDead, store.entries[foreign.ID].Status)
}
