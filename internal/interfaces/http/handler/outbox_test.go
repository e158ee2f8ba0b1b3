package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	appevent "github.com/erp/fulfillment/internal/application/event"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/interfaces/http/dto"
	"github.com/erp/fulfillment/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeadLetters struct {
	entries map[uuid.UUID]*shared.OutboxEntry
}

func (f *fakeDeadLetters) FindDead(_ context.Context, tenantID uuid.UUID, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var out []*shared.OutboxEntry
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.IsDead() {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDeadLetters) FindByID(_ context.Context, tenantID, id uuid.UUID) (*shared.OutboxEntry, error) {
	if e, ok := f.entries[id]; ok && e.TenantID == tenantID {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeDeadLetters) CountByStatus(_ context.Context, tenantID uuid.UUID) (map[shared.OutboxStatus]int64, error) {
	counts := map[shared.OutboxStatus]int64{}
	for _, e := range f.entries {
		if e.TenantID == tenantID {
			counts[e.Status]++
		}
	}
	return counts, nil
}

func (f *fakeDeadLetters) Update(_ context.Context, entry *shared.OutboxEntry) error {
	f.entries[entry.ID] = entry
	return nil
}

func setupOutboxTestRouter(entries ...*shared.OutboxEntry) *gin.Engine {
	store := &fakeDeadLetters{entries: map[uuid.UUID]*shared.OutboxEntry{}}
	for _, e := range entries {
		store.entries[e.ID] = e
	}
	router := gin.New()
	router.Use(middleware.TenantMiddleware(middleware.DefaultTenantConfig(true)))
	NewOutboxHandler(appevent.NewOutboxService(store, nil)).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func deadEntry(tenantID uuid.UUID) *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:         uuid.New(),
		TenantID:   tenantID,
		EventType:  "PartialDeliveryRejected",
		Status:     shared.OutboxStatusDead,
		RetryCount: shared.DefaultMaxRetries,
		MaxRetries: shared.DefaultMaxRetries,
		LastError:  "handler failed",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func TestOutboxHandler_DeadLetters(t *testing.T) {
	dead := deadEntry(testTenantID)
	foreign := deadEntry(uuid.New())
	router := setupOutboxTestRouter(dead, foreign)

	t.Run("lists the tenant's dead entries", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/admin/outbox/dead?page_size=10", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(1), data["total"])
		assert.Equal(t, float64(10), data["page_size"])
	})

	t.Run("rejects a bad page size", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/admin/outbox/dead?page_size=1000", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("hides entries of other tenants", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/admin/outbox/entries/"+foreign.ID.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, w, dto.ErrCodeNotFound)
	})

	t.Run("retries one entry", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/admin/outbox/entries/"+dead.ID.String()+"/retry", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "PENDING", data["status"])
	})

	t.Run("refuses to retry a live entry", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/admin/outbox/entries/"+dead.ID.String()+"/retry", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, dto.ErrCodeInvalidInput)
	})
}

func TestOutboxHandler_RetryAllAndStats(t *testing.T) {
	router := setupOutboxTestRouter(deadEntry(testTenantID), deadEntry(testTenantID), deadEntry(uuid.New()))

	w := doRequest(router, http.MethodPost, "/api/v1/admin/outbox/dead/retry", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["count"])

	w = doRequest(router, http.MethodGet, "/api/v1/admin/outbox/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(2), stats["pending"])
	assert.Equal(t, float64(0), stats["dead"])
	assert.Equal(t, float64(2), stats["total"])
}
