package cache

import (
	"testing"
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalWorkflowCache_GetSet(t *testing.T) {
	cache := NewLocalWorkflowCache()
	defer cache.Close()

	tenantID := uuid.New()

	_, found := cache.Get(tenantID, fulfillment.ProcessTypeSalesOrder)
	assert.False(t, found)

	def := fulfillment.DefaultWorkflowDefinition(tenantID)
	cache.Set(tenantID, fulfillment.ProcessTypeSalesOrder, def)

	got, found := cache.Get(tenantID, fulfillment.ProcessTypeSalesOrder)
	require.True(t, found)
	assert.Equal(t, def, got)

	// other tenants and process types are separate keys
	_, found = cache.Get(uuid.New(), fulfillment.ProcessTypeSalesOrder)
	assert.False(t, found)
	_, found = cache.Get(tenantID, fulfillment.ProcessTypePurchaseOrder)
	assert.False(t, found)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(3), misses)
}

func TestLocalWorkflowCache_CachesAbsence(t *testing.T) {
	cache := NewLocalWorkflowCache()
	defer cache.Close()

	tenantID := uuid.New()
	cache.Set(tenantID, fulfillment.ProcessTypeSalesOrder, nil)

	def, found := cache.Get(tenantID, fulfillment.ProcessTypeSalesOrder)
	assert.True(t, found)
	assert.Nil(t, def)
}

func TestLocalWorkflowCache_Expiry(t *testing.T) {
	cache := NewLocalWorkflowCache(WithLocalTTL(time.Minute))
	defer cache.Close()

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	tenantID := uuid.New()
	cache.Set(tenantID, fulfillment.ProcessTypeSalesOrder, fulfillment.DefaultWorkflowDefinition(tenantID))

	now = now.Add(59 * time.Second)
	_, found := cache.Get(tenantID, fulfillment.ProcessTypeSalesOrder)
	assert.True(t, found)

	now = now.Add(2 * time.Second)
	_, found = cache.Get(tenantID, fulfillment.ProcessTypeSalesOrder)
	assert.False(t, found)
	assert.Equal(t, 0, cache.Size())
}

func TestLocalWorkflowCache_RemoveExpired(t *testing.T) {
	cache := NewLocalWorkflowCache(WithLocalTTL(time.Minute))
	defer cache.Close()

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	stale, fresh := uuid.New(), uuid.New()
	cache.Set(stale, fulfillment.ProcessTypeSalesOrder, nil)
	now = now.Add(45 * time.Second)
	cache.Set(fresh, fulfillment.ProcessTypeSalesOrder, nil)
	now = now.Add(30 * time.Second)

	cache.removeExpired()

	assert.Equal(t, 1, cache.Size())
	_, found := cache.Get(fresh, fulfillment.ProcessTypeSalesOrder)
	assert.True(t, found)
}

func TestLocalWorkflowCache_DeleteAndClear(t *testing.T) {
	cache := NewLocalWorkflowCache()
	defer cache.Close()

	a, b := uuid.New(), uuid.New()
	cache.Set(a, fulfillment.ProcessTypeSalesOrder, nil)
	cache.Set(b, fulfillment.ProcessTypeSalesOrder, nil)

	cache.Delete(a, fulfillment.ProcessTypeSalesOrder)
	_, found := cache.Get(a, fulfillment.ProcessTypeSalesOrder)
	assert.False(t, found)
	assert.Equal(t, 1, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestLocalWorkflowCache_CloseTwice(t *testing.T) {
	cache := NewLocalWorkflowCache()
	assert.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}
