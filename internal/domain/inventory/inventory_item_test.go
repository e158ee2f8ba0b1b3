package inventory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestInventoryItem(t *testing.T, onHand int64) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	item.OnHandQuantity = decimal.NewFromInt(onHand)
	return item
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates an empty stock record", func(t *testing.T) {
		item, err := NewInventoryItem(uuid.New(), uuid.New(), uuid.New())

		require.NoError(t, err)
		assert.True(t, item.OnHandQuantity.IsZero())
		assert.True(t, item.ReservedQuantity.IsZero())
		assert.Equal(t, 1, item.Version)
	})

	t.Run("fails with nil warehouse ID", func(t *testing.T) {
		item, err := NewInventoryItem(uuid.New(), uuid.Nil, uuid.New())

		require.Error(t, err)
		assert.Nil(t, item)
		assert.Contains(t, err.Error(), "Warehouse ID")
	})

	t.Run("fails with nil product ID", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.New(), uuid.New(), uuid.Nil)
		assert.Contains(t, err.Error(), "Product ID")
	})
}

func TestInventoryItem_Reserve(t *testing.T) {
	t.Run("reserves within the unreserved balance", func(t *testing.T) {
		item := createTestInventoryItem(t, 10)

		require.NoError(t, item.Reserve(decimal.NewFromInt(4)))
		require.NoError(t, item.Reserve(decimal.NewFromInt(6)))

		assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, item.Available().IsZero())
	})

	t.Run("rejects more than available", func(t *testing.T) {
		item := createTestInventoryItem(t, 3)

		err := item.Reserve(decimal.NewFromInt(5))

		var stockErr *InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(5)))
		assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(3)))
		assert.Equal(t, "INSUFFICIENT_STOCK", stockErr.ErrorCode())
		assert.True(t, item.ReservedQuantity.IsZero())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item := createTestInventoryItem(t, 3)
		assert.Error(t, item.Reserve(decimal.Zero))
	})
}

func TestInventoryItem_Release(t *testing.T) {
	item := createTestInventoryItem(t, 10)
	require.NoError(t, item.Reserve(decimal.NewFromInt(5)))

	require.NoError(t, item.Release(decimal.NewFromInt(2)))
	assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(3)))

	assert.Error(t, item.Release(decimal.NewFromInt(4)))
}

func TestInventoryItem_Withdraw(t *testing.T) {
	item := createTestInventoryItem(t, 10)
	require.NoError(t, item.Reserve(decimal.NewFromInt(5)))

	require.NoError(t, item.Withdraw(decimal.NewFromInt(5)))

	assert.True(t, item.OnHandQuantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, item.ReservedQuantity.IsZero())
	assert.Error(t, item.Withdraw(decimal.NewFromInt(1)), "nothing reserved")
}

func TestInventoryItem_Receive(t *testing.T) {
	item := createTestInventoryItem(t, 0)

	require.NoError(t, item.Receive(decimal.NewFromInt(10), decimal.NewFromInt(4)))
	require.NoError(t, item.Receive(decimal.NewFromInt(10), decimal.NewFromInt(6)))

	assert.True(t, item.OnHandQuantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, item.UnitCost.Equal(decimal.NewFromInt(5)))
}
