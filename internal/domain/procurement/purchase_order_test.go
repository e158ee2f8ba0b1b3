package procurement

import (
	"testing"
	"time"

	"github.com/erp/fulfillment/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnOrderNumber(t *testing.T) {
	date := time.Date(2026, 3, 7, 15, 4, 0, 0, time.UTC)

	assert.Equal(t, "PO-return-SO-1001-07032026", ReturnOrderNumber("SO-1001", date, 1))
	assert.Equal(t, "PO-return-SO-1001-07032026", ReturnOrderNumber("SO-1001", date, 0))
	assert.Equal(t, "PO-return-SO-1001-07032026-2", ReturnOrderNumber("SO-1001", date, 2))
}

func TestNewReturnPurchaseOrder(t *testing.T) {
	tenantID, id, warehouseID := uuid.New(), uuid.New(), uuid.New()
	source := ReturnSource{SalesOrderID: uuid.New(), DeliveryID: uuid.New()}

	t.Run("creates an approved return at receive", func(t *testing.T) {
		po, err := NewReturnPurchaseOrder(tenantID, id, "PO-return-SO-1-01012026", warehouseID, source, time.Now())

		require.NoError(t, err)
		assert.Equal(t, id, po.ID)
		assert.True(t, po.IsReturn)
		assert.Nil(t, po.SupplierID)
		assert.Equal(t, PurchaseOrderStatusApproved, po.Status)
		assert.Equal(t, WorkflowStepReceive, po.WorkflowState)
		assert.Equal(t, source.DeliveryID, *po.SourceDeliveryID)
	})

	t.Run("adds lines and totals them", func(t *testing.T) {
		po, err := NewReturnPurchaseOrder(tenantID, id, "PO-return-SO-1-01012026", warehouseID, source, time.Now())
		require.NoError(t, err)

		_, err = po.AddItem(uuid.New(), decimal.NewFromInt(3), decimal.NewFromFloat(2.5), nil)
		require.NoError(t, err)
		_, err = po.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(10), nil)
		require.NoError(t, err)

		assert.Equal(t, 2, po.Items[1].LineNumber)
		assert.True(t, po.TotalAmount.Equal(decimal.NewFromFloat(17.5)))
		assert.True(t, po.TotalQuantity().Equal(decimal.NewFromInt(4)))
	})

	t.Run("requires a warehouse", func(t *testing.T) {
		_, err := NewReturnPurchaseOrder(tenantID, id, "PO-return-SO-1-01012026", uuid.Nil, source, time.Now())
		assert.Error(t, err)
	})
}

func TestCostBasis(t *testing.T) {
	price := decimal.NewFromInt(20)
	stock := []inventory.InventoryItem{
		{OnHandQuantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(8)},
		{OnHandQuantity: decimal.NewFromInt(30), UnitCost: decimal.NewFromInt(12)},
		{OnHandQuantity: decimal.NewFromInt(5), UnitCost: decimal.Zero},
	}

	t.Run("parse", func(t *testing.T) {
		b, err := ParseCostBasis("")
		require.NoError(t, err)
		assert.Equal(t, CostBasisSalesUnitPrice, b)

		_, err = ParseCostBasis("fifo")
		assert.Error(t, err)
	})

	t.Run("sales price basis ignores stock", func(t *testing.T) {
		assert.True(t, CostBasisSalesUnitPrice.UnitCost(price, stock).Equal(price))
	})

	t.Run("inventory basis weights by on hand", func(t *testing.T) {
		assert.True(t, CostBasisInventoryUnitCost.UnitCost(price, stock).Equal(decimal.NewFromInt(11)))
	})

	t.Run("inventory basis falls back to price", func(t *testing.T) {
		assert.True(t, CostBasisInventoryUnitCost.UnitCost(price, nil).Equal(price))
	})
}
