package fulfillment

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AllocationManager reserves inventory against order lines. The stock check
// and the reservation happen in the caller's transaction on a locked,
// version-checked inventory row.
type AllocationManager struct {
	logger *zap.Logger
}

// NewAllocationManager creates a new AllocationManager
func NewAllocationManager(logger *zap.Logger) *AllocationManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationManager{logger: logger}
}

// Allocate reserves cmd.Quantity of one inventory item for one order line.
// No partial allocation: if the item's unreserved balance is short the call
// fails with an InsufficientStockError and nothing changes.
func (m *AllocationManager) Allocate(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, cmd AllocateCommand) (*fulfillment.Allocation, error) {
	if err := order.CheckOperation(fulfillment.OperationAllocateLine); err != nil {
		return nil, err
	}
	item, err := order.Item(cmd.OrderItemID)
	if err != nil {
		return nil, err
	}

	stock, err := repos.InventoryRepo().FindByIDForUpdate(ctx, order.TenantID, cmd.InventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("load inventory item: %w", err)
	}
	if stock.ProductID != item.ProductID {
		return nil, shared.NewDomainError("PRODUCT_MISMATCH", "Inventory item holds a different product than the order line")
	}
	if err := stock.Reserve(cmd.Quantity); err != nil {
		return nil, err
	}
	if err := item.Allocate(cmd.Quantity); err != nil {
		return nil, err
	}

	allocation, err := fulfillment.NewAllocation(order, item, stock.ID, cmd.Quantity, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := repos.InventoryRepo().SaveWithLock(ctx, stock); err != nil {
		return nil, fmt.Errorf("save inventory item: %w", err)
	}
	if err := repos.OrderRepo().SaveItems(ctx, item); err != nil {
		return nil, fmt.Errorf("save order item: %w", err)
	}
	if err := repos.AllocationRepo().Create(ctx, allocation); err != nil {
		return nil, fmt.Errorf("create allocation: %w", err)
	}
	order.SetStatus(fulfillment.StatusAllocated)

	m.logger.Info("stock allocated",
		zap.String("order_id", order.ID.String()),
		zap.String("order_item_id", item.ID.String()),
		zap.String("inventory_item_id", stock.ID.String()),
		zap.String("quantity", cmd.Quantity.String()),
	)
	return allocation, nil
}

// Deallocate deletes an allocation, releases its reservation and lowers the
// line's allocated quantity. An order left without allocations returns to created.
func (m *AllocationManager) Deallocate(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, cmd DeallocateCommand) error {
	if err := order.CheckOperation(fulfillment.OperationDeallocate); err != nil {
		return err
	}
	allocation, err := repos.AllocationRepo().FindByID(ctx, order.TenantID, cmd.AllocationID)
	if err != nil {
		return err
	}
	if allocation.OrderID != order.ID {
		return shared.ErrNotFound
	}
	item, err := order.Item(allocation.OrderItemID)
	if err != nil {
		return err
	}

	stock, err := repos.InventoryRepo().FindByIDForUpdate(ctx, order.TenantID, allocation.InventoryItemID)
	if err != nil {
		return fmt.Errorf("load inventory item: %w", err)
	}
	if err := stock.Release(allocation.Quantity); err != nil {
		return err
	}
	if err := item.Deallocate(allocation.Quantity); err != nil {
		return err
	}
	if err := repos.InventoryRepo().SaveWithLock(ctx, stock); err != nil {
		return fmt.Errorf("save inventory item: %w", err)
	}
	if err := repos.OrderRepo().SaveItems(ctx, item); err != nil {
		return fmt.Errorf("save order item: %w", err)
	}
	if err := repos.AllocationRepo().Delete(ctx, order.TenantID, allocation.ID); err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if order.TotalAllocated().Equal(decimal.Zero) {
		order.SetStatus(fulfillment.StatusCreated)
	}

	m.logger.Info("allocation removed",
		zap.String("order_id", order.ID.String()),
		zap.String("allocation_id", allocation.ID.String()),
		zap.String("quantity", allocation.Quantity.String()),
	)
	return nil
}

// ConfirmAllocation advances past the allocate step
func (m *AllocationManager) ConfirmAllocation(order *fulfillment.SalesOrder, next fulfillment.Step) error {
	if err := order.Advance(fulfillment.TransitionAllocate, next); err != nil {
		return err
	}
	order.AddDomainEvent(fulfillment.NewOrderAllocationConfirmedEvent(order))
	return nil
}
