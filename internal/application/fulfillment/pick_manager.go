package fulfillment

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PickManager records physical picks against allocated inventory
type PickManager struct {
	logger *zap.Logger
}

// NewPickManager creates a new PickManager
func NewPickManager(logger *zap.Logger) *PickManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PickManager{logger: logger}
}

// Pick records an immutable pick row. The quantity must be covered by what
// was allocated from that inventory item to that line and not yet picked;
// the inventory item's reservation and on-hand balance are consumed.
func (m *PickManager) Pick(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, cmd PickCommand) (*fulfillment.Pick, error) {
	if err := order.CheckOperation(fulfillment.OperationPickLine); err != nil {
		return nil, err
	}
	item, err := order.Item(cmd.OrderItemID)
	if err != nil {
		return nil, err
	}

	open, err := m.openAllocation(ctx, repos, order, item.ID, cmd.InventoryItemID)
	if err != nil {
		return nil, err
	}
	if cmd.Quantity.GreaterThan(open) {
		return nil, &fulfillment.OverPickError{
			OrderItemID: item.ID,
			Allocated:   item.AllocatedQuantity,
			Picked:      item.PickedQuantity,
			Requested:   cmd.Quantity,
		}
	}
	if err := item.Pick(cmd.Quantity); err != nil {
		return nil, err
	}

	stock, err := repos.InventoryRepo().FindByIDForUpdate(ctx, order.TenantID, cmd.InventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("load inventory item: %w", err)
	}
	if err := stock.Withdraw(cmd.Quantity); err != nil {
		return nil, err
	}

	pick, err := fulfillment.NewPick(order, item, stock.ID, cmd.Quantity, cmd.Details, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := repos.InventoryRepo().SaveWithLock(ctx, stock); err != nil {
		return nil, fmt.Errorf("save inventory item: %w", err)
	}
	if err := repos.OrderRepo().SaveItems(ctx, item); err != nil {
		return nil, fmt.Errorf("save order item: %w", err)
	}
	if err := repos.PickRepo().Create(ctx, pick); err != nil {
		return nil, fmt.Errorf("create pick: %w", err)
	}
	order.SetStatus(fulfillment.StatusPicked)

	m.logger.Info("stock picked",
		zap.String("order_id", order.ID.String()),
		zap.String("order_item_id", item.ID.String()),
		zap.String("inventory_item_id", stock.ID.String()),
		zap.String("quantity", cmd.Quantity.String()),
		zap.Bool("ready_for_pack", order.ReadyForPack()),
	)
	return pick, nil
}

// openAllocation returns allocated minus picked for one (line, inventory item) pair
func (m *PickManager) openAllocation(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, orderItemID, inventoryItemID uuid.UUID) (decimal.Decimal, error) {
	allocations, err := repos.AllocationRepo().FindByOrder(ctx, order.TenantID, order.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load allocations: %w", err)
	}
	picks, err := repos.PickRepo().FindByOrder(ctx, order.TenantID, order.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load picks: %w", err)
	}
	open := decimal.Zero
	for _, a := range allocations {
		if a.OrderItemID == orderItemID && a.InventoryItemID == inventoryItemID {
			open = open.Add(a.Quantity)
		}
	}
	for _, p := range picks {
		if p.OrderItemID == orderItemID && p.InventoryItemID == inventoryItemID {
			open = open.Sub(p.Quantity)
		}
	}
	return open, nil
}

// ConfirmPick advances past the pick step
func (m *PickManager) ConfirmPick(order *fulfillment.SalesOrder, next fulfillment.Step) error {
	if err := order.Advance(fulfillment.TransitionPick, next); err != nil {
		return err
	}
	order.AddDomainEvent(fulfillment.NewOrderPickConfirmedEvent(order))
	return nil
}
