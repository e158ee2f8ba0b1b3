package procurement

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/inventory"
	"github.com/erp/fulfillment/internal/domain/procurement"
	"github.com/erp/fulfillment/internal/domain/shared"
	"go.uber.org/zap"
)

// ReturnOrderRepositories is the part of the delivery transaction the handler
// writes through
type ReturnOrderRepositories interface {
	PurchaseOrderRepo() procurement.PurchaseOrderRepository
	WarehouseRepo() inventory.WarehouseRepository
	InventoryRepo() inventory.InventoryItemRepository
}

// ReturnOrderHandler turns rejected delivery quantities into a pre-approved
// return purchase order inside the delivery transaction
type ReturnOrderHandler struct {
	costBasis procurement.CostBasis
	logger    *zap.Logger
}

// NewReturnOrderHandler creates a new ReturnOrderHandler
func NewReturnOrderHandler(costBasis procurement.CostBasis, logger *zap.Logger) *ReturnOrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if costBasis == "" {
		costBasis = procurement.CostBasisSalesUnitPrice
	}
	return &ReturnOrderHandler{costBasis: costBasis, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ReturnOrderHandler) EventTypes() []string {
	return []string{fulfillment.EventTypePartialDeliveryRejected}
}

// HandleInTx creates the return order with the ID carried by the event
func (h *ReturnOrderHandler) HandleInTx(ctx context.Context, tx any, event shared.DomainEvent) error {
	rejected, ok := event.(*fulfillment.PartialDeliveryRejectedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", fulfillment.EventTypePartialDeliveryRejected),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			fulfillment.EventTypePartialDeliveryRejected, event.EventType())
	}
	repos, ok := tx.(ReturnOrderRepositories)
	if !ok {
		return fmt.Errorf("transaction %T does not provide return order repositories", tx)
	}
	if len(rejected.Items) == 0 {
		return nil
	}

	tenantID := event.TenantID()
	warehouse, err := repos.WarehouseRepo().FindDefault(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("find default warehouse: %w", err)
	}

	number, err := h.nextNumber(ctx, repos, rejected)
	if err != nil {
		return err
	}

	order, err := procurement.NewReturnPurchaseOrder(tenantID, rejected.ReturnOrderID, number, warehouse.ID,
		procurement.ReturnSource{SalesOrderID: rejected.OrderID, DeliveryID: rejected.DeliveryID},
		rejected.DeliveryDate,
	)
	if err != nil {
		return err
	}
	order.Remark = fmt.Sprintf("Rejected on delivery of sales order %s", rejected.OrderNumber)

	for _, item := range rejected.Items {
		unitCost := item.UnitPrice
		if h.costBasis == procurement.CostBasisInventoryUnitCost {
			stock, err := repos.InventoryRepo().FindByWarehouseAndProduct(ctx, tenantID, warehouse.ID, item.ProductID)
			if err != nil {
				return fmt.Errorf("load stock for cost basis: %w", err)
			}
			unitCost = h.costBasis.UnitCost(item.UnitPrice, stock)
		}
		orderItemID := item.OrderItemID
		if _, err := order.AddItem(item.ProductID, item.Quantity, unitCost, &orderItemID); err != nil {
			return err
		}
	}

	if err := repos.PurchaseOrderRepo().Create(ctx, order); err != nil {
		return fmt.Errorf("create return purchase order: %w", err)
	}

	h.logger.Info("return purchase order created",
		zap.String("purchase_order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("sales_order_id", rejected.OrderID.String()),
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("cost_basis", string(h.costBasis)),
		zap.String("quantity", order.TotalQuantity().String()),
	)
	return nil
}

// nextNumber numbers the return; later returns of the same order on the same
// day get a numeric suffix
func (h *ReturnOrderHandler) nextNumber(ctx context.Context, repos ReturnOrderRepositories, e *fulfillment.PartialDeliveryRejectedEvent) (string, error) {
	base := procurement.ReturnOrderNumber(e.OrderNumber, e.DeliveryDate, 1)
	count, err := repos.PurchaseOrderRepo().CountByNumberPrefix(ctx, e.TenantID(), base)
	if err != nil {
		return "", fmt.Errorf("count return orders: %w", err)
	}
	return procurement.ReturnOrderNumber(e.OrderNumber, e.DeliveryDate, int(count)+1), nil
}
