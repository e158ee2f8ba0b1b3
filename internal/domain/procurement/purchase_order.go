package procurement

import (
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusApproved, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// WorkflowStepReceive is the receiving step return orders are placed at
const WorkflowStepReceive = "receive"

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	LineNumber        int
	ProductID         uuid.UUID
	Quantity          decimal.Decimal
	UnitCost          decimal.Decimal
	Amount            decimal.Decimal
	SourceOrderItemID *uuid.UUID
	Remark            string
}

// PurchaseOrder is the procurement aggregate. This engine only creates
// return orders: no supplier, pre-approved, waiting at the receive step.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber      string
	SupplierID       *uuid.UUID
	IsReturn         bool
	Status           PurchaseOrderStatus
	WorkflowState    string
	WarehouseID      uuid.UUID
	SourceOrderID    *uuid.UUID
	SourceDeliveryID *uuid.UUID
	OrderDate        time.Time
	TotalAmount      decimal.Decimal
	Remark           string
	Items            []PurchaseOrderItem
}

// ReturnSource links a return order to the sales delivery that caused it
type ReturnSource struct {
	SalesOrderID uuid.UUID
	DeliveryID   uuid.UUID
}

// NewReturnPurchaseOrder creates an approved supplier-less return order with
// the given ID, so callers can link to it before it is stored.
func NewReturnPurchaseOrder(tenantID, id uuid.UUID, orderNumber string, warehouseID uuid.UUID, source ReturnSource, orderDate time.Time) (*PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ID", "Return order ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	root := shared.NewTenantAggregateRoot(tenantID)
	root.ID = id
	salesOrderID, deliveryID := source.SalesOrderID, source.DeliveryID
	return &PurchaseOrder{
		TenantAggregateRoot: root,
		OrderNumber:         orderNumber,
		IsReturn:            true,
		Status:              PurchaseOrderStatusApproved,
		WorkflowState:       WorkflowStepReceive,
		WarehouseID:         warehouseID,
		SourceOrderID:       &salesOrderID,
		SourceDeliveryID:    &deliveryID,
		OrderDate:           orderDate,
		TotalAmount:         decimal.Zero,
		Items:               make([]PurchaseOrderItem, 0),
	}, nil
}

// AddItem appends a line and recomputes the total
func (o *PurchaseOrder) AddItem(productID uuid.UUID, quantity, unitCost decimal.Decimal, sourceOrderItemID *uuid.UUID) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	item := PurchaseOrderItem{
		ID:                uuid.New(),
		OrderID:           o.ID,
		LineNumber:        len(o.Items) + 1,
		ProductID:         productID,
		Quantity:          quantity,
		UnitCost:          unitCost,
		Amount:            quantity.Mul(unitCost).Round(4),
		SourceOrderItemID: sourceOrderItemID,
	}
	o.Items = append(o.Items, item)
	o.TotalAmount = o.TotalAmount.Add(item.Amount)
	o.Touch()
	return &o.Items[len(o.Items)-1], nil
}

// TotalQuantity sums the quantity of all lines
func (o *PurchaseOrder) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// ReturnOrderNumber formats PO-return-{orderNumber}-{DDMMYYYY}. The first
// return of the day has no suffix; later ones get -2, -3 and so on.
func ReturnOrderNumber(salesOrderNumber string, date time.Time, n int) string {
	base := fmt.Sprintf("PO-return-%s-%s", salesOrderNumber, date.Format("02012006"))
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
