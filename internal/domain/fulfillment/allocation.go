package fulfillment

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation reserves quantity of one inventory item for one order line.
// Rows are never updated; deallocation deletes them.
type Allocation struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	OrderID         uuid.UUID
	OrderItemID     uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
	AllocatedBy     *uuid.UUID
	AllocatedAt     time.Time
}

// NewAllocation creates an allocation row for an order line
func NewAllocation(order *SalesOrder, item *SalesOrderItem, inventoryItemID uuid.UUID, quantity decimal.Decimal, userID *uuid.UUID) (*Allocation, error) {
	if inventoryItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY_ITEM", "Inventory item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Allocation quantity must be positive")
	}
	return &Allocation{
		ID:              uuid.New(),
		TenantID:        order.TenantID,
		OrderID:         order.ID,
		OrderItemID:     item.ID,
		InventoryItemID: inventoryItemID,
		Quantity:        quantity,
		AllocatedBy:     userID,
		AllocatedAt:     time.Now(),
	}, nil
}

// Pick records physical removal of stock for an order line. Batch, lot and
// serial are captured metadata, not part of the identity.
type Pick struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	OrderID         uuid.UUID
	OrderItemID     uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
	Batch           string
	Lot             string
	Serial          string
	PickedBy        *uuid.UUID
	PickedAt        time.Time
}

// PickDetails is the optional metadata captured on a pick
type PickDetails struct {
	Batch  string
	Lot    string
	Serial string
}

// NewPick creates an immutable pick row
func NewPick(order *SalesOrder, item *SalesOrderItem, inventoryItemID uuid.UUID, quantity decimal.Decimal, details PickDetails, userID *uuid.UUID) (*Pick, error) {
	if inventoryItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY_ITEM", "Inventory item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Pick quantity must be positive")
	}
	return &Pick{
		ID:              uuid.New(),
		TenantID:        order.TenantID,
		OrderID:         order.ID,
		OrderItemID:     item.ID,
		InventoryItemID: inventoryItemID,
		Quantity:        quantity,
		Batch:           details.Batch,
		Lot:             details.Lot,
		Serial:          details.Serial,
		PickedBy:        userID,
		PickedAt:        time.Now(),
	}, nil
}
