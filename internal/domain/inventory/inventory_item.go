package inventory

import (
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a physical stock record: one product in one bin, optionally
// narrowed to a batch/lot/expiry. Reservations made by allocations are tracked
// in ReservedQuantity; physical stock in OnHandQuantity.
type InventoryItem struct {
	shared.TenantAggregateRoot
	ProductID        uuid.UUID
	WarehouseID      uuid.UUID
	BinID            *uuid.UUID
	Batch            string
	Lot              string
	ExpiryDate       *time.Time
	OnHandQuantity   decimal.Decimal
	ReservedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
}

// NewInventoryItem creates an empty stock record for a product in a warehouse
func NewInventoryItem(tenantID, warehouseID, productID uuid.UUID) (*InventoryItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		WarehouseID:         warehouseID,
		OnHandQuantity:      decimal.Zero,
		ReservedQuantity:    decimal.Zero,
		UnitCost:            decimal.Zero,
	}, nil
}

// Available returns the unreserved balance (on-hand minus reserved)
func (i *InventoryItem) Available() decimal.Decimal {
	return i.OnHandQuantity.Sub(i.ReservedQuantity)
}

// Reserve narrows what remains available to other orders. It does not move
// physical stock.
func (i *InventoryItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}
	if quantity.GreaterThan(i.Available()) {
		return &InsufficientStockError{
			InventoryItemID: i.ID,
			Requested:       quantity,
			Available:       i.Available(),
		}
	}
	i.ReservedQuantity = i.ReservedQuantity.Add(quantity)
	i.Touch()
	return nil
}

// Release returns a previously reserved quantity to the available balance
func (i *InventoryItem) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}
	if quantity.GreaterThan(i.ReservedQuantity) {
		return shared.NewDomainError("INVALID_RELEASE",
			fmt.Sprintf("Cannot release %s, only %s reserved", quantity, i.ReservedQuantity))
	}
	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.Touch()
	return nil
}

// Withdraw records physical removal of reserved stock (a pick): both the
// reservation and the on-hand balance shrink by quantity.
func (i *InventoryItem) Withdraw(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Withdraw quantity must be positive")
	}
	if quantity.GreaterThan(i.ReservedQuantity) || quantity.GreaterThan(i.OnHandQuantity) {
		return shared.NewDomainError("INVALID_WITHDRAW",
			fmt.Sprintf("Cannot withdraw %s: reserved %s, on hand %s", quantity, i.ReservedQuantity, i.OnHandQuantity))
	}
	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.OnHandQuantity = i.OnHandQuantity.Sub(quantity)
	i.Touch()
	return nil
}

// Receive adds physical stock, recomputing the moving weighted average cost
func (i *InventoryItem) Receive(quantity, unitCost decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if i.OnHandQuantity.IsZero() {
		i.UnitCost = unitCost
	} else {
		value := i.OnHandQuantity.Mul(i.UnitCost).Add(quantity.Mul(unitCost))
		i.UnitCost = value.Div(i.OnHandQuantity.Add(quantity)).Round(4)
	}
	i.OnHandQuantity = i.OnHandQuantity.Add(quantity)
	i.Touch()
	return nil
}

// InsufficientStockError is returned when a reservation exceeds the
// unreserved balance of an inventory item.
type InsufficientStockError struct {
	InventoryItemID uuid.UUID
	Requested       decimal.Decimal
	Available       decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock on inventory item %s: requested %s, available %s",
		e.InventoryItemID, e.Requested, e.Available)
}

// ErrorCode implements shared.CodedError
func (e *InsufficientStockError) ErrorCode() string {
	return "INSUFFICIENT_STOCK"
}
