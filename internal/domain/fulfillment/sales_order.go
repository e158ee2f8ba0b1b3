package fulfillment

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeSalesOrder is the aggregate type carried on fulfillment events
const AggregateTypeSalesOrder = "SalesOrder"

// SalesOrderItem is an order line. Allocated and picked quantities are
// tracked independently of the ordered quantity and only grow within one
// order lifecycle, except for explicit deallocation.
type SalesOrderItem struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	LineNumber        int
	ProductID         uuid.UUID
	OrderedQuantity   decimal.Decimal
	AllocatedQuantity decimal.Decimal
	PickedQuantity    decimal.Decimal
	UnitPrice         decimal.Decimal
	LineTotal         decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Allocate increases the allocated quantity, keeping allocated <= ordered
func (i *SalesOrderItem) Allocate(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Allocation quantity must be positive")
	}
	if i.AllocatedQuantity.Add(quantity).GreaterThan(i.OrderedQuantity) {
		return &OverAllocationError{
			OrderItemID: i.ID,
			Ordered:     i.OrderedQuantity,
			Allocated:   i.AllocatedQuantity,
			Requested:   quantity,
		}
	}
	i.AllocatedQuantity = i.AllocatedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// Deallocate decreases the allocated quantity. Already picked quantity can
// not be deallocated.
func (i *SalesOrderItem) Deallocate(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deallocation quantity must be positive")
	}
	remaining := i.AllocatedQuantity.Sub(quantity)
	if remaining.IsNegative() || remaining.LessThan(i.PickedQuantity) {
		return shared.NewDomainError("INVALID_DEALLOCATION", "Deallocation would drop allocated quantity below picked quantity")
	}
	i.AllocatedQuantity = remaining
	i.UpdatedAt = time.Now()
	return nil
}

// Pick increases the picked quantity, keeping picked <= allocated
func (i *SalesOrderItem) Pick(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Pick quantity must be positive")
	}
	if i.PickedQuantity.Add(quantity).GreaterThan(i.AllocatedQuantity) {
		return &OverPickError{
			OrderItemID: i.ID,
			Allocated:   i.AllocatedQuantity,
			Picked:      i.PickedQuantity,
			Requested:   quantity,
		}
	}
	i.PickedQuantity = i.PickedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// SalesOrder is the aggregate root driven through fulfillment.
type SalesOrder struct {
	shared.TenantAggregateRoot
	OrderNumber           string
	CustomerID            uuid.UUID
	ShippingLocationID    *uuid.UUID
	ShippingMethod        string
	OrderDate             time.Time
	RequestedDeliveryDate *time.Time
	Status                OrderStatus
	WorkflowState         Step
	TotalAmount           decimal.Decimal
	TrackingNumber        string
	Notes                 string
	Items                 []SalesOrderItem
}

// NewSalesOrder creates an order in the created status at the allocate step
func NewSalesOrder(tenantID uuid.UUID, orderNumber string, customerID uuid.UUID, orderDate time.Time) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		OrderDate:           orderDate,
		Status:              StatusCreated,
		WorkflowState:       StepAllocate,
		TotalAmount:         decimal.Zero,
		Items:               make([]SalesOrderItem, 0),
	}, nil
}

// AddItem appends a line. Lines can only be added before allocation starts.
func (o *SalesOrder) AddItem(productID uuid.UUID, quantity, unitPrice decimal.Decimal) (*SalesOrderItem, error) {
	if o.Status != StatusCreated {
		return nil, shared.NewDomainError("INVALID_STATE", "Items can only be added to a created order")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	item := SalesOrderItem{
		ID:                uuid.New(),
		OrderID:           o.ID,
		LineNumber:        len(o.Items) + 1,
		ProductID:         productID,
		OrderedQuantity:   quantity,
		AllocatedQuantity: decimal.Zero,
		PickedQuantity:    decimal.Zero,
		UnitPrice:         unitPrice,
		LineTotal:         quantity.Mul(unitPrice),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	o.Items = append(o.Items, item)
	o.TotalAmount = o.TotalAmount.Add(item.LineTotal)
	o.Touch()
	return &o.Items[len(o.Items)-1], nil
}

// Item returns the line with the given ID
func (o *SalesOrder) Item(itemID uuid.UUID) (*SalesOrderItem, error) {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Order item not found")
}

// State returns the current (status, step) pair
func (o *SalesOrder) State() OrderState {
	return OrderState{Status: o.Status, Step: o.WorkflowState}
}

// CheckTransition verifies the order satisfies the transition's precondition
func (o *SalesOrder) CheckTransition(t Transition) error {
	want := t.Precondition()
	if o.State() != want {
		return &IllegalTransitionError{
			OrderID:  o.ID,
			Action:   "transition " + t.String(),
			Current:  o.State(),
			Expected: []OrderState{want},
		}
	}
	return nil
}

// CheckOperation verifies a recording operation is allowed in the current state
func (o *SalesOrder) CheckOperation(op Operation) error {
	rule := operationRules[op]
	if o.WorkflowState == rule.step {
		for _, s := range rule.statuses {
			if o.Status == s {
				return nil
			}
		}
	}
	expected := make([]OrderState, 0, len(rule.statuses))
	for _, s := range rule.statuses {
		expected = append(expected, OrderState{Status: s, Step: rule.step})
	}
	return &IllegalTransitionError{
		OrderID:  o.ID,
		Action:   "operation " + op.String(),
		Current:  o.State(),
		Expected: expected,
	}
}

// SetStatus changes the status without touching the step. Used by recording
// operations.
func (o *SalesOrder) SetStatus(status OrderStatus) {
	o.Status = status
	o.Touch()
}

// Advance applies a confirmed transition and moves the order to next.
func (o *SalesOrder) Advance(t Transition, next Step) error {
	if err := o.CheckTransition(t); err != nil {
		return err
	}
	o.Status = t.ResultStatus()
	o.WorkflowState = next
	o.Touch()
	return nil
}

// TotalAllocated sums the allocated quantity of all lines
func (o *SalesOrder) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.AllocatedQuantity)
	}
	return total
}

// TotalPicked sums the picked quantity of all lines
func (o *SalesOrder) TotalPicked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.PickedQuantity)
	}
	return total
}

// ReadyForPack reports whether everything allocated has been picked. It is
// advisory; the pack transition is never triggered automatically.
func (o *SalesOrder) ReadyForPack() bool {
	allocated := o.TotalAllocated()
	return allocated.IsPositive() && o.TotalPicked().Equal(allocated)
}

// PickedByProduct returns the picked quantity per product
func (o *SalesOrder) PickedByProduct() map[uuid.UUID]decimal.Decimal {
	picked := make(map[uuid.UUID]decimal.Decimal, len(o.Items))
	for _, item := range o.Items {
		picked[item.ProductID] = picked[item.ProductID].Add(item.PickedQuantity)
	}
	return picked
}
