package fulfillment

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeOrderAllocationConfirmed = "OrderAllocationConfirmed"
	EventTypeOrderPickConfirmed       = "OrderPickConfirmed"
	EventTypeOrderPacked              = "OrderPacked"
	EventTypeOrderShipped             = "OrderShipped"
	EventTypeOrderDelivered           = "OrderDelivered"
	EventTypePartialDeliveryRejected  = "PartialDeliveryRejected"
)

// OrderAllocationConfirmedEvent is raised when the allocate step is confirmed
type OrderAllocationConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	NextStep       Step            `json:"next_step"`
}

// NewOrderAllocationConfirmedEvent creates a new OrderAllocationConfirmedEvent
func NewOrderAllocationConfirmedEvent(o *SalesOrder) *OrderAllocationConfirmedEvent {
	return &OrderAllocationConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderAllocationConfirmed, AggregateTypeSalesOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		TotalAllocated:  o.TotalAllocated(),
		NextStep:        o.WorkflowState,
	}
}

// OrderPickConfirmedEvent is raised when the pick step is confirmed
type OrderPickConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalPicked decimal.Decimal `json:"total_picked"`
	NextStep    Step            `json:"next_step"`
}

// NewOrderPickConfirmedEvent creates a new OrderPickConfirmedEvent
func NewOrderPickConfirmedEvent(o *SalesOrder) *OrderPickConfirmedEvent {
	return &OrderPickConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPickConfirmed, AggregateTypeSalesOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		TotalPicked:     o.TotalPicked(),
		NextStep:        o.WorkflowState,
	}
}

// OrderPackedEvent is raised when packing is confirmed
type OrderPackedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	PackageCount   int       `json:"package_count"`
	DocumentNumber string    `json:"document_number"`
	NextStep       Step      `json:"next_step"`
}

// NewOrderPackedEvent creates a new OrderPackedEvent
func NewOrderPackedEvent(o *SalesOrder, packageCount int, documentNumber string) *OrderPackedEvent {
	return &OrderPackedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPacked, AggregateTypeSalesOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		PackageCount:    packageCount,
		DocumentNumber:  documentNumber,
		NextStep:        o.WorkflowState,
	}
}

// OrderShippedEvent is raised when a shipment is confirmed
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	ShipmentID     uuid.UUID `json:"shipment_id"`
	ShipmentNumber string    `json:"shipment_number"`
	Carrier        string    `json:"carrier"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	NextStep       Step      `json:"next_step"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *SalesOrder, s *Shipment) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeSalesOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ShipmentID:      s.ID,
		ShipmentNumber:  s.ShipmentNumber,
		Carrier:         s.Carrier,
		TrackingNumber:  s.TrackingNumber,
		NextStep:        o.WorkflowState,
	}
}

// OrderDeliveredEvent is raised when a delivery is confirmed, full or partial
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	ShipmentID    uuid.UUID       `json:"shipment_id"`
	DeliveryID    uuid.UUID       `json:"delivery_id"`
	Status        DeliveryStatus  `json:"status"`
	TotalAccepted decimal.Decimal `json:"total_accepted"`
	TotalRejected decimal.Decimal `json:"total_rejected"`
	ReturnOrderID *uuid.UUID      `json:"return_order_id,omitempty"`
	NextStep      Step            `json:"next_step"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *SalesOrder, d *Delivery) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeSalesOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ShipmentID:      d.ShipmentID,
		DeliveryID:      d.ID,
		Status:          d.Status,
		TotalAccepted:   d.TotalAccepted(),
		TotalRejected:   d.TotalRejected(),
		ReturnOrderID:   d.ReturnOrderID,
		NextStep:        o.WorkflowState,
	}
}

// RejectedItem is one rejected line carried on PartialDeliveryRejectedEvent
type RejectedItem struct {
	OrderItemID uuid.UUID       `json:"order_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Notes       string          `json:"notes,omitempty"`
}

// PartialDeliveryRejectedEvent asks procurement to create a return purchase
// order for rejected quantities. It must be handled inside the delivery
// transaction; ReturnOrderID is the ID the handler must give the new order.
type PartialDeliveryRejectedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID      `json:"order_id"`
	OrderNumber   string         `json:"order_number"`
	ShipmentID    uuid.UUID      `json:"shipment_id"`
	DeliveryID    uuid.UUID      `json:"delivery_id"`
	ReturnOrderID uuid.UUID      `json:"return_order_id"`
	DeliveryDate  time.Time      `json:"delivery_date"`
	Items         []RejectedItem `json:"items"`
}

// NewPartialDeliveryRejectedEvent builds the event from the rejected delivery lines
func NewPartialDeliveryRejectedEvent(o *SalesOrder, d *Delivery, returnOrderID uuid.UUID) *PartialDeliveryRejectedEvent {
	rejected := d.RejectedItems()
	items := make([]RejectedItem, 0, len(rejected))
	for _, di := range rejected {
		price := decimal.Zero
		if oi, err := o.Item(di.OrderItemID); err == nil {
			price = oi.UnitPrice
		}
		items = append(items, RejectedItem{
			OrderItemID: di.OrderItemID,
			ProductID:   di.ProductID,
			Quantity:    di.RejectedQuantity,
			UnitPrice:   price,
			Notes:       di.RejectionNotes,
		})
	}
	return &PartialDeliveryRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartialDeliveryRejected, AggregateTypeSalesOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		ShipmentID:      d.ShipmentID,
		DeliveryID:      d.ID,
		ReturnOrderID:   returnOrderID,
		DeliveryDate:    d.DeliveryDate,
		Items:           items,
	}
}

// RequiresHandler implements shared.HandlerRequired
func (e *PartialDeliveryRejectedEvent) RequiresHandler() bool {
	return true
}

// TotalQuantity sums the rejected quantity
func (e *PartialDeliveryRejectedEvent) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		total = total.Add(item.Quantity)
	}
	return total
}
