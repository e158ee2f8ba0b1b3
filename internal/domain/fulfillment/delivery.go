package fulfillment

import (
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryStatus tells whether the recipient accepted everything
type DeliveryStatus string

const (
	DeliveryStatusComplete DeliveryStatus = "complete"
	DeliveryStatusPartial  DeliveryStatus = "partial"
)

// DeliveryMode selects full or partial confirmation for the deliver transition
type DeliveryMode string

const (
	DeliveryModeFull    DeliveryMode = "full"
	DeliveryModePartial DeliveryMode = "partial"
)

// Delivery is the immutable record of what the recipient accepted
type Delivery struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	OrderID       uuid.UUID
	ShipmentID    uuid.UUID
	Status        DeliveryStatus
	DeliveryDate  time.Time
	RecipientName string
	Notes         string
	ReturnOrderID *uuid.UUID
	Items         []DeliveryItem
	CreatedAt     time.Time
}

// DeliveryItem holds the accepted/rejected split of one shipped order line.
// Accepted + Rejected always equals Shipped.
type DeliveryItem struct {
	ID               uuid.UUID
	DeliveryID       uuid.UUID
	OrderItemID      uuid.UUID
	ProductID        uuid.UUID
	ShippedQuantity  decimal.Decimal
	AcceptedQuantity decimal.Decimal
	RejectedQuantity decimal.Decimal
	RejectionNotes   string
}

// DeliverySplit is the caller supplied outcome for one shipped line
type DeliverySplit struct {
	OrderItemID uuid.UUID
	Accepted    decimal.Decimal
	Rejected    decimal.Decimal
	Notes       string
}

// DeliveryRecipient carries who received the shipment
type DeliveryRecipient struct {
	Name  string
	Notes string
	Date  time.Time
}

// TotalRejected sums rejected quantities
func (d *Delivery) TotalRejected() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.RejectedQuantity)
	}
	return total
}

// TotalAccepted sums accepted quantities
func (d *Delivery) TotalAccepted() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.AcceptedQuantity)
	}
	return total
}

// RejectedItems returns the lines with a positive rejected quantity
func (d *Delivery) RejectedItems() []DeliveryItem {
	rejected := make([]DeliveryItem, 0)
	for _, item := range d.Items {
		if item.RejectedQuantity.IsPositive() {
			rejected = append(rejected, item)
		}
	}
	return rejected
}

// NewFullDelivery accepts every shipped line in full
func NewFullDelivery(order *SalesOrder, shipment *Shipment, packages []*Package, recipient DeliveryRecipient) (*Delivery, error) {
	d, err := newDelivery(order, shipment, DeliveryStatusComplete, recipient)
	if err != nil {
		return nil, err
	}
	for _, line := range shippedLines(order, packages) {
		d.Items = append(d.Items, DeliveryItem{
			ID:               uuid.New(),
			DeliveryID:       d.ID,
			OrderItemID:      line.orderItemID,
			ProductID:        line.productID,
			ShippedQuantity:  line.quantity,
			AcceptedQuantity: line.quantity,
			RejectedQuantity: decimal.Zero,
		})
	}
	return d, nil
}

// NewPartialDelivery records a caller supplied split for every shipped line.
// The delivery is partial even when nothing was rejected.
func NewPartialDelivery(order *SalesOrder, shipment *Shipment, packages []*Package, recipient DeliveryRecipient, splits []DeliverySplit) (*Delivery, error) {
	d, err := newDelivery(order, shipment, DeliveryStatusPartial, recipient)
	if err != nil {
		return nil, err
	}

	byItem := make(map[uuid.UUID]DeliverySplit, len(splits))
	for _, s := range splits {
		if _, dup := byItem[s.OrderItemID]; dup {
			return nil, shared.NewDomainError("INVALID_DELIVERY_SPLIT",
				fmt.Sprintf("Order item %s appears more than once", s.OrderItemID))
		}
		byItem[s.OrderItemID] = s
	}

	lines := shippedLines(order, packages)
	for _, line := range lines {
		s, ok := byItem[line.orderItemID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_DELIVERY_SPLIT",
				fmt.Sprintf("No accepted/rejected split for shipped order item %s", line.orderItemID))
		}
		if s.Accepted.IsNegative() || s.Rejected.IsNegative() {
			return nil, shared.NewDomainError("INVALID_DELIVERY_SPLIT", "Accepted and rejected quantities cannot be negative")
		}
		if !s.Accepted.Add(s.Rejected).Equal(line.quantity) {
			return nil, shared.NewDomainError("INVALID_DELIVERY_SPLIT",
				fmt.Sprintf("Order item %s: accepted %s + rejected %s must equal shipped %s",
					line.orderItemID, s.Accepted, s.Rejected, line.quantity))
		}
		delete(byItem, line.orderItemID)
		d.Items = append(d.Items, DeliveryItem{
			ID:               uuid.New(),
			DeliveryID:       d.ID,
			OrderItemID:      line.orderItemID,
			ProductID:        line.productID,
			ShippedQuantity:  line.quantity,
			AcceptedQuantity: s.Accepted,
			RejectedQuantity: s.Rejected,
			RejectionNotes:   s.Notes,
		})
	}
	// leftovers are reported in request order
	for _, s := range splits {
		if _, left := byItem[s.OrderItemID]; left {
			return nil, shared.NewDomainError("INVALID_DELIVERY_SPLIT",
				fmt.Sprintf("Order item %s was not shipped", s.OrderItemID))
		}
	}
	return d, nil
}

// LinkReturnOrder records the return purchase order created for rejected lines
func (d *Delivery) LinkReturnOrder(id uuid.UUID) {
	d.ReturnOrderID = &id
}

func newDelivery(order *SalesOrder, shipment *Shipment, status DeliveryStatus, recipient DeliveryRecipient) (*Delivery, error) {
	if recipient.Name == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient name is required")
	}
	if shipment.OrderID != order.ID {
		return nil, shared.NewDomainError("INVALID_SHIPMENT", "Shipment does not belong to the order")
	}
	date := recipient.Date
	if date.IsZero() {
		date = time.Now()
	}
	return &Delivery{
		ID:            uuid.New(),
		TenantID:      order.TenantID,
		OrderID:       order.ID,
		ShipmentID:    shipment.ID,
		Status:        status,
		DeliveryDate:  date,
		RecipientName: recipient.Name,
		Notes:         recipient.Notes,
		Items:         make([]DeliveryItem, 0),
		CreatedAt:     time.Now(),
	}, nil
}

type shippedLine struct {
	orderItemID uuid.UUID
	productID   uuid.UUID
	quantity    decimal.Decimal
}

// shippedLines aggregates package contents per order line, in line order
func shippedLines(order *SalesOrder, packages []*Package) []shippedLine {
	shipped := ShippedQuantities(packages)
	lines := make([]shippedLine, 0, len(shipped))
	for _, item := range order.Items {
		q, ok := shipped[item.ID]
		if !ok || !q.IsPositive() {
			continue
		}
		lines = append(lines, shippedLine{orderItemID: item.ID, productID: item.ProductID, quantity: q})
	}
	return lines
}
