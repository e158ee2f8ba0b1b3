package fulfillment

import (
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentStatus is the carrier-facing status of a shipment
type ShipmentStatus string

const (
	ShipmentStatusReady     ShipmentStatus = "ready"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusFailed    ShipmentStatus = "failed"
	ShipmentStatusReturned  ShipmentStatus = "returned"
)

// IsTerminal reports whether no further status change is possible
func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusFailed || s == ShipmentStatusReturned
}

// CanTransitionTo checks the status only moves toward a terminal state
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	switch s {
	case ShipmentStatusReady:
		return target == ShipmentStatusInTransit || target.IsTerminal()
	case ShipmentStatusInTransit:
		return target.IsTerminal()
	}
	return false
}

// Shipment groups the packages of one order handed to a carrier
type Shipment struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	OrderID        uuid.UUID
	ShipmentNumber string
	Carrier        string
	ShippingMethod string
	TrackingNumber string
	Status         ShipmentStatus
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	Cost           decimal.Decimal
	DocumentID     *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShipmentDetails are the caller supplied carrier details
type ShipmentDetails struct {
	Carrier        string
	ShippingMethod string
	TrackingNumber string
	Cost           decimal.Decimal
}

// NewShipment creates an in-transit shipment for an order
func NewShipment(order *SalesOrder, shipmentNumber string, details ShipmentDetails, shippedAt time.Time) (*Shipment, error) {
	if details.Carrier == "" {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Carrier is required")
	}
	if shipmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_SHIPMENT_NUMBER", "Shipment number is required")
	}
	if details.Cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Shipping cost cannot be negative")
	}
	return &Shipment{
		ID:             uuid.New(),
		TenantID:       order.TenantID,
		OrderID:        order.ID,
		ShipmentNumber: shipmentNumber,
		Carrier:        details.Carrier,
		ShippingMethod: details.ShippingMethod,
		TrackingNumber: details.TrackingNumber,
		Status:         ShipmentStatusInTransit,
		ShippedAt:      &shippedAt,
		Cost:           details.Cost,
		CreatedAt:      shippedAt,
		UpdatedAt:      shippedAt,
	}, nil
}

// MarkDelivered records the physical handoff
func (s *Shipment) MarkDelivered(at time.Time) error {
	if !s.Status.CanTransitionTo(ShipmentStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Shipment in status %s cannot be delivered", s.Status))
	}
	s.Status = ShipmentStatusDelivered
	s.DeliveredAt = &at
	s.UpdatedAt = time.Now()
	return nil
}
