package fulfillment

import (
	"context"

	"github.com/google/uuid"
)

// SalesOrderRepository persists the order aggregate with its lines
type SalesOrderRepository interface {
	// FindByID loads an order with its items within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)

	// FindByIDForUpdate is FindByID with a row lock where the database supports it
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)

	// Create inserts a new order and its items
	Create(ctx context.Context, order *SalesOrder) error

	// SaveState writes the order header only if it is still in prev at the
	// loaded version, then bumps the version. A lost race returns
	// shared.ErrConcurrencyConflict.
	SaveState(ctx context.Context, order *SalesOrder, prev OrderState) error

	// SaveItems updates allocated and picked quantities of the given lines
	SaveItems(ctx context.Context, items ...*SalesOrderItem) error
}

// AllocationRepository persists allocation rows
type AllocationRepository interface {
	Create(ctx context.Context, allocation *Allocation) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Allocation, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*Allocation, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// PickRepository persists immutable pick rows
type PickRepository interface {
	Create(ctx context.Context, pick *Pick) error
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*Pick, error)
}

// PackageRepository persists packages and their items
type PackageRepository interface {
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*Package, error)

	// ReplaceUnshipped deletes every package of the order not yet attached to
	// a shipment and inserts packages in their place.
	ReplaceUnshipped(ctx context.Context, tenantID, orderID uuid.UUID, packages []*Package) error

	// AttachToShipment links packages to a shipment and stores their delivery locations
	AttachToShipment(ctx context.Context, shipmentID uuid.UUID, packages []*Package) error
}

// ShipmentRepository persists shipments
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *Shipment) error
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*Shipment, error)
	Update(ctx context.Context, shipment *Shipment) error
}

// DeliveryRepository persists deliveries. Deliveries are insert-only.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *Delivery) error
	FindByShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (*Delivery, error)
}

// DocumentRepository persists fulfillment document records
type DocumentRepository interface {
	Create(ctx context.Context, doc *FulfillmentDocument) error
	Update(ctx context.Context, doc *FulfillmentDocument) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*FulfillmentDocument, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*FulfillmentDocument, error)
	// FindPending returns pending documents across tenants, oldest first
	FindPending(ctx context.Context, limit int) ([]*FulfillmentDocument, error)
}
