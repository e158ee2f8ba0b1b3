package fulfillment

import (
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies the caller of a fulfillment operation
type Actor struct {
	TenantID uuid.UUID
	UserID   *uuid.UUID
}

// AllocateCommand reserves stock of one inventory item for one order line
type AllocateCommand struct {
	Actor
	OrderID         uuid.UUID
	OrderItemID     uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
}

// DeallocateCommand removes an allocation and releases its reservation
type DeallocateCommand struct {
	Actor
	OrderID      uuid.UUID
	AllocationID uuid.UUID
}

// PickCommand records a physical pick
type PickCommand struct {
	Actor
	OrderID         uuid.UUID
	OrderItemID     uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
	Details         fulfillment.PickDetails
}

// SavePackagesCommand replaces the unshipped packages of an order
type SavePackagesCommand struct {
	Actor
	OrderID  uuid.UUID
	Packages []fulfillment.PackageSpec
}

// ShipPayload is required by the ship transition
type ShipPayload struct {
	Details     fulfillment.ShipmentDetails
	Assignments []fulfillment.LocationAssignment
}

// DeliverPayload is required by the deliver transition
type DeliverPayload struct {
	Mode      fulfillment.DeliveryMode
	Recipient fulfillment.DeliveryRecipient
	// Splits are required for partial deliveries and ignored for full ones
	Splits []fulfillment.DeliverySplit
}

// AdvanceCommand requests a confirming transition
type AdvanceCommand struct {
	Actor
	OrderID    uuid.UUID
	Transition fulfillment.Transition
	Ship       *ShipPayload
	Deliver    *DeliverPayload
}

// AllocationResult is returned by Allocate
type AllocationResult struct {
	Allocation *fulfillment.Allocation
	Order      *fulfillment.SalesOrder
}

// PickResult is returned by Pick. ReadyForPack is advisory.
type PickResult struct {
	Pick         *fulfillment.Pick
	Order        *fulfillment.SalesOrder
	ReadyForPack bool
}

// PackagesResult is returned by SavePackages
type PackagesResult struct {
	Order    *fulfillment.SalesOrder
	Packages []*fulfillment.Package
}

// TransitionResult is returned by Advance. When DocumentPending is set the
// transition committed but the document could not be generated yet.
type TransitionResult struct {
	Order           *fulfillment.SalesOrder
	PreviousState   fulfillment.OrderState
	NextStep        fulfillment.Step
	Resolution      fulfillment.StepResolution
	Document        *fulfillment.FulfillmentDocument
	DocumentPending bool
	DocumentError   string
	Packages        []*fulfillment.Package
	Shipment        *fulfillment.Shipment
	Delivery        *fulfillment.Delivery
	ReturnOrderID   *uuid.UUID
}

// OrderView is the full fulfillment picture of one order
type OrderView struct {
	Order       *fulfillment.SalesOrder
	Allocations []*fulfillment.Allocation
	Picks       []*fulfillment.Pick
	Packages    []*fulfillment.Package
	Shipment    *fulfillment.Shipment
	Delivery    *fulfillment.Delivery
	Documents   []*fulfillment.FulfillmentDocument
}
