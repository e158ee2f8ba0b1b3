package fulfillment

import (
	"fmt"
	"strings"

	"github.com/erp/fulfillment/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error codes carried by the typed fulfillment errors
const (
	CodeIllegalTransition         = "ILLEGAL_TRANSITION"
	CodeInsufficientStock         = "INSUFFICIENT_STOCK"
	CodeOverAllocation            = "OVER_ALLOCATION"
	CodeOverPick                  = "OVER_PICK"
	CodeOverPack                  = "OVER_PACK"
	CodeMissingLocationAssignment = "MISSING_LOCATION_ASSIGNMENT"
	CodeAlreadyDelivered          = "ALREADY_DELIVERED"
	CodeDocumentGeneration        = "DOCUMENT_GENERATION_FAILED"
	CodeConflict                  = "CONFLICT"
)

// IllegalTransitionError is returned when an order's current state does not
// match the precondition of the requested transition or operation.
type IllegalTransitionError struct {
	OrderID  uuid.UUID
	Action   string
	Current  OrderState
	Expected []OrderState
}

func (e *IllegalTransitionError) Error() string {
	expected := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		expected = append(expected, s.String())
	}
	return fmt.Sprintf("illegal %s on order %s: current state %s, expected %s",
		e.Action, e.OrderID, e.Current, strings.Join(expected, " or "))
}

// ErrorCode implements shared.CodedError
func (e *IllegalTransitionError) ErrorCode() string {
	return CodeIllegalTransition
}

// InsufficientStockError is raised by the inventory ledger
type InsufficientStockError = inventory.InsufficientStockError

// OverAllocationError is returned when allocations would exceed the ordered quantity
type OverAllocationError struct {
	OrderItemID uuid.UUID
	Ordered     decimal.Decimal
	Allocated   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("allocating %s to item %s exceeds ordered quantity %s (already allocated %s)",
		e.Requested, e.OrderItemID, e.Ordered, e.Allocated)
}

// ErrorCode implements shared.CodedError
func (e *OverAllocationError) ErrorCode() string {
	return CodeOverAllocation
}

// OverPickError is returned when picks would exceed the allocated quantity
type OverPickError struct {
	OrderItemID uuid.UUID
	Allocated   decimal.Decimal
	Picked      decimal.Decimal
	Requested   decimal.Decimal
}

func (e *OverPickError) Error() string {
	return fmt.Sprintf("picking %s on item %s exceeds allocated quantity %s (already picked %s)",
		e.Requested, e.OrderItemID, e.Allocated, e.Picked)
}

// ErrorCode implements shared.CodedError
func (e *OverPickError) ErrorCode() string {
	return CodeOverPick
}

// OverPackError is returned when packages hold more of a product than was picked
type OverPackError struct {
	ProductID uuid.UUID
	Picked    decimal.Decimal
	Packed    decimal.Decimal
}

func (e *OverPackError) Error() string {
	return fmt.Sprintf("packages hold %s of product %s but only %s picked", e.Packed, e.ProductID, e.Picked)
}

// ErrorCode implements shared.CodedError
func (e *OverPackError) ErrorCode() string {
	return CodeOverPack
}

// MissingLocationAssignmentError lists the packages that were not assigned
// a delivery location when confirming a shipment.
type MissingLocationAssignmentError struct {
	OrderID        uuid.UUID
	PackageNumbers []string
}

func (e *MissingLocationAssignmentError) Error() string {
	return fmt.Sprintf("order %s: packages without delivery location: %s",
		e.OrderID, strings.Join(e.PackageNumbers, ", "))
}

// ErrorCode implements shared.CodedError
func (e *MissingLocationAssignmentError) ErrorCode() string {
	return CodeMissingLocationAssignment
}

// AlreadyDeliveredError is returned on a second delivery confirmation for a shipment
type AlreadyDeliveredError struct {
	ShipmentID uuid.UUID
	DeliveryID uuid.UUID
}

func (e *AlreadyDeliveredError) Error() string {
	return fmt.Sprintf("shipment %s already has delivery %s", e.ShipmentID, e.DeliveryID)
}

// ErrorCode implements shared.CodedError
func (e *AlreadyDeliveredError) ErrorCode() string {
	return CodeAlreadyDelivered
}

// DocumentGenerationFailure reports a render/store failure after the
// transition committed. The document stays pending and can be retried.
type DocumentGenerationFailure struct {
	DocumentID   uuid.UUID
	DocumentType DocumentType
	Cause        error
}

func (e *DocumentGenerationFailure) Error() string {
	return fmt.Sprintf("generate %s document %s: %v", e.DocumentType, e.DocumentID, e.Cause)
}

// ErrorCode implements shared.CodedError
func (e *DocumentGenerationFailure) ErrorCode() string {
	return CodeDocumentGeneration
}

func (e *DocumentGenerationFailure) Unwrap() error {
	return e.Cause
}

// ConflictError is a unique constraint violation (duplicate order, shipment
// or document number).
type ConflictError struct {
	Resource string
	Cause    error
}

func (e *ConflictError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s already exists", e.Resource)
	}
	return fmt.Sprintf("%s already exists: %v", e.Resource, e.Cause)
}

// ErrorCode implements shared.CodedError
func (e *ConflictError) ErrorCode() string {
	return CodeConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Cause
}
