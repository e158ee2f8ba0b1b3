package fulfillment

import (
	"fmt"

	"github.com/erp/fulfillment/internal/domain/shared"
)

// OrderStatus is the coarse fulfillment status of a sales order
type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusAllocated OrderStatus = "allocated"
	StatusPicked    OrderStatus = "picked"
	StatusPacked    OrderStatus = "packed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusAllocated, StatusPicked, StatusPacked, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// Step is a workflow step key. Steps are tenant-configurable; the constants
// below are the ones this engine acts on.
type Step string

const (
	StepAllocate Step = "allocate"
	StepPick     Step = "pick"
	StepPack     Step = "pack"
	StepShip     Step = "ship"
	StepDeliver  Step = "deliver"
	StepComplete Step = "complete"

	// StepReceive is where synthesized return purchase orders start.
	StepReceive Step = "receive"
)

func (s Step) String() string {
	return string(s)
}

// Process types used for workflow definition lookups
const (
	ProcessTypeSalesOrder    = "sales_order"
	ProcessTypePurchaseOrder = "purchase_order"
)

// OrderState is the (status, workflow step) pair of an order
type OrderState struct {
	Status OrderStatus
	Step   Step
}

func (s OrderState) String() string {
	return fmt.Sprintf("(%s, %s)", s.Status, s.Step)
}

// Transition is a confirming transition that advances the workflow step
type Transition string

const (
	TransitionAllocate Transition = "allocate"
	TransitionPick     Transition = "pick"
	TransitionPack     Transition = "pack"
	TransitionShip     Transition = "ship"
	TransitionDeliver  Transition = "deliver"
)

type transitionRule struct {
	from     OrderState
	to       OrderStatus
	document DocumentType
}

var transitionRules = map[Transition]transitionRule{
	TransitionAllocate: {from: OrderState{StatusAllocated, StepAllocate}, to: StatusAllocated},
	TransitionPick:     {from: OrderState{StatusPicked, StepPick}, to: StatusPicked},
	TransitionPack:     {from: OrderState{StatusPicked, StepPack}, to: StatusPacked, document: DocumentTypePack},
	TransitionShip:     {from: OrderState{StatusPacked, StepShip}, to: StatusShipped, document: DocumentTypeShip},
	TransitionDeliver:  {from: OrderState{StatusShipped, StepDeliver}, to: StatusDelivered, document: DocumentTypeDelivery},
}

// ParseTransition parses a transition name
func ParseTransition(s string) (Transition, error) {
	t := Transition(s)
	if _, ok := transitionRules[t]; !ok {
		return "", shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown transition %q", s))
	}
	return t, nil
}

// Precondition returns the state an order must be in for the transition
func (t Transition) Precondition() OrderState {
	return transitionRules[t].from
}

// ResultStatus returns the status an order has after the transition
func (t Transition) ResultStatus() OrderStatus {
	return transitionRules[t].to
}

// Document returns the document type generated by the transition, or "" if none
func (t Transition) Document() DocumentType {
	return transitionRules[t].document
}

func (t Transition) String() string {
	return string(t)
}

// Operation is a recording operation: repeatable within its step and never
// advancing it.
type Operation string

const (
	OperationAllocateLine Operation = "allocate_line"
	OperationDeallocate   Operation = "deallocate"
	OperationPickLine     Operation = "pick_line"
	OperationSavePackages Operation = "save_packages"
)

type operationRule struct {
	step     Step
	statuses []OrderStatus
}

var operationRules = map[Operation]operationRule{
	OperationAllocateLine: {step: StepAllocate, statuses: []OrderStatus{StatusCreated, StatusAllocated}},
	OperationDeallocate:   {step: StepAllocate, statuses: []OrderStatus{StatusAllocated}},
	OperationPickLine:     {step: StepPick, statuses: []OrderStatus{StatusAllocated, StatusPicked}},
	OperationSavePackages: {step: StepPack, statuses: []OrderStatus{StatusPicked}},
}

func (o Operation) String() string {
	return string(o)
}
