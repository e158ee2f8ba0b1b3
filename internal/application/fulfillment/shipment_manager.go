package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"go.uber.org/zap"
)

// ShipmentManager hands packed orders to a carrier. Inventory is not touched
// here; stock left the bins at pick time.
type ShipmentManager struct {
	docs   *DocumentService
	logger *zap.Logger
}

// NewShipmentManager creates a new ShipmentManager
func NewShipmentManager(docs *DocumentService, logger *zap.Logger) *ShipmentManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShipmentManager{docs: docs, logger: logger}
}

// ConfirmShip creates the order's only shipment, numbered with the issued
// SHIP document number, and links every package to it with its delivery location.
func (m *ShipmentManager) ConfirmShip(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, payload *ShipPayload, next fulfillment.Step) (*fulfillment.Shipment, *fulfillment.FulfillmentDocument, error) {
	if payload == nil {
		return nil, nil, shared.NewDomainError("INVALID_INPUT", "Ship transition requires carrier details and package locations")
	}
	if err := order.CheckTransition(fulfillment.TransitionShip); err != nil {
		return nil, nil, err
	}

	existing, err := repos.ShipmentRepo().FindByOrder(ctx, order.TenantID, order.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, fmt.Errorf("load shipment: %w", err)
	}
	if existing != nil {
		return nil, nil, &fulfillment.ConflictError{Resource: "shipment for order " + order.OrderNumber}
	}

	packages, err := repos.PackageRepo().FindByOrder(ctx, order.TenantID, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load packages: %w", err)
	}
	if err := fulfillment.AssignLocations(order.ID, packages, payload.Assignments); err != nil {
		return nil, nil, err
	}

	issued, err := m.docs.IssueNumber(ctx, order, fulfillment.DocumentTypeShip)
	if err != nil {
		return nil, nil, err
	}
	shipment, err := fulfillment.NewShipment(order, issued.DocumentNumber, payload.Details, time.Now())
	if err != nil {
		return nil, nil, err
	}
	if err := order.Advance(fulfillment.TransitionShip, next); err != nil {
		return nil, nil, err
	}
	if payload.Details.TrackingNumber != "" {
		order.TrackingNumber = payload.Details.TrackingNumber
	}
	if payload.Details.ShippingMethod != "" {
		order.ShippingMethod = payload.Details.ShippingMethod
	}

	docPayload := newDocumentPayload(fulfillment.DocumentTypeShip, issued.DocumentNumber, order).
		withPackages(packages).
		withShipment(shipment)
	doc, err := m.docs.Record(ctx, repos, order, issued, docPayload)
	if err != nil {
		return nil, nil, err
	}
	shipment.DocumentID = &doc.ID

	if err := repos.ShipmentRepo().Create(ctx, shipment); err != nil {
		return nil, nil, fmt.Errorf("create shipment: %w", err)
	}
	if err := repos.PackageRepo().AttachToShipment(ctx, shipment.ID, packages); err != nil {
		return nil, nil, fmt.Errorf("attach packages: %w", err)
	}
	order.AddDomainEvent(fulfillment.NewOrderShippedEvent(order, shipment))

	m.logger.Info("shipment created",
		zap.String("order_id", order.ID.String()),
		zap.String("shipment_number", shipment.ShipmentNumber),
		zap.String("carrier", shipment.Carrier),
		zap.Int("packages", len(packages)),
	)
	return shipment, doc, nil
}
