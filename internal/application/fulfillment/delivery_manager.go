package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryManager finalizes a shipment as fully or partially accepted
type DeliveryManager struct {
	docs   *DocumentService
	logger *zap.Logger
}

// NewDeliveryManager creates a new DeliveryManager
func NewDeliveryManager(docs *DocumentService, logger *zap.Logger) *DeliveryManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryManager{docs: docs, logger: logger}
}

// ExistingDelivery returns AlreadyDeliveredError when the order's shipment
// already has a delivery. Orders without a shipment pass.
func (m *DeliveryManager) ExistingDelivery(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder) error {
	shipment, err := repos.ShipmentRepo().FindByOrder(ctx, order.TenantID, order.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load shipment: %w", err)
	}
	delivery, err := repos.DeliveryRepo().FindByShipment(ctx, order.TenantID, shipment.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load delivery: %w", err)
	}
	return &fulfillment.AlreadyDeliveredError{ShipmentID: shipment.ID, DeliveryID: delivery.ID}
}

// ConfirmDelivery creates the shipment's single delivery. A second call for
// the same shipment fails with AlreadyDeliveredError. In partial mode
// rejected lines raise PartialDeliveryRejected carrying a pre-assigned return
// order ID, which the delivery links to.
func (m *DeliveryManager) ConfirmDelivery(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, payload *DeliverPayload, next fulfillment.Step) (*fulfillment.Delivery, *fulfillment.FulfillmentDocument, error) {
	if payload == nil {
		return nil, nil, shared.NewDomainError("INVALID_INPUT", "Deliver transition requires recipient details")
	}
	if err := m.ExistingDelivery(ctx, repos, order); err != nil {
		return nil, nil, err
	}
	if err := order.CheckTransition(fulfillment.TransitionDeliver); err != nil {
		return nil, nil, err
	}

	shipment, err := repos.ShipmentRepo().FindByOrder(ctx, order.TenantID, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load shipment: %w", err)
	}
	packages, err := repos.PackageRepo().FindByOrder(ctx, order.TenantID, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load packages: %w", err)
	}
	shipped := make([]*fulfillment.Package, 0, len(packages))
	for _, pkg := range packages {
		if pkg.ShipmentID != nil && *pkg.ShipmentID == shipment.ID {
			shipped = append(shipped, pkg)
		}
	}

	var delivery *fulfillment.Delivery
	switch payload.Mode {
	case fulfillment.DeliveryModeFull, "":
		delivery, err = fulfillment.NewFullDelivery(order, shipment, shipped, payload.Recipient)
	case fulfillment.DeliveryModePartial:
		delivery, err = fulfillment.NewPartialDelivery(order, shipment, shipped, payload.Recipient, payload.Splits)
	default:
		err = shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown delivery mode %q", payload.Mode))
	}
	if err != nil {
		return nil, nil, err
	}

	if delivery.TotalRejected().IsPositive() {
		returnOrderID := uuid.New()
		delivery.LinkReturnOrder(returnOrderID)
		order.AddDomainEvent(fulfillment.NewPartialDeliveryRejectedEvent(order, delivery, returnOrderID))
	}

	issued, err := m.docs.IssueNumber(ctx, order, fulfillment.DocumentTypeDelivery)
	if err != nil {
		return nil, nil, err
	}
	if err := shipment.MarkDelivered(delivery.DeliveryDate); err != nil {
		return nil, nil, err
	}
	if err := order.Advance(fulfillment.TransitionDeliver, next); err != nil {
		return nil, nil, err
	}

	if err := repos.DeliveryRepo().Create(ctx, delivery); err != nil {
		var conflict *fulfillment.ConflictError
		if errors.As(err, &conflict) {
			return nil, nil, &fulfillment.AlreadyDeliveredError{ShipmentID: shipment.ID}
		}
		return nil, nil, fmt.Errorf("create delivery: %w", err)
	}
	if err := repos.ShipmentRepo().Update(ctx, shipment); err != nil {
		return nil, nil, fmt.Errorf("update shipment: %w", err)
	}

	docPayload := newDocumentPayload(fulfillment.DocumentTypeDelivery, issued.DocumentNumber, order).
		withShipment(shipment).
		withDelivery(delivery)
	doc, err := m.docs.Record(ctx, repos, order, issued, docPayload)
	if err != nil {
		return nil, nil, err
	}
	order.AddDomainEvent(fulfillment.NewOrderDeliveredEvent(order, delivery))

	m.logger.Info("delivery confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("status", string(delivery.Status)),
		zap.String("rejected", delivery.TotalRejected().String()),
	)
	return delivery, doc, nil
}
