package fulfillment

import (
	"context"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"go.uber.org/zap"
)

// PackManager groups picked quantities into packages
type PackManager struct {
	docs   *DocumentService
	logger *zap.Logger
}

// NewPackManager creates a new PackManager
func NewPackManager(docs *DocumentService, logger *zap.Logger) *PackManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackManager{docs: docs, logger: logger}
}

// SavePackages replaces every unshipped package of the order with the given
// list. Package numbers depend only on list position, so saving the same
// list twice yields the same rows.
func (m *PackManager) SavePackages(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, specs []fulfillment.PackageSpec) ([]*fulfillment.Package, error) {
	if err := order.CheckOperation(fulfillment.OperationSavePackages); err != nil {
		return nil, err
	}
	packages, err := fulfillment.BuildPackages(order, specs)
	if err != nil {
		return nil, err
	}
	if err := repos.PackageRepo().ReplaceUnshipped(ctx, order.TenantID, order.ID, packages); err != nil {
		return nil, fmt.Errorf("replace packages: %w", err)
	}
	order.Touch()

	m.logger.Info("packages saved",
		zap.String("order_id", order.ID.String()),
		zap.Int("packages", len(packages)),
	)
	return packages, nil
}

// ConfirmPack freezes the packages, advances the order to packed and
// records the pending PACK document.
func (m *PackManager) ConfirmPack(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, next fulfillment.Step) (*fulfillment.FulfillmentDocument, []*fulfillment.Package, error) {
	if err := order.CheckTransition(fulfillment.TransitionPack); err != nil {
		return nil, nil, err
	}
	packages, err := repos.PackageRepo().FindByOrder(ctx, order.TenantID, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load packages: %w", err)
	}
	if len(packages) == 0 {
		return nil, nil, shared.NewDomainError("NO_PACKAGES", "At least one package is required to confirm packing")
	}

	issued, err := m.docs.IssueNumber(ctx, order, fulfillment.DocumentTypePack)
	if err != nil {
		return nil, nil, err
	}
	if err := order.Advance(fulfillment.TransitionPack, next); err != nil {
		return nil, nil, err
	}
	payload := newDocumentPayload(fulfillment.DocumentTypePack, issued.DocumentNumber, order).withPackages(packages)
	doc, err := m.docs.Record(ctx, repos, order, issued, payload)
	if err != nil {
		return nil, nil, err
	}
	order.AddDomainEvent(fulfillment.NewOrderPackedEvent(order, len(packages), issued.DocumentNumber))
	return doc, packages, nil
}
