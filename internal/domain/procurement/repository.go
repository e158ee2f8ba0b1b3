package procurement

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	// Create inserts the order with its items
	Create(ctx context.Context, order *PurchaseOrder) error

	// FindByID loads an order with its items within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// CountByNumberPrefix counts orders whose number starts with prefix
	CountByNumberPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error)
}
