package inventory

import (
	"context"

	"github.com/google/uuid"
)

// InventoryItemRepository defines the ledger accessor used by fulfillment
type InventoryItemRepository interface {
	// FindByID finds an inventory item within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindByIDForUpdate is FindByID with a row lock where the database supports it
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindByWarehouseAndProduct returns every stock record of a product in a warehouse
	FindByWarehouseAndProduct(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) ([]InventoryItem, error)

	// Create inserts a new inventory item
	Create(ctx context.Context, item *InventoryItem) error

	// SaveWithLock updates quantities, failing with shared.ErrConcurrencyConflict
	// when the stored version no longer matches.
	SaveWithLock(ctx context.Context, item *InventoryItem) error
}

// WarehouseRepository reads warehouse reference data
type WarehouseRepository interface {
	// FindDefault returns the tenant's warehouse flagged default, else the
	// first active warehouse ordered by code.
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Warehouse, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)
}
