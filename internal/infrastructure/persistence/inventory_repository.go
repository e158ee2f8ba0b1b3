package persistence

import (
	"context"
	"time"

	"github.com/erp/fulfillment/internal/domain/inventory"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item within a tenant
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds an inventory item holding a row lock on Postgres
func (r *GormInventoryItemRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	return r.find(lockForUpdate(r.db.WithContext(ctx)), tenantID, id)
}

func (r *GormInventoryItemRepository) find(db *gorm.DB, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := db.Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByWarehouseAndProduct returns every stock record of a product in a warehouse
func (r *GormInventoryItemRepository) FindByWarehouseAndProduct(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) ([]inventory.InventoryItem, error) {
	var rows []models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		Order("created_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.InventoryItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Create inserts a new inventory item
func (r *GormInventoryItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Create(models.InventoryItemModelFromDomain(item)).Error
}

// SaveWithLock writes the quantities only if the stored version still
// matches the loaded one, then advances the version.
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.InventoryItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version).
		Updates(map[string]any{
			"on_hand_quantity":  item.OnHandQuantity,
			"reserved_quantity": item.ReservedQuantity,
			"unit_cost":         item.UnitCost,
			"version":           item.Version + 1,
			"updated_at":        now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	item.Version++
	item.UpdatedAt = now
	return nil
}

var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
