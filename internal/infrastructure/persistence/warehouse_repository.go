package persistence

import (
	"context"
	"errors"

	"github.com/erp/fulfillment/internal/domain/inventory"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseRepository reads warehouse reference data using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindDefault returns the warehouse flagged default, else the first active
// warehouse by code. shared.ErrNotFound when the tenant has neither.
func (r *GormWarehouseRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*inventory.Warehouse, error) {
	var model models.WarehouseModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("is_default = ? AND is_active = ?", true, true).
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("is_active = ?", true).
		Order("code").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByID finds a warehouse within a tenant
func (r *GormWarehouseRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Warehouse, error) {
	var model models.WarehouseModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Create inserts a warehouse; used by seeding and tests
func (r *GormWarehouseRepository) Create(ctx context.Context, warehouse *inventory.Warehouse) error {
	if err := r.db.WithContext(ctx).Create(models.WarehouseModelFromDomain(warehouse)).Error; err != nil {
		return conflict(err, "warehouse "+warehouse.Code)
	}
	return nil
}

var _ inventory.WarehouseRepository = (*GormWarehouseRepository)(nil)
