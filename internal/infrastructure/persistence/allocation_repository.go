package persistence

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAllocationRepository implements AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// Create inserts an allocation row
func (r *GormAllocationRepository) Create(ctx context.Context, allocation *fulfillment.Allocation) error {
	return r.db.WithContext(ctx).Create(models.AllocationModelFromDomain(allocation)).Error
}

// FindByID finds an allocation within a tenant
func (r *GormAllocationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*fulfillment.Allocation, error) {
	var model models.AllocationModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByOrder returns the order's allocations in allocation order
func (r *GormAllocationRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*fulfillment.Allocation, error) {
	var rows []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("order_id = ?", orderID).
		Order("allocated_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*fulfillment.Allocation, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// Delete removes an allocation row
func (r *GormAllocationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		Delete(&models.AllocationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormPickRepository implements PickRepository using GORM. Picks are
// insert-only.
type GormPickRepository struct {
	db *gorm.DB
}

// NewGormPickRepository creates a new GormPickRepository
func NewGormPickRepository(db *gorm.DB) *GormPickRepository {
	return &GormPickRepository{db: db}
}

// Create inserts a pick row
func (r *GormPickRepository) Create(ctx context.Context, pick *fulfillment.Pick) error {
	return r.db.WithContext(ctx).Create(models.PickModelFromDomain(pick)).Error
}

// FindByOrder returns the order's picks oldest first
func (r *GormPickRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*fulfillment.Pick, error) {
	var rows []models.PickModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("order_id = ?", orderID).
		Order("picked_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*fulfillment.Pick, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

var (
	_ fulfillment.AllocationRepository = (*GormAllocationRepository)(nil)
	_ fulfillment.PickRepository       = (*GormPickRepository)(nil)
)
