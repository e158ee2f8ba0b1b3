package persistence

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/procurement"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Create inserts the order with its items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *procurement.PurchaseOrder) error {
	if err := r.db.WithContext(ctx).Create(models.PurchaseOrderModelFromDomain(order)).Error; err != nil {
		return conflict(err, "purchase order "+order.OrderNumber)
	}
	return nil
}

// FindByID loads an order with its items within a tenant
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_number") }).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// CountByNumberPrefix counts orders whose number starts with prefix
func (r *GormPurchaseOrderRepository) CountByNumberPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Scopes(tenantScope(tenantID)).
		Where("order_number LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Count(&count).Error
	return count, err
}

// escapeLike neutralises LIKE wildcards in a literal prefix
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
