package persistence

import (
	"context"
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID loads an order with its items within a tenant
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*fulfillment.SalesOrder, error) {
	return r.find(ctx, false, tenantID, id)
}

// FindByIDForUpdate loads the order holding a row lock on Postgres
func (r *GormSalesOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*fulfillment.SalesOrder, error) {
	return r.find(ctx, true, tenantID, id)
}

func (r *GormSalesOrderRepository) find(ctx context.Context, forUpdate bool, tenantID, id uuid.UUID) (*fulfillment.SalesOrder, error) {
	db := r.db.WithContext(ctx)
	if forUpdate {
		db = lockForUpdate(db)
	}
	var model models.SalesOrderModel
	if err := db.Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	// Items are loaded separately so the row lock stays on the header only
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", model.ID).
		Order("line_number").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a new order and its items
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *fulfillment.SalesOrder) error {
	model := &models.SalesOrderModel{}
	model.FromDomain(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return conflict(err, "sales order "+order.OrderNumber)
	}
	return nil
}

// SaveState writes the header only while the row still holds prev at the
// loaded version. Zero affected rows means another transition won.
func (r *GormSalesOrderRepository) SaveState(ctx context.Context, order *fulfillment.SalesOrder, prev fulfillment.OrderState) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Where("id = ? AND tenant_id = ? AND version = ? AND status = ? AND workflow_state = ?",
			order.ID, order.TenantID, order.Version, string(prev.Status), string(prev.Step)).
		Updates(map[string]any{
			"status":          string(order.Status),
			"workflow_state":  string(order.WorkflowState),
			"tracking_number": order.TrackingNumber,
			"shipping_method": order.ShippingMethod,
			"version":         order.Version + 1,
			"updated_at":      now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	order.Version++
	order.UpdatedAt = now
	return nil
}

// SaveItems updates allocated and picked quantities of the given lines
func (r *GormSalesOrderRepository) SaveItems(ctx context.Context, items ...*fulfillment.SalesOrderItem) error {
	for _, item := range items {
		result := r.db.WithContext(ctx).
			Model(&models.SalesOrderItemModel{}).
			Where("id = ? AND order_id = ?", item.ID, item.OrderID).
			Updates(map[string]any{
				"allocated_quantity": item.AllocatedQuantity,
				"picked_quantity":    item.PickedQuantity,
				"updated_at":         item.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
	}
	return nil
}

var _ fulfillment.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
