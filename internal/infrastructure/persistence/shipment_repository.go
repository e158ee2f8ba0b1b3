package persistence

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShipmentRepository implements ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// Create inserts a shipment. A second shipment for the same order violates
// the unique order index and is reported as a ConflictError.
func (r *GormShipmentRepository) Create(ctx context.Context, shipment *fulfillment.Shipment) error {
	if err := r.db.WithContext(ctx).Create(models.ShipmentModelFromDomain(shipment)).Error; err != nil {
		return conflict(err, "shipment for order "+shipment.OrderID.String())
	}
	return nil
}

// FindByOrder returns the order's shipment
func (r *GormShipmentRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*fulfillment.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("order_id = ?", orderID).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Update writes the mutable shipment columns
func (r *GormShipmentRepository) Update(ctx context.Context, shipment *fulfillment.Shipment) error {
	result := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("id = ? AND tenant_id = ?", shipment.ID, shipment.TenantID).
		Updates(map[string]any{
			"status":          string(shipment.Status),
			"tracking_number": shipment.TrackingNumber,
			"shipping_method": shipment.ShippingMethod,
			"delivered_at":    shipment.DeliveredAt,
			"document_id":     shipment.DocumentID,
			"updated_at":      shipment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormDeliveryRepository implements DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Create inserts a delivery with its items. The unique shipment index turns
// a duplicate delivery into a ConflictError.
func (r *GormDeliveryRepository) Create(ctx context.Context, delivery *fulfillment.Delivery) error {
	if err := r.db.WithContext(ctx).Create(models.DeliveryModelFromDomain(delivery)).Error; err != nil {
		return conflict(err, "delivery for shipment "+delivery.ShipmentID.String())
	}
	return nil
}

// FindByShipment returns the shipment's delivery with its items
func (r *GormDeliveryRepository) FindByShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (*fulfillment.Delivery, error) {
	var model models.DeliveryModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Scopes(tenantScope(tenantID)).
		Where("shipment_id = ?", shipmentID).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

var (
	_ fulfillment.ShipmentRepository = (*GormShipmentRepository)(nil)
	_ fulfillment.DeliveryRepository = (*GormDeliveryRepository)(nil)
)
