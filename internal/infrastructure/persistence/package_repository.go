package persistence

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPackageRepository implements PackageRepository using GORM
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a new GormPackageRepository
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// FindByOrder returns the order's packages with their items
func (r *GormPackageRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*fulfillment.Package, error) {
	var rows []models.PackageModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Scopes(tenantScope(tenantID)).
		Where("order_id = ?", orderID).
		Order("package_number").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*fulfillment.Package, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// ReplaceUnshipped deletes the order's packages that are not on a shipment
// and inserts packages in their place, so saving the same layout twice
// leaves one copy.
func (r *GormPackageRepository) ReplaceUnshipped(ctx context.Context, tenantID, orderID uuid.UUID, packages []*fulfillment.Package) error {
	db := r.db.WithContext(ctx)

	var ids []uuid.UUID
	if err := db.Model(&models.PackageModel{}).
		Scopes(tenantScope(tenantID)).
		Where("order_id = ? AND shipment_id IS NULL", orderID).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) > 0 {
		if err := db.Where("package_id IN ?", ids).Delete(&models.PackageItemModel{}).Error; err != nil {
			return err
		}
		if err := db.Where("id IN ?", ids).Delete(&models.PackageModel{}).Error; err != nil {
			return err
		}
	}

	if len(packages) == 0 {
		return nil
	}
	rows := make([]*models.PackageModel, len(packages))
	for i, p := range packages {
		rows[i] = models.PackageModelFromDomain(p)
	}
	if err := db.Create(rows).Error; err != nil {
		return conflict(err, "package number")
	}
	return nil
}

// AttachToShipment links packages to a shipment and stores their delivery locations
func (r *GormPackageRepository) AttachToShipment(ctx context.Context, shipmentID uuid.UUID, packages []*fulfillment.Package) error {
	for _, p := range packages {
		if err := r.db.WithContext(ctx).
			Model(&models.PackageModel{}).
			Where("id = ?", p.ID).
			Updates(map[string]any{
				"shipment_id":          shipmentID,
				"delivery_location_id": p.DeliveryLocationID,
			}).Error; err != nil {
			return err
		}
		p.ShipmentID = &shipmentID
	}
	return nil
}

var _ fulfillment.PackageRepository = (*GormPackageRepository)(nil)
