package persistence

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Create inserts a document record
func (r *GormDocumentRepository) Create(ctx context.Context, doc *fulfillment.FulfillmentDocument) error {
	if err := r.db.WithContext(ctx).Create(models.FulfillmentDocumentModelFromDomain(doc)).Error; err != nil {
		return conflict(err, "document "+doc.DocumentNumber)
	}
	return nil
}

// Update writes the generation outcome of a document
func (r *GormDocumentRepository) Update(ctx context.Context, doc *fulfillment.FulfillmentDocument) error {
	result := r.db.WithContext(ctx).
		Model(&models.FulfillmentDocumentModel{}).
		Where("id = ? AND tenant_id = ?", doc.ID, doc.TenantID).
		Updates(map[string]any{
			"status":       string(doc.Status),
			"storage_path": doc.StoragePath,
			"attempts":     doc.Attempts,
			"last_error":   doc.LastError,
			"stored_at":    doc.StoredAt,
			"updated_at":   doc.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a document within a tenant
func (r *GormDocumentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*fulfillment.FulfillmentDocument, error) {
	var model models.FulfillmentDocumentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByOrder returns the order's documents oldest first
func (r *GormDocumentRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*fulfillment.FulfillmentDocument, error) {
	var rows []models.FulfillmentDocumentModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("order_id = ?", orderID).
		Order("created_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDocuments(rows), nil
}

// FindPending returns pending documents across tenants, oldest first
func (r *GormDocumentRepository) FindPending(ctx context.Context, limit int) ([]*fulfillment.FulfillmentDocument, error) {
	var rows []models.FulfillmentDocumentModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(fulfillment.DocumentStatusPending)).
		Order("created_at, id").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDocuments(rows), nil
}

func toDocuments(rows []models.FulfillmentDocumentModel) []*fulfillment.FulfillmentDocument {
	result := make([]*fulfillment.FulfillmentDocument, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result
}

var _ fulfillment.DocumentRepository = (*GormDocumentRepository)(nil)
