package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStatsProvider reads gauge values straight from the fulfillment tables.
type GormStatsProvider struct {
	db *gorm.DB
}

// NewGormStatsProvider creates a GormStatsProvider
func NewGormStatsProvider(db *gorm.DB) *GormStatsProvider {
	return &GormStatsProvider{db: db}
}

// ActiveTenantIDs returns tenants that have at least one sales order.
func (p *GormStatsProvider) ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("sales_orders").
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}

// PendingDocumentsByType counts documents still waiting for a render.
func (p *GormStatsProvider) PendingDocumentsByType(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	type row struct {
		DocumentType string `gorm:"column:document_type"`
		Count        int64  `gorm:"column:count"`
	}
	var rows []row
	err := p.db.WithContext(ctx).
		Table("fulfillment_documents").
		Select("document_type, COUNT(*) AS count").
		Where("tenant_id = ? AND status = ?", tenantID, "pending").
		Group("document_type").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.DocumentType] = r.Count
	}
	return m, nil
}

// ReservedQuantityByWarehouse sums reserved stock per warehouse, truncated
// to whole units.
func (p *GormStatsProvider) ReservedQuantityByWarehouse(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		WarehouseID uuid.UUID `gorm:"column:warehouse_id"`
		Reserved    float64   `gorm:"column:reserved"`
	}
	var rows []row
	err := p.db.WithContext(ctx).
		Table("inventory_items").
		Select("warehouse_id, COALESCE(SUM(reserved_quantity), 0) AS reserved").
		Where("tenant_id = ?", tenantID).
		Group("warehouse_id").
		Having("SUM(reserved_quantity) > 0").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		m[r.WarehouseID] = int64(r.Reserved)
	}
	return m, nil
}

// OutboxBacklog counts undelivered outbox entries per status.
func (p *GormStatsProvider) OutboxBacklog(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}
	var rows []row
	err := p.db.WithContext(ctx).
		Table("outbox_entries").
		Select("status, COUNT(*) AS count").
		Where("status IN ?", []string{"PENDING", "FAILED", "DEAD"}).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.Status] = r.Count
	}
	return m, nil
}
