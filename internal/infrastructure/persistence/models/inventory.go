package models

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseModel is the persistence model for warehouse reference data
type WarehouseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_tenant_code,priority:1"`
	Code      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_warehouse_tenant_code,priority:2"`
	Name      string    `gorm:"type:varchar(200);not null"`
	IsDefault bool      `gorm:"not null;default:false"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse
func (m *WarehouseModel) ToDomain() *inventory.Warehouse {
	return &inventory.Warehouse{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Code:      m.Code,
		Name:      m.Name,
		IsDefault: m.IsDefault,
		IsActive:  m.IsActive,
	}
}

// WarehouseModelFromDomain creates a persistence model from a domain Warehouse
func WarehouseModelFromDomain(w *inventory.Warehouse) *WarehouseModel {
	now := time.Now()
	return &WarehouseModel{
		ID:        w.ID,
		TenantID:  w.TenantID,
		Code:      w.Code,
		Name:      w.Name,
		IsDefault: w.IsDefault,
		IsActive:  w.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// InventoryItemModel is the persistence model for a stock record
type InventoryItemModel struct {
	TenantAggregateModel
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_warehouse_product,priority:2"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_warehouse_product,priority:1"`
	BinID            *uuid.UUID      `gorm:"type:uuid"`
	Batch            string          `gorm:"type:varchar(50)"`
	Lot              string          `gorm:"type:varchar(50)"`
	ExpiryDate       *time.Time      `gorm:"type:date"`
	OnHandQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	return &inventory.InventoryItem{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ProductID:           m.ProductID,
		WarehouseID:         m.WarehouseID,
		BinID:               m.BinID,
		Batch:               m.Batch,
		Lot:                 m.Lot,
		ExpiryDate:          m.ExpiryDate,
		OnHandQuantity:      m.OnHandQuantity,
		ReservedQuantity:    m.ReservedQuantity,
		UnitCost:            m.UnitCost,
	}
}

// InventoryItemModelFromDomain creates a persistence model from a domain InventoryItem
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{
		ProductID:        i.ProductID,
		WarehouseID:      i.WarehouseID,
		BinID:            i.BinID,
		Batch:            i.Batch,
		Lot:              i.Lot,
		ExpiryDate:       i.ExpiryDate,
		OnHandQuantity:   i.OnHandQuantity,
		ReservedQuantity: i.ReservedQuantity,
		UnitCost:         i.UnitCost,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}
