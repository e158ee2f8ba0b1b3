package models

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for a purchase order header
type PurchaseOrderModel struct {
	TenantAggregateModel
	OrderNumber      string                   `gorm:"type:varchar(80);not null;uniqueIndex:idx_purchase_order_tenant_number,priority:2"`
	SupplierID       *uuid.UUID               `gorm:"type:uuid;index"`
	IsReturn         bool                     `gorm:"not null;default:false"`
	Status           string                   `gorm:"type:varchar(20);not null;index"`
	WorkflowState    string                   `gorm:"type:varchar(50);not null"`
	WarehouseID      uuid.UUID                `gorm:"type:uuid;not null"`
	SourceOrderID    *uuid.UUID               `gorm:"type:uuid;index"`
	SourceDeliveryID *uuid.UUID               `gorm:"type:uuid"`
	OrderDate        time.Time                `gorm:"not null"`
	TotalAmount      decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Remark           string                   `gorm:"type:text"`
	Items            []PurchaseOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	order := &procurement.PurchaseOrder{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderNumber:         m.OrderNumber,
		SupplierID:          m.SupplierID,
		IsReturn:            m.IsReturn,
		Status:              procurement.PurchaseOrderStatus(m.Status),
		WorkflowState:       m.WorkflowState,
		WarehouseID:         m.WarehouseID,
		SourceOrderID:       m.SourceOrderID,
		SourceDeliveryID:    m.SourceDeliveryID,
		OrderDate:           m.OrderDate,
		TotalAmount:         m.TotalAmount,
		Remark:              m.Remark,
		Items:               make([]procurement.PurchaseOrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = procurement.PurchaseOrderItem{
			ID:                item.ID,
			OrderID:           item.OrderID,
			LineNumber:        item.LineNumber,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			UnitCost:          item.UnitCost,
			Amount:            item.Amount,
			SourceOrderItemID: item.SourceOrderItemID,
			Remark:            item.Remark,
		}
	}
	return order
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain PurchaseOrder
func PurchaseOrderModelFromDomain(o *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		OrderNumber:      o.OrderNumber,
		SupplierID:       o.SupplierID,
		IsReturn:         o.IsReturn,
		Status:           string(o.Status),
		WorkflowState:    o.WorkflowState,
		WarehouseID:      o.WarehouseID,
		SourceOrderID:    o.SourceOrderID,
		SourceDeliveryID: o.SourceDeliveryID,
		OrderDate:        o.OrderDate,
		TotalAmount:      o.TotalAmount,
		Remark:           o.Remark,
		Items:            make([]PurchaseOrderItemModel, len(o.Items)),
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	for i, item := range o.Items {
		m.Items[i] = PurchaseOrderItemModel{
			ID:                item.ID,
			OrderID:           o.ID,
			LineNumber:        item.LineNumber,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			UnitCost:          item.UnitCost,
			Amount:            item.Amount,
			SourceOrderItemID: item.SourceOrderItemID,
			Remark:            item.Remark,
		}
	}
	return m
}

// PurchaseOrderItemModel is the persistence model for a purchase order line
type PurchaseOrderItemModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber        int             `gorm:"not null"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SourceOrderItemID *uuid.UUID      `gorm:"type:uuid"`
	Remark            string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}
