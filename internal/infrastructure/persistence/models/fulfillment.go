package models

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderModel is the persistence model for the SalesOrder aggregate root
type SalesOrderModel struct {
	TenantAggregateModel
	OrderNumber           string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_order_tenant_number,priority:2"`
	CustomerID            uuid.UUID             `gorm:"type:uuid;not null;index"`
	ShippingLocationID    *uuid.UUID            `gorm:"type:uuid"`
	ShippingMethod        string                `gorm:"type:varchar(50)"`
	OrderDate             time.Time             `gorm:"not null"`
	RequestedDeliveryDate *time.Time            `gorm:"type:date"`
	Status                string                `gorm:"type:varchar(20);not null;default:'created';index"`
	WorkflowState         string                `gorm:"type:varchar(50);not null;default:'allocate'"`
	TotalAmount           decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TrackingNumber        string                `gorm:"type:varchar(100)"`
	Notes                 string                `gorm:"type:text"`
	Items                 []SalesOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder
func (m *SalesOrderModel) ToDomain() *fulfillment.SalesOrder {
	order := &fulfillment.SalesOrder{
		TenantAggregateRoot:   m.ToDomainTenantAggregateRoot(),
		OrderNumber:           m.OrderNumber,
		CustomerID:            m.CustomerID,
		ShippingLocationID:    m.ShippingLocationID,
		ShippingMethod:        m.ShippingMethod,
		OrderDate:             m.OrderDate,
		RequestedDeliveryDate: m.RequestedDeliveryDate,
		Status:                fulfillment.OrderStatus(m.Status),
		WorkflowState:         fulfillment.Step(m.WorkflowState),
		TotalAmount:           m.TotalAmount,
		TrackingNumber:        m.TrackingNumber,
		Notes:                 m.Notes,
		Items:                 make([]fulfillment.SalesOrderItem, len(m.Items)),
	}
	for i := range m.Items {
		order.Items[i] = m.Items[i].ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain SalesOrder
func (m *SalesOrderModel) FromDomain(o *fulfillment.SalesOrder) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.ShippingLocationID = o.ShippingLocationID
	m.ShippingMethod = o.ShippingMethod
	m.OrderDate = o.OrderDate
	m.RequestedDeliveryDate = o.RequestedDeliveryDate
	m.Status = string(o.Status)
	m.WorkflowState = string(o.WorkflowState)
	m.TotalAmount = o.TotalAmount
	m.TrackingNumber = o.TrackingNumber
	m.Notes = o.Notes
	m.Items = make([]SalesOrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
}

// SalesOrderItemModel is the persistence model for an order line
type SalesOrderItemModel struct {
	BaseModel
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sales_order_item_line,priority:1"`
	LineNumber        int             `gorm:"not null;uniqueIndex:idx_sales_order_item_line,priority:2"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderedQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AllocatedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PickedQuantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the persistence model to a domain SalesOrderItem
func (m *SalesOrderItemModel) ToDomain() fulfillment.SalesOrderItem {
	return fulfillment.SalesOrderItem{
		ID:                m.ID,
		OrderID:           m.OrderID,
		LineNumber:        m.LineNumber,
		ProductID:         m.ProductID,
		OrderedQuantity:   m.OrderedQuantity,
		AllocatedQuantity: m.AllocatedQuantity,
		PickedQuantity:    m.PickedQuantity,
		UnitPrice:         m.UnitPrice,
		LineTotal:         m.LineTotal,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SalesOrderItem
func (m *SalesOrderItemModel) FromDomain(i *fulfillment.SalesOrderItem) {
	m.ID = i.ID
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
	m.OrderID = i.OrderID
	m.LineNumber = i.LineNumber
	m.ProductID = i.ProductID
	m.OrderedQuantity = i.OrderedQuantity
	m.AllocatedQuantity = i.AllocatedQuantity
	m.PickedQuantity = i.PickedQuantity
	m.UnitPrice = i.UnitPrice
	m.LineTotal = i.LineTotal
}

// AllocationModel is the persistence model for an allocation row
type AllocationModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AllocatedBy     *uuid.UUID      `gorm:"type:uuid"`
	AllocatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AllocationModel) TableName() string {
	return "allocations"
}

// ToDomain converts the persistence model to a domain Allocation
func (m *AllocationModel) ToDomain() *fulfillment.Allocation {
	return &fulfillment.Allocation{
		ID:              m.ID,
		TenantID:        m.TenantID,
		OrderID:         m.OrderID,
		OrderItemID:     m.OrderItemID,
		InventoryItemID: m.InventoryItemID,
		Quantity:        m.Quantity,
		AllocatedBy:     m.AllocatedBy,
		AllocatedAt:     m.AllocatedAt,
	}
}

// AllocationModelFromDomain creates a persistence model from a domain Allocation
func AllocationModelFromDomain(a *fulfillment.Allocation) *AllocationModel {
	return &AllocationModel{
		ID:              a.ID,
		TenantID:        a.TenantID,
		OrderID:         a.OrderID,
		OrderItemID:     a.OrderItemID,
		InventoryItemID: a.InventoryItemID,
		Quantity:        a.Quantity,
		AllocatedBy:     a.AllocatedBy,
		AllocatedAt:     a.AllocatedAt,
	}
}

// PickModel is the persistence model for an immutable pick row
type PickModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Batch           string          `gorm:"type:varchar(50)"`
	Lot             string          `gorm:"type:varchar(50)"`
	Serial          string          `gorm:"type:varchar(100)"`
	PickedBy        *uuid.UUID      `gorm:"type:uuid"`
	PickedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PickModel) TableName() string {
	return "picks"
}

// ToDomain converts the persistence model to a domain Pick
func (m *PickModel) ToDomain() *fulfillment.Pick {
	return &fulfillment.Pick{
		ID:              m.ID,
		TenantID:        m.TenantID,
		OrderID:         m.OrderID,
		OrderItemID:     m.OrderItemID,
		InventoryItemID: m.InventoryItemID,
		Quantity:        m.Quantity,
		Batch:           m.Batch,
		Lot:             m.Lot,
		Serial:          m.Serial,
		PickedBy:        m.PickedBy,
		PickedAt:        m.PickedAt,
	}
}

// PickModelFromDomain creates a persistence model from a domain Pick
func PickModelFromDomain(p *fulfillment.Pick) *PickModel {
	return &PickModel{
		ID:              p.ID,
		TenantID:        p.TenantID,
		OrderID:         p.OrderID,
		OrderItemID:     p.OrderItemID,
		InventoryItemID: p.InventoryItemID,
		Quantity:        p.Quantity,
		Batch:           p.Batch,
		Lot:             p.Lot,
		Serial:          p.Serial,
		PickedBy:        p.PickedBy,
		PickedAt:        p.PickedAt,
	}
}

// PackageModel is the persistence model for a package
type PackageModel struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey"`
	TenantID           uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_package_tenant_number,priority:1"`
	OrderID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	ShipmentID         *uuid.UUID         `gorm:"type:uuid;index"`
	PackageNumber      string             `gorm:"type:varchar(80);not null;uniqueIndex:idx_package_tenant_number,priority:2"`
	Length             decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Width              decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Height             decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Weight             decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Barcode            string             `gorm:"type:varchar(100)"`
	DeliveryLocationID *uuid.UUID         `gorm:"type:uuid"`
	CreatedAt          time.Time          `gorm:"not null"`
	Items              []PackageItemModel `gorm:"foreignKey:PackageID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PackageModel) TableName() string {
	return "packages"
}

// ToDomain converts the persistence model to a domain Package
func (m *PackageModel) ToDomain() *fulfillment.Package {
	pkg := &fulfillment.Package{
		ID:                 m.ID,
		TenantID:           m.TenantID,
		OrderID:            m.OrderID,
		ShipmentID:         m.ShipmentID,
		PackageNumber:      m.PackageNumber,
		Length:             m.Length,
		Width:              m.Width,
		Height:             m.Height,
		Weight:             m.Weight,
		Barcode:            m.Barcode,
		DeliveryLocationID: m.DeliveryLocationID,
		CreatedAt:          m.CreatedAt,
		Items:              make([]fulfillment.PackageItem, len(m.Items)),
	}
	for i, item := range m.Items {
		pkg.Items[i] = fulfillment.PackageItem{
			ID:          item.ID,
			PackageID:   item.PackageID,
			OrderItemID: item.OrderItemID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
		}
	}
	return pkg
}

// PackageModelFromDomain creates a persistence model from a domain Package
func PackageModelFromDomain(p *fulfillment.Package) *PackageModel {
	m := &PackageModel{
		ID:                 p.ID,
		TenantID:           p.TenantID,
		OrderID:            p.OrderID,
		ShipmentID:         p.ShipmentID,
		PackageNumber:      p.PackageNumber,
		Length:             p.Length,
		Width:              p.Width,
		Height:             p.Height,
		Weight:             p.Weight,
		Barcode:            p.Barcode,
		DeliveryLocationID: p.DeliveryLocationID,
		CreatedAt:          p.CreatedAt,
		Items:              make([]PackageItemModel, len(p.Items)),
	}
	for i, item := range p.Items {
		m.Items[i] = PackageItemModel{
			ID:          item.ID,
			PackageID:   p.ID,
			OrderItemID: item.OrderItemID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
		}
	}
	return m
}

// PackageItemModel is one order line quantity inside a package
type PackageItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PackageID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PackageItemModel) TableName() string {
	return "package_items"
}

// ShipmentModel is the persistence model for a shipment. The unique order
// index enforces one shipment per order.
type ShipmentModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shipment_tenant_number,priority:1"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ShipmentNumber string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_shipment_tenant_number,priority:2"`
	Carrier        string    `gorm:"type:varchar(100);not null"`
	ShippingMethod string    `gorm:"type:varchar(50)"`
	TrackingNumber string    `gorm:"type:varchar(100)"`
	Status         string    `gorm:"type:varchar(20);not null"`
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	Cost           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DocumentID     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment
func (m *ShipmentModel) ToDomain() *fulfillment.Shipment {
	return &fulfillment.Shipment{
		ID:             m.ID,
		TenantID:       m.TenantID,
		OrderID:        m.OrderID,
		ShipmentNumber: m.ShipmentNumber,
		Carrier:        m.Carrier,
		ShippingMethod: m.ShippingMethod,
		TrackingNumber: m.TrackingNumber,
		Status:         fulfillment.ShipmentStatus(m.Status),
		ShippedAt:      m.ShippedAt,
		DeliveredAt:    m.DeliveredAt,
		Cost:           m.Cost,
		DocumentID:     m.DocumentID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ShipmentModelFromDomain creates a persistence model from a domain Shipment
func ShipmentModelFromDomain(s *fulfillment.Shipment) *ShipmentModel {
	return &ShipmentModel{
		ID:             s.ID,
		TenantID:       s.TenantID,
		OrderID:        s.OrderID,
		ShipmentNumber: s.ShipmentNumber,
		Carrier:        s.Carrier,
		ShippingMethod: s.ShippingMethod,
		TrackingNumber: s.TrackingNumber,
		Status:         string(s.Status),
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
		Cost:           s.Cost,
		DocumentID:     s.DocumentID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// DeliveryModel is the persistence model for a delivery. The unique shipment
// index makes a second delivery of the same shipment a constraint violation.
type DeliveryModel struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	ShipmentID    uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	Status        string              `gorm:"type:varchar(20);not null"`
	DeliveryDate  time.Time           `gorm:"not null"`
	RecipientName string              `gorm:"type:varchar(200);not null"`
	Notes         string              `gorm:"type:text"`
	ReturnOrderID *uuid.UUID          `gorm:"type:uuid"`
	CreatedAt     time.Time           `gorm:"not null"`
	Items         []DeliveryItemModel `gorm:"foreignKey:DeliveryID;references:ID"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "deliveries"
}

// ToDomain converts the persistence model to a domain Delivery
func (m *DeliveryModel) ToDomain() *fulfillment.Delivery {
	d := &fulfillment.Delivery{
		ID:            m.ID,
		TenantID:      m.TenantID,
		OrderID:       m.OrderID,
		ShipmentID:    m.ShipmentID,
		Status:        fulfillment.DeliveryStatus(m.Status),
		DeliveryDate:  m.DeliveryDate,
		RecipientName: m.RecipientName,
		Notes:         m.Notes,
		ReturnOrderID: m.ReturnOrderID,
		CreatedAt:     m.CreatedAt,
		Items:         make([]fulfillment.DeliveryItem, len(m.Items)),
	}
	for i, item := range m.Items {
		d.Items[i] = fulfillment.DeliveryItem{
			ID:               item.ID,
			DeliveryID:       item.DeliveryID,
			OrderItemID:      item.OrderItemID,
			ProductID:        item.ProductID,
			ShippedQuantity:  item.ShippedQuantity,
			AcceptedQuantity: item.AcceptedQuantity,
			RejectedQuantity: item.RejectedQuantity,
			RejectionNotes:   item.RejectionNotes,
		}
	}
	return d
}

// DeliveryModelFromDomain creates a persistence model from a domain Delivery
func DeliveryModelFromDomain(d *fulfillment.Delivery) *DeliveryModel {
	m := &DeliveryModel{
		ID:            d.ID,
		TenantID:      d.TenantID,
		OrderID:       d.OrderID,
		ShipmentID:    d.ShipmentID,
		Status:        string(d.Status),
		DeliveryDate:  d.DeliveryDate,
		RecipientName: d.RecipientName,
		Notes:         d.Notes,
		ReturnOrderID: d.ReturnOrderID,
		CreatedAt:     d.CreatedAt,
		Items:         make([]DeliveryItemModel, len(d.Items)),
	}
	for i, item := range d.Items {
		m.Items[i] = DeliveryItemModel{
			ID:               item.ID,
			DeliveryID:       d.ID,
			OrderItemID:      item.OrderItemID,
			ProductID:        item.ProductID,
			ShippedQuantity:  item.ShippedQuantity,
			AcceptedQuantity: item.AcceptedQuantity,
			RejectedQuantity: item.RejectedQuantity,
			RejectionNotes:   item.RejectionNotes,
		}
	}
	return m
}

// DeliveryItemModel is the accepted/rejected split of one shipped line
type DeliveryItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DeliveryID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID      uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ShippedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AcceptedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RejectedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RejectionNotes   string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DeliveryItemModel) TableName() string {
	return "delivery_items"
}

// FulfillmentDocumentModel is the persistence model for a generated document record
type FulfillmentDocumentModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_fulfillment_document_number,priority:1"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	DocumentType   string     `gorm:"type:varchar(20);not null"`
	DocumentNumber string     `gorm:"type:varchar(80);not null;uniqueIndex:idx_fulfillment_document_number,priority:2"`
	HistoryID      *uuid.UUID `gorm:"type:uuid"`
	Status         string     `gorm:"type:varchar(20);not null;index"`
	StoragePath    string     `gorm:"type:varchar(500)"`
	Attempts       int        `gorm:"not null;default:0"`
	LastError      string     `gorm:"type:text"`
	Payload        []byte     `gorm:"type:jsonb;not null"`
	StoredAt       *time.Time
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FulfillmentDocumentModel) TableName() string {
	return "fulfillment_documents"
}

// ToDomain converts the persistence model to a domain FulfillmentDocument
func (m *FulfillmentDocumentModel) ToDomain() *fulfillment.FulfillmentDocument {
	return &fulfillment.FulfillmentDocument{
		ID:             m.ID,
		TenantID:       m.TenantID,
		OrderID:        m.OrderID,
		Type:           fulfillment.DocumentType(m.DocumentType),
		DocumentNumber: m.DocumentNumber,
		HistoryID:      m.HistoryID,
		Status:         fulfillment.DocumentStatus(m.Status),
		StoragePath:    m.StoragePath,
		Attempts:       m.Attempts,
		LastError:      m.LastError,
		Payload:        m.Payload,
		StoredAt:       m.StoredAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FulfillmentDocumentModelFromDomain creates a persistence model from a domain document
func FulfillmentDocumentModelFromDomain(d *fulfillment.FulfillmentDocument) *FulfillmentDocumentModel {
	return &FulfillmentDocumentModel{
		ID:             d.ID,
		TenantID:       d.TenantID,
		OrderID:        d.OrderID,
		DocumentType:   string(d.Type),
		DocumentNumber: d.DocumentNumber,
		HistoryID:      d.HistoryID,
		Status:         string(d.Status),
		StoragePath:    d.StoragePath,
		Attempts:       d.Attempts,
		LastError:      d.LastError,
		Payload:        d.Payload,
		StoredAt:       d.StoredAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
