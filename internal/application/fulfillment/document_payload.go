package fulfillment

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentPayload is the data snapshot stored with a document record and
// handed to the renderer. Field names are the template keys.
type DocumentPayload struct {
	DocumentType   string            `json:"document_type"`
	DocumentNumber string            `json:"document_number"`
	IssuedAt       time.Time         `json:"issued_at"`
	Order          OrderSnapshot     `json:"order"`
	Packages       []PackageSnapshot `json:"packages,omitempty"`
	Shipment       *ShipmentSnapshot `json:"shipment,omitempty"`
	Delivery       *DeliverySnapshot `json:"delivery,omitempty"`
}

// OrderSnapshot is the order part of a document payload
type OrderSnapshot struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	OrderDate      time.Time           `json:"order_date"`
	Status         string              `json:"status"`
	WorkflowState  string              `json:"workflow_state"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	Items          []OrderItemSnapshot `json:"items"`
}

// OrderItemSnapshot is one order line in a document payload
type OrderItemSnapshot struct {
	LineNumber        int             `json:"line_number"`
	ProductID         uuid.UUID       `json:"product_id"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
	PickedQuantity    decimal.Decimal `json:"picked_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LineTotal         decimal.Decimal `json:"line_total"`
}

// PackageSnapshot is one package in a document payload
type PackageSnapshot struct {
	PackageNumber      string                `json:"package_number"`
	Weight             decimal.Decimal       `json:"weight"`
	Barcode            string                `json:"barcode,omitempty"`
	DeliveryLocationID *uuid.UUID            `json:"delivery_location_id,omitempty"`
	Items              []PackageItemSnapshot `json:"items"`
}

// PackageItemSnapshot is one package line
type PackageItemSnapshot struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ShipmentSnapshot is the shipment part of a document payload
type ShipmentSnapshot struct {
	ShipmentNumber string          `json:"shipment_number"`
	Carrier        string          `json:"carrier"`
	ShippingMethod string          `json:"shipping_method,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	Status         string          `json:"status"`
	ShippedAt      *time.Time      `json:"shipped_at,omitempty"`
	Cost           decimal.Decimal `json:"cost"`
}

// DeliverySnapshot is the delivery part of a document payload
type DeliverySnapshot struct {
	Status        string                 `json:"status"`
	DeliveryDate  time.Time              `json:"delivery_date"`
	RecipientName string                 `json:"recipient_name"`
	Notes         string                 `json:"notes,omitempty"`
	TotalAccepted decimal.Decimal        `json:"total_accepted"`
	TotalRejected decimal.Decimal        `json:"total_rejected"`
	ReturnOrderID *uuid.UUID             `json:"return_order_id,omitempty"`
	Items         []DeliveryItemSnapshot `json:"items"`
}

// DeliveryItemSnapshot is one delivery line
type DeliveryItemSnapshot struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ShippedQuantity  decimal.Decimal `json:"shipped_quantity"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
	RejectionNotes   string          `json:"rejection_notes,omitempty"`
}

func newDocumentPayload(docType fulfillment.DocumentType, number string, order *fulfillment.SalesOrder) *DocumentPayload {
	items := make([]OrderItemSnapshot, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemSnapshot{
			LineNumber:        item.LineNumber,
			ProductID:         item.ProductID,
			OrderedQuantity:   item.OrderedQuantity,
			AllocatedQuantity: item.AllocatedQuantity,
			PickedQuantity:    item.PickedQuantity,
			UnitPrice:         item.UnitPrice,
			LineTotal:         item.LineTotal,
		})
	}
	return &DocumentPayload{
		DocumentType:   docType.String(),
		DocumentNumber: number,
		IssuedAt:       time.Now(),
		Order: OrderSnapshot{
			ID:             order.ID,
			OrderNumber:    order.OrderNumber,
			CustomerID:     order.CustomerID,
			OrderDate:      order.OrderDate,
			Status:         order.Status.String(),
			WorkflowState:  order.WorkflowState.String(),
			TotalAmount:    order.TotalAmount,
			TrackingNumber: order.TrackingNumber,
			Notes:          order.Notes,
			Items:          items,
		},
	}
}

func (p *DocumentPayload) withPackages(packages []*fulfillment.Package) *DocumentPayload {
	for _, pkg := range packages {
		items := make([]PackageItemSnapshot, 0, len(pkg.Items))
		for _, item := range pkg.Items {
			items = append(items, PackageItemSnapshot{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		p.Packages = append(p.Packages, PackageSnapshot{
			PackageNumber:      pkg.PackageNumber,
			Weight:             pkg.Weight,
			Barcode:            pkg.Barcode,
			DeliveryLocationID: pkg.DeliveryLocationID,
			Items:              items,
		})
	}
	return p
}

func (p *DocumentPayload) withShipment(s *fulfillment.Shipment) *DocumentPayload {
	p.Shipment = &ShipmentSnapshot{
		ShipmentNumber: s.ShipmentNumber,
		Carrier:        s.Carrier,
		ShippingMethod: s.ShippingMethod,
		TrackingNumber: s.TrackingNumber,
		Status:         string(s.Status),
		ShippedAt:      s.ShippedAt,
		Cost:           s.Cost,
	}
	return p
}

func (p *DocumentPayload) withDelivery(d *fulfillment.Delivery) *DocumentPayload {
	items := make([]DeliveryItemSnapshot, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, DeliveryItemSnapshot{
			ProductID:        item.ProductID,
			ShippedQuantity:  item.ShippedQuantity,
			AcceptedQuantity: item.AcceptedQuantity,
			RejectedQuantity: item.RejectedQuantity,
			RejectionNotes:   item.RejectionNotes,
		})
	}
	p.Delivery = &DeliverySnapshot{
		Status:        string(d.Status),
		DeliveryDate:  d.DeliveryDate,
		RecipientName: d.RecipientName,
		Notes:         d.Notes,
		TotalAccepted: d.TotalAccepted(),
		TotalRejected: d.TotalRejected(),
		ReturnOrderID: d.ReturnOrderID,
		Items:         items,
	}
	return p
}
