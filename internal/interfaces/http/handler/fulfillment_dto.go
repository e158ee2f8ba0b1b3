package handler

import (
	"time"

	appfulfillment "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocateRequest reserves stock of one inventory item for one order line
// @Description Request body for reserving stock against an order line
type AllocateRequest struct {
	OrderItemID     string          `json:"order_item_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440010"`
	InventoryItemID string          `json:"inventory_item_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440020"`
	Quantity        decimal.Decimal `json:"quantity" binding:"gt=0" swaggertype:"number" example:"2"`
}

// PickRequest records a physical pick
// @Description Request body for recording a pick
type PickRequest struct {
	OrderItemID     string          `json:"order_item_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440010"`
	InventoryItemID string          `json:"inventory_item_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440020"`
	Quantity        decimal.Decimal `json:"quantity" binding:"gt=0" swaggertype:"number" example:"2"`
	Batch           string          `json:"batch" binding:"max=100" example:"B-2026-10"`
	Lot             string          `json:"lot" binding:"max=100" example:"LOT-7"`
	Serial          string          `json:"serial" binding:"max=100"`
}

// SavePackagesRequest replaces the unshipped packages. An empty list clears them.
// @Description Request body replacing the unshipped packages of an order
type SavePackagesRequest struct {
	Packages []PackageRequest `json:"packages" binding:"dive"`
}

// PackageRequest describes one package in list order
// @Description One package in a package list
type PackageRequest struct {
	Length  decimal.Decimal      `json:"length" binding:"gte=0" swaggertype:"number" example:"2"`
	Width   decimal.Decimal      `json:"width" binding:"gte=0" swaggertype:"number" example:"2"`
	Height  decimal.Decimal      `json:"height" binding:"gte=0" swaggertype:"number" example:"2"`
	Weight  decimal.Decimal      `json:"weight" binding:"gte=0" swaggertype:"number" example:"2"`
	Barcode string               `json:"barcode" binding:"max=100" example:"0012345678905"`
	Items   []PackageItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PackageItemRequest is a quantity of one order line inside a package
// @Description Quantity of an order line inside a package
type PackageItemRequest struct {
	OrderItemID string          `json:"order_item_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440010"`
	Quantity    decimal.Decimal `json:"quantity" binding:"gt=0" swaggertype:"number" example:"2"`
}

// TransitionRequest carries the payload of the ship and deliver transitions.
// allocate, pick and pack take no body.
// @Description Payload for the ship and deliver transitions
type TransitionRequest struct {
	Ship    *ShipRequest    `json:"ship"`
	Deliver *DeliverRequest `json:"deliver"`
}

// ShipRequest confirms a shipment
// @Description Shipment confirmation
type ShipRequest struct {
	Carrier        string              `json:"carrier" binding:"max=100" example:"DHL"`
	ShippingMethod string              `json:"shipping_method" binding:"max=50" example:"ground"`
	TrackingNumber string              `json:"tracking_number" binding:"max=100" example:"1Z999AA10123456784"`
	Cost           decimal.Decimal     `json:"cost" binding:"gte=0" swaggertype:"number" example:"2"`
	Assignments    []AssignmentRequest `json:"assignments" binding:"required,min=1,dive"`
}

// AssignmentRequest assigns a delivery location to a package
// @Description Delivery location for one package
type AssignmentRequest struct {
	PackageNumber string `json:"package_number" binding:"required" example:"PKG-SO-1001-001"`
	LocationID    string `json:"location_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440030"`
}

// DeliverRequest confirms delivery. Splits are required in partial mode and
// must cover every shipped line.
// @Description Delivery confirmation
type DeliverRequest struct {
	Mode          string         `json:"mode" binding:"required,oneof=full partial" example:"partial"`
	RecipientName string         `json:"recipient_name" binding:"max=200" example:"Receiving dock"`
	Notes         string         `json:"notes" binding:"max=1000"`
	DeliveryDate  *time.Time     `json:"delivery_date"`
	Splits        []SplitRequest `json:"splits" binding:"dive"`
}

// SplitRequest is the accepted/rejected split of one order line
// @Description Accepted and rejected quantity of one order line
type SplitRequest struct {
	OrderItemID string          `json:"order_item_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440010"`
	Accepted    decimal.Decimal `json:"accepted" binding:"gte=0" swaggertype:"number" example:"2"`
	Rejected    decimal.Decimal `json:"rejected" binding:"gte=0" swaggertype:"number" example:"2"`
	Notes       string          `json:"notes" binding:"max=500"`
}

// toSpecs converts validated package requests. UUIDs were checked by binding.
func (r SavePackagesRequest) toSpecs() []fulfillment.PackageSpec {
	specs := make([]fulfillment.PackageSpec, 0, len(r.Packages))
	for _, p := range r.Packages {
		items := make([]fulfillment.PackageItemSpec, 0, len(p.Items))
		for _, item := range p.Items {
			items = append(items, fulfillment.PackageItemSpec{
				OrderItemID: uuid.MustParse(item.OrderItemID),
				Quantity:    item.Quantity,
			})
		}
		specs = append(specs, fulfillment.PackageSpec{
			Length:  p.Length,
			Width:   p.Width,
			Height:  p.Height,
			Weight:  p.Weight,
			Barcode: p.Barcode,
			Items:   items,
		})
	}
	return specs
}

func (r *ShipRequest) toPayload() *appfulfillment.ShipPayload {
	if r == nil {
		return nil
	}
	assignments := make([]fulfillment.LocationAssignment, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		assignments = append(assignments, fulfillment.LocationAssignment{
			PackageNumber: a.PackageNumber,
			LocationID:    uuid.MustParse(a.LocationID),
		})
	}
	return &appfulfillment.ShipPayload{
		Details: fulfillment.ShipmentDetails{
			Carrier:        r.Carrier,
			ShippingMethod: r.ShippingMethod,
			TrackingNumber: r.TrackingNumber,
			Cost:           r.Cost,
		},
		Assignments: assignments,
	}
}

func (r *DeliverRequest) toPayload() *appfulfillment.DeliverPayload {
	if r == nil {
		return nil
	}
	recipient := fulfillment.DeliveryRecipient{Name: r.RecipientName, Notes: r.Notes}
	if r.DeliveryDate != nil {
		recipient.Date = *r.DeliveryDate
	}
	splits := make([]fulfillment.DeliverySplit, 0, len(r.Splits))
	for _, s := range r.Splits {
		splits = append(splits, fulfillment.DeliverySplit{
			OrderItemID: uuid.MustParse(s.OrderItemID),
			Accepted:    s.Accepted,
			Rejected:    s.Rejected,
			Notes:       s.Notes,
		})
	}
	return &appfulfillment.DeliverPayload{
		Mode:      fulfillment.DeliveryMode(r.Mode),
		Recipient: recipient,
		Splits:    splits,
	}
}

// OrderResponse is a sales order with its lines
// @Description Sales order response
type OrderResponse struct {
	ID                    uuid.UUID           `json:"id" swaggertype:"string" format:"uuid"`
	TenantID              uuid.UUID           `json:"tenant_id" swaggertype:"string" format:"uuid"`
	OrderNumber           string              `json:"order_number"`
	CustomerID            uuid.UUID           `json:"customer_id" swaggertype:"string" format:"uuid"`
	ShippingLocationID    *uuid.UUID          `json:"shipping_location_id,omitempty" swaggertype:"string" format:"uuid"`
	ShippingMethod        string              `json:"shipping_method,omitempty"`
	OrderDate             time.Time           `json:"order_date"`
	RequestedDeliveryDate *time.Time          `json:"requested_delivery_date,omitempty"`
	Status                string              `json:"status"`
	WorkflowState         string              `json:"workflow_state"`
	TotalAmount           decimal.Decimal     `json:"total_amount" swaggertype:"number"`
	TrackingNumber        string              `json:"tracking_number,omitempty"`
	Notes                 string              `json:"notes,omitempty"`
	Version               int                 `json:"version"`
	Items                 []OrderItemResponse `json:"items"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// OrderItemResponse is one order line with its fulfillment progress
// @Description Sales order line response
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id" swaggertype:"string" format:"uuid"`
	LineNumber        int             `json:"line_number"`
	ProductID         uuid.UUID       `json:"product_id" swaggertype:"string" format:"uuid"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity" swaggertype:"number"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity" swaggertype:"number"`
	PickedQuantity    decimal.Decimal `json:"picked_quantity" swaggertype:"number"`
	UnitPrice         decimal.Decimal `json:"unit_price" swaggertype:"number"`
	LineTotal         decimal.Decimal `json:"line_total" swaggertype:"number"`
}

// AllocationResponse is one reservation
// @Description Stock reservation response
type AllocationResponse struct {
	ID              uuid.UUID       `json:"id" swaggertype:"string" format:"uuid"`
	OrderItemID     uuid.UUID       `json:"order_item_id" swaggertype:"string" format:"uuid"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id" swaggertype:"string" format:"uuid"`
	Quantity        decimal.Decimal `json:"quantity" swaggertype:"number"`
	AllocatedBy     *uuid.UUID      `json:"allocated_by,omitempty" swaggertype:"string" format:"uuid"`
	AllocatedAt     time.Time       `json:"allocated_at"`
}

// PickResponse is one recorded pick
// @Description Pick response
type PickResponse struct {
	ID              uuid.UUID       `json:"id" swaggertype:"string" format:"uuid"`
	OrderItemID     uuid.UUID       `json:"order_item_id" swaggertype:"string" format:"uuid"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id" swaggertype:"string" format:"uuid"`
	Quantity        decimal.Decimal `json:"quantity" swaggertype:"number"`
	Batch           string          `json:"batch,omitempty"`
	Lot             string          `json:"lot,omitempty"`
	Serial          string          `json:"serial,omitempty"`
	PickedBy        *uuid.UUID      `json:"picked_by,omitempty" swaggertype:"string" format:"uuid"`
	PickedAt        time.Time       `json:"picked_at"`
}

// PackageResponse is one package with its contents
// @Description Package response
type PackageResponse struct {
	ID                 uuid.UUID             `json:"id" swaggertype:"string" format:"uuid"`
	PackageNumber      string                `json:"package_number"`
	ShipmentID         *uuid.UUID            `json:"shipment_id,omitempty" swaggertype:"string" format:"uuid"`
	Length             decimal.Decimal       `json:"length" swaggertype:"number"`
	Width              decimal.Decimal       `json:"width" swaggertype:"number"`
	Height             decimal.Decimal       `json:"height" swaggertype:"number"`
	Weight             decimal.Decimal       `json:"weight" swaggertype:"number"`
	Barcode            string                `json:"barcode,omitempty"`
	DeliveryLocationID *uuid.UUID            `json:"delivery_location_id,omitempty" swaggertype:"string" format:"uuid"`
	Items              []PackageItemResponse `json:"items"`
}

// PackageItemResponse is a quantity of one order line inside a package
// @Description Package content response
type PackageItemResponse struct {
	OrderItemID uuid.UUID       `json:"order_item_id" swaggertype:"string" format:"uuid"`
	ProductID   uuid.UUID       `json:"product_id" swaggertype:"string" format:"uuid"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"number"`
}

// ShipmentResponse is the single shipment of an order
// @Description Shipment response
type ShipmentResponse struct {
	ID             uuid.UUID       `json:"id" swaggertype:"string" format:"uuid"`
	ShipmentNumber string          `json:"shipment_number"`
	Carrier        string          `json:"carrier,omitempty"`
	ShippingMethod string          `json:"shipping_method,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	Status         string          `json:"status"`
	Cost           decimal.Decimal `json:"cost" swaggertype:"number"`
	ShippedAt      *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	DocumentID     *uuid.UUID      `json:"document_id,omitempty" swaggertype:"string" format:"uuid"`
}

// DeliveryResponse records what the recipient accepted
// @Description Delivery response
type DeliveryResponse struct {
	ID            uuid.UUID              `json:"id" swaggertype:"string" format:"uuid"`
	ShipmentID    uuid.UUID              `json:"shipment_id" swaggertype:"string" format:"uuid"`
	Status        string                 `json:"status"`
	DeliveryDate  time.Time              `json:"delivery_date"`
	RecipientName string                 `json:"recipient_name,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	ReturnOrderID *uuid.UUID             `json:"return_order_id,omitempty" swaggertype:"string" format:"uuid"`
	Items         []DeliveryItemResponse `json:"items"`
}

// DeliveryItemResponse is the accepted/rejected split of one line
// @Description Delivery line response
type DeliveryItemResponse struct {
	OrderItemID      uuid.UUID       `json:"order_item_id" swaggertype:"string" format:"uuid"`
	ProductID        uuid.UUID       `json:"product_id" swaggertype:"string" format:"uuid"`
	ShippedQuantity  decimal.Decimal `json:"shipped_quantity" swaggertype:"number"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity" swaggertype:"number"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity" swaggertype:"number"`
	RejectionNotes   string          `json:"rejection_notes,omitempty"`
}

// DocumentResponse is a generated fulfillment document
// @Description Fulfillment document response
type DocumentResponse struct {
	ID             uuid.UUID  `json:"id" swaggertype:"string" format:"uuid"`
	Type           string     `json:"type"`
	DocumentNumber string     `json:"document_number"`
	Status         string     `json:"status"`
	StoragePath    string     `json:"storage_path,omitempty"`
	Attempts       int        `json:"attempts"`
	LastError      string     `json:"last_error,omitempty"`
	StoredAt       *time.Time `json:"stored_at,omitempty"`
}

// OrderViewResponse is GET /fulfillment/orders/:id
// @Description Sales order with its fulfillment records
type OrderViewResponse struct {
	Order       OrderResponse        `json:"order"`
	Allocations []AllocationResponse `json:"allocations"`
	Picks       []PickResponse       `json:"picks"`
	Packages    []PackageResponse    `json:"packages"`
	Shipment    *ShipmentResponse    `json:"shipment,omitempty"`
	Delivery    *DeliveryResponse    `json:"delivery,omitempty"`
	Documents   []DocumentResponse   `json:"documents"`
}

// AllocationResultResponse is returned by POST /allocations
// @Description Allocation result
type AllocationResultResponse struct {
	Allocation AllocationResponse `json:"allocation"`
	Order      OrderResponse      `json:"order"`
}

// PickResultResponse is returned by POST /picks
// @Description Pick result
type PickResultResponse struct {
	Pick         PickResponse  `json:"pick"`
	Order        OrderResponse `json:"order"`
	ReadyForPack bool          `json:"ready_for_pack"`
}

// PackagesResultResponse is returned by PUT /packages
// @Description Package list result
type PackagesResultResponse struct {
	Order    OrderResponse     `json:"order"`
	Packages []PackageResponse `json:"packages"`
}

// TransitionResponse is returned by POST /transitions/:transition. A
// pending document means the transition committed and the document can be
// retried.
// @Description Transition result
type TransitionResponse struct {
	Order           OrderResponse     `json:"order"`
	PreviousStatus  string            `json:"previous_status"`
	PreviousStep    string            `json:"previous_workflow_state"`
	NextStep        string            `json:"next_step"`
	Resolution      string            `json:"resolution"`
	Document        *DocumentResponse `json:"document,omitempty"`
	DocumentPending bool              `json:"document_pending"`
	DocumentError   string            `json:"document_error,omitempty"`
	Packages        []PackageResponse `json:"packages,omitempty"`
	Shipment        *ShipmentResponse `json:"shipment,omitempty"`
	Delivery        *DeliveryResponse `json:"delivery,omitempty"`
	ReturnOrderID   *uuid.UUID        `json:"return_order_id,omitempty" swaggertype:"string" format:"uuid"`
}

func toOrderResponse(o *fulfillment.SalesOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:                item.ID,
			LineNumber:        item.LineNumber,
			ProductID:         item.ProductID,
			OrderedQuantity:   item.OrderedQuantity,
			AllocatedQuantity: item.AllocatedQuantity,
			PickedQuantity:    item.PickedQuantity,
			UnitPrice:         item.UnitPrice,
			LineTotal:         item.LineTotal,
		})
	}
	return OrderResponse{
		ID:                    o.ID,
		TenantID:              o.TenantID,
		OrderNumber:           o.OrderNumber,
		CustomerID:            o.CustomerID,
		ShippingLocationID:    o.ShippingLocationID,
		ShippingMethod:        o.ShippingMethod,
		OrderDate:             o.OrderDate,
		RequestedDeliveryDate: o.RequestedDeliveryDate,
		Status:                o.Status.String(),
		WorkflowState:         o.WorkflowState.String(),
		TotalAmount:           o.TotalAmount,
		TrackingNumber:        o.TrackingNumber,
		Notes:                 o.Notes,
		Version:               o.Version,
		Items:                 items,
		UpdatedAt:             o.UpdatedAt,
	}
}

func toAllocationResponse(a *fulfillment.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:              a.ID,
		OrderItemID:     a.OrderItemID,
		InventoryItemID: a.InventoryItemID,
		Quantity:        a.Quantity,
		AllocatedBy:     a.AllocatedBy,
		AllocatedAt:     a.AllocatedAt,
	}
}

func toPickResponse(p *fulfillment.Pick) PickResponse {
	return PickResponse{
		ID:              p.ID,
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

func toPackageResponses(packages []*fulfillment.Package) []PackageResponse {
	out := make([]PackageResponse, 0, len(packages))
	for _, p := range packages {
		items := make([]PackageItemResponse, 0, len(p.Items))
		for _, item := range p.Items {
			items = append(items, PackageItemResponse{
				OrderItemID: item.OrderItemID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
			})
		}
		out = append(out, PackageResponse{
			ID:                 p.ID,
			PackageNumber:      p.PackageNumber,
			ShipmentID:         p.ShipmentID,
			Length:             p.Length,
			Width:              p.Width,
			Height:             p.Height,
			Weight:             p.Weight,
			Barcode:            p.Barcode,
			DeliveryLocationID: p.DeliveryLocationID,
			Items:              items,
		})
	}
	return out
}

func toShipmentResponse(s *fulfillment.Shipment) *ShipmentResponse {
	if s == nil {
		return nil
	}
	return &ShipmentResponse{
		ID:             s.ID,
		ShipmentNumber: s.ShipmentNumber,
		Carrier:        s.Carrier,
		ShippingMethod: s.ShippingMethod,
		TrackingNumber: s.TrackingNumber,
		Status:         string(s.Status),
		Cost:           s.Cost,
		ShippedAt:      s.ShippedAt,
		DeliveredAt:    s.DeliveredAt,
		DocumentID:     s.DocumentID,
	}
}

func toDeliveryResponse(d *fulfillment.Delivery) *DeliveryResponse {
	if d == nil {
		return nil
	}
	items := make([]DeliveryItemResponse, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, DeliveryItemResponse{
			OrderItemID:      item.OrderItemID,
			ProductID:        item.ProductID,
			ShippedQuantity:  item.ShippedQuantity,
			AcceptedQuantity: item.AcceptedQuantity,
			RejectedQuantity: item.RejectedQuantity,
			RejectionNotes:   item.RejectionNotes,
		})
	}
	return &DeliveryResponse{
		ID:            d.ID,
		ShipmentID:    d.ShipmentID,
		Status:        string(d.Status),
		DeliveryDate:  d.DeliveryDate,
		RecipientName: d.RecipientName,
		Notes:         d.Notes,
		ReturnOrderID: d.ReturnOrderID,
		Items:         items,
	}
}

func toDocumentResponse(d *fulfillment.FulfillmentDocument) *DocumentResponse {
	if d == nil {
		return nil
	}
	return &DocumentResponse{
		ID:             d.ID,
		Type:           string(d.Type),
		DocumentNumber: d.DocumentNumber,
		Status:         string(d.Status),
		StoragePath:    d.StoragePath,
		Attempts:       d.Attempts,
		LastError:      d.LastError,
		StoredAt:       d.StoredAt,
	}
}

func toOrderViewResponse(v *appfulfillment.OrderView) OrderViewResponse {
	allocations := make([]AllocationResponse, 0, len(v.Allocations))
	for _, a := range v.Allocations {
		allocations = append(allocations, toAllocationResponse(a))
	}
	picks := make([]PickResponse, 0, len(v.Picks))
	for _, p := range v.Picks {
		picks = append(picks, toPickResponse(p))
	}
	documents := make([]DocumentResponse, 0, len(v.Documents))
	for _, d := range v.Documents {
		documents = append(documents, *toDocumentResponse(d))
	}
	return OrderViewResponse{
		Order:       toOrderResponse(v.Order),
		Allocations: allocations,
		Picks:       picks,
		Packages:    toPackageResponses(v.Packages),
		Shipment:    toShipmentResponse(v.Shipment),
		Delivery:    toDeliveryResponse(v.Delivery),
		Documents:   documents,
	}
}

func toTransitionResponse(r *appfulfillment.TransitionResult) TransitionResponse {
	resp := TransitionResponse{
		Order:           toOrderResponse(r.Order),
		PreviousStatus:  r.PreviousState.Status.String(),
		PreviousStep:    r.PreviousState.Step.String(),
		NextStep:        r.NextStep.String(),
		Resolution:      string(r.Resolution),
		Document:        toDocumentResponse(r.Document),
		DocumentPending: r.DocumentPending,
		DocumentError:   r.DocumentError,
		Shipment:        toShipmentResponse(r.Shipment),
		Delivery:        toDeliveryResponse(r.Delivery),
		ReturnOrderID:   r.ReturnOrderID,
	}
	if len(r.Packages) > 0 {
		resp.Packages = toPackageResponses(r.Packages)
	}
	return resp
}
