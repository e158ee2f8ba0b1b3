package fulfillment

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentType is the kind of fulfillment document generated at a transition
type DocumentType string

const (
	DocumentTypePack     DocumentType = "PACK"
	DocumentTypeShip     DocumentType = "SHIP"
	DocumentTypeDelivery DocumentType = "DELIVERY"
)

func (t DocumentType) String() string {
	return string(t)
}

// DocumentStatus tracks the render/store side effect of a document
type DocumentStatus string

const (
	DocumentStatusPending DocumentStatus = "pending"
	DocumentStatusStored  DocumentStatus = "stored"
	DocumentStatusFailed  DocumentStatus = "failed"
)

// FulfillmentDocument is created pending inside the transition transaction
// with its permanent number and data snapshot. Rendering happens after commit.
type FulfillmentDocument struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	OrderID        uuid.UUID
	Type           DocumentType
	DocumentNumber string
	HistoryID      *uuid.UUID
	Status         DocumentStatus
	StoragePath    string
	Attempts       int
	LastError      string
	Payload        []byte
	StoredAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewFulfillmentDocument creates a pending document record
func NewFulfillmentDocument(order *SalesOrder, docType DocumentType, number string, historyID *uuid.UUID, payload []byte) (*FulfillmentDocument, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number is required")
	}
	now := time.Now()
	return &FulfillmentDocument{
		ID:             uuid.New(),
		TenantID:       order.TenantID,
		OrderID:        order.ID,
		Type:           docType,
		DocumentNumber: number,
		HistoryID:      historyID,
		Status:         DocumentStatusPending,
		Payload:        payload,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkStored records a successful render/store
func (d *FulfillmentDocument) MarkStored(path string) {
	now := time.Now()
	d.Status = DocumentStatusStored
	d.StoragePath = path
	d.StoredAt = &now
	d.LastError = ""
	d.Attempts++
	d.UpdatedAt = now
}

// RecordFailure counts a failed attempt. After maxAttempts the document is
// failed and only a manual retry brings it back.
func (d *FulfillmentDocument) RecordFailure(err error, maxAttempts int) {
	d.Attempts++
	d.LastError = err.Error()
	if maxAttempts > 0 && d.Attempts >= maxAttempts {
		d.Status = DocumentStatusFailed
	}
	d.UpdatedAt = time.Now()
}

// ResetForRetry puts a failed document back into the pending queue
func (d *FulfillmentDocument) ResetForRetry() error {
	if d.Status == DocumentStatusStored {
		return shared.NewDomainError("INVALID_STATE", "Document is already stored")
	}
	d.Status = DocumentStatusPending
	d.Attempts = 0
	d.UpdatedAt = time.Now()
	return nil
}

// IsPending returns true while the document still needs rendering
func (d *FulfillmentDocument) IsPending() bool {
	return d.Status == DocumentStatusPending
}
