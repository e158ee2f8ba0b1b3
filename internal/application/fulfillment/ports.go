package fulfillment

import (
	"context"
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
)

// IssueNumberRequest asks for the next document number of a type
type IssueNumberRequest struct {
	TenantID     uuid.UUID
	DocumentType string
	Prefix1      string
	Prefix2      string
	// IdempotencyKey makes a retried request return the number issued before
	IdempotencyKey string
}

// IssuedNumber is a permanently assigned document number
type IssuedNumber struct {
	DocumentNumber string
	Period         string
	SequenceNumber int64
	HistoryID      uuid.UUID
}

// DocumentNumberIssuer issues unique formatted document numbers
type DocumentNumberIssuer interface {
	IssueDocumentNumber(ctx context.Context, req IssueNumberRequest) (*IssuedNumber, error)
}

// RenderStoreRequest carries a document snapshot to render and persist
type RenderStoreRequest struct {
	TenantID       uuid.UUID
	DocumentID     uuid.UUID
	DocumentType   fulfillment.DocumentType
	DocumentNumber string
	Payload        []byte
}

// StoredDocument references a persisted artifact
type StoredDocument struct {
	StoragePath string
	DocumentID  uuid.UUID
}

// DocumentStore renders a payload and stores the artifact. Rendering the
// same payload twice is safe.
type DocumentStore interface {
	RenderAndStore(ctx context.Context, req RenderStoreRequest) (*StoredDocument, error)
}

// AuditEntry is one audit log line
type AuditEntry struct {
	TenantID     uuid.UUID
	UserID       *uuid.UUID
	Module       string
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	Description  string
	DocumentPath string
}

// AuditRecorder is fire-and-forget: implementations log their own failures.
type AuditRecorder interface {
	RecordAudit(ctx context.Context, entry AuditEntry)
}

// WorkflowDefinitions looks up a tenant's workflow. A nil definition with a
// nil error means the tenant has none configured.
type WorkflowDefinitions interface {
	Definition(ctx context.Context, tenantID uuid.UUID, processType string) (*fulfillment.WorkflowDefinition, error)
}

// EventDispatcher delivers events to handlers that must run inside the
// producing transaction. tx is the transaction's repository set.
type EventDispatcher interface {
	Dispatch(ctx context.Context, tx any, events ...shared.DomainEvent) error
}

// EventSerializer encodes events for the outbox
type EventSerializer interface {
	Serialize(event shared.DomainEvent) ([]byte, error)
}

// TransitionRecorder receives fulfillment metrics
type TransitionRecorder interface {
	RecordTransition(ctx context.Context, action string, outcome string, duration time.Duration)
	RecordDocument(ctx context.Context, documentType string, outcome string)
}

// Metric outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomePending  = "pending"
)

type noopRecorder struct{}

func (noopRecorder) RecordTransition(context.Context, string, string, time.Duration) {}
func (noopRecorder) RecordDocument(context.Context, string, string)                  {}

type noopAudit struct{}

func (noopAudit) RecordAudit(context.Context, AuditEntry) {}
