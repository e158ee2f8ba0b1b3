package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDocumentMaxAttempts is used when no attempt limit is configured
const DefaultDocumentMaxAttempts = 5

// DocumentService issues document numbers and records pending documents
// inside transitions, then renders and stores them after commit.
type DocumentService struct {
	issuer      DocumentNumberIssuer
	store       DocumentStore
	scope       TransactionScope
	audit       AuditRecorder
	metrics     TransitionRecorder
	maxAttempts int
	logger      *zap.Logger
}

// DocumentServiceOption configures a DocumentService
type DocumentServiceOption func(*DocumentService)

// WithDocumentAudit sets the audit recorder used when a document is stored
func WithDocumentAudit(audit AuditRecorder) DocumentServiceOption {
	return func(s *DocumentService) {
		if audit != nil {
			s.audit = audit
		}
	}
}

// WithDocumentMetrics sets the metrics recorder
func WithDocumentMetrics(metrics TransitionRecorder) DocumentServiceOption {
	return func(s *DocumentService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithMaxAttempts sets how many render attempts are made before a document fails
func WithMaxAttempts(n int) DocumentServiceOption {
	return func(s *DocumentService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(issuer DocumentNumberIssuer, store DocumentStore, scope TransactionScope, logger *zap.Logger, opts ...DocumentServiceOption) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DocumentService{
		issuer:      issuer,
		store:       store,
		scope:       scope,
		audit:       noopAudit{},
		metrics:     noopRecorder{},
		maxAttempts: DefaultDocumentMaxAttempts,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueNumber requests a number for the order's document of docType. The
// idempotency key makes a rolled back and retried transition reuse it.
func (s *DocumentService) IssueNumber(ctx context.Context, order *fulfillment.SalesOrder, docType fulfillment.DocumentType) (*IssuedNumber, error) {
	issued, err := s.issuer.IssueDocumentNumber(ctx, IssueNumberRequest{
		TenantID:       order.TenantID,
		DocumentType:   docType.String(),
		IdempotencyKey: fmt.Sprintf("%s:%s", order.ID, docType),
	})
	if err != nil {
		return nil, fmt.Errorf("issue %s document number: %w", docType, err)
	}
	return issued, nil
}

// Record stores a pending document with its payload inside the transition
func (s *DocumentService) Record(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, issued *IssuedNumber, payload *DocumentPayload) (*fulfillment.FulfillmentDocument, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal document payload: %w", err)
	}
	var historyID *uuid.UUID
	if issued.HistoryID != uuid.Nil {
		id := issued.HistoryID
		historyID = &id
	}
	doc, err := fulfillment.NewFulfillmentDocument(order, fulfillment.DocumentType(payload.DocumentType), issued.DocumentNumber, historyID, data)
	if err != nil {
		return nil, err
	}
	if err := repos.DocumentRepo().Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}
	return doc, nil
}

// Generate renders and stores a pending document and persists the outcome.
// A render failure is returned as *fulfillment.DocumentGenerationFailure.
func (s *DocumentService) Generate(ctx context.Context, doc *fulfillment.FulfillmentDocument) error {
	stored, renderErr := s.store.RenderAndStore(ctx, RenderStoreRequest{
		TenantID:       doc.TenantID,
		DocumentID:     doc.ID,
		DocumentType:   doc.Type,
		DocumentNumber: doc.DocumentNumber,
		Payload:        doc.Payload,
	})
	if renderErr == nil {
		doc.MarkStored(stored.StoragePath)
	} else {
		doc.RecordFailure(renderErr, s.maxAttempts)
	}

	if err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.DocumentRepo().Update(ctx, doc)
	}); err != nil {
		s.logger.Error("failed to persist document outcome",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
		if renderErr == nil {
			return fmt.Errorf("persist stored document: %w", err)
		}
	}

	if renderErr != nil {
		outcome := OutcomePending
		if doc.Status == fulfillment.DocumentStatusFailed {
			outcome = OutcomeError
		}
		s.metrics.RecordDocument(ctx, doc.Type.String(), outcome)
		s.logger.Warn("document generation failed",
			zap.String("document_id", doc.ID.String()),
			zap.String("document_number", doc.DocumentNumber),
			zap.Int("attempts", doc.Attempts),
			zap.String("status", string(doc.Status)),
			zap.Error(renderErr),
		)
		return &fulfillment.DocumentGenerationFailure{DocumentID: doc.ID, DocumentType: doc.Type, Cause: renderErr}
	}

	s.metrics.RecordDocument(ctx, doc.Type.String(), OutcomeSuccess)
	s.logger.Info("document stored",
		zap.String("document_id", doc.ID.String()),
		zap.String("document_number", doc.DocumentNumber),
		zap.String("path", doc.StoragePath),
	)
	return nil
}

// Retry re-renders one document on request. Failed documents are put back
// into the pending queue first; stored documents are returned unchanged.
func (s *DocumentService) Retry(ctx context.Context, tenantID, documentID uuid.UUID) (*fulfillment.FulfillmentDocument, error) {
	var doc *fulfillment.FulfillmentDocument
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		doc, err = repos.DocumentRepo().FindByID(ctx, tenantID, documentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc.Status == fulfillment.DocumentStatusStored {
		return doc, nil
	}
	if err := doc.ResetForRetry(); err != nil {
		return nil, err
	}
	if err := s.Generate(ctx, doc); err != nil {
		return doc, err
	}
	s.recordStoredAudit(ctx, doc)
	return doc, nil
}

// RetryPending re-renders up to limit pending documents. It returns how many
// were attempted and how many got stored.
func (s *DocumentService) RetryPending(ctx context.Context, limit int) (attempted, stored int, err error) {
	var docs []*fulfillment.FulfillmentDocument
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var findErr error
		docs, findErr = repos.DocumentRepo().FindPending(ctx, limit)
		return findErr
	})
	if err != nil {
		return 0, 0, fmt.Errorf("find pending documents: %w", err)
	}

	for _, doc := range docs {
		if ctx.Err() != nil {
			return attempted, stored, ctx.Err()
		}
		attempted++
		if genErr := s.Generate(ctx, doc); genErr != nil {
			continue
		}
		stored++
		s.recordStoredAudit(ctx, doc)
	}
	return attempted, stored, nil
}

func (s *DocumentService) recordStoredAudit(ctx context.Context, doc *fulfillment.FulfillmentDocument) {
	s.audit.RecordAudit(ctx, AuditEntry{
		TenantID:     doc.TenantID,
		Module:       auditModule,
		Action:       "document_generated",
		ResourceType: "fulfillment_document",
		ResourceID:   doc.ID,
		Description:  fmt.Sprintf("%s document %s generated", doc.Type, doc.DocumentNumber),
		DocumentPath: doc.StoragePath,
	})
}
