package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appfulfillment "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultIssueAttempts = 5

// errSequenceContended means another issuer moved the sequence first
var errSequenceContended = errors.New("document sequence contended")

// GormDocumentNumberIssuer issues per-tenant, per-type, per-month sequential
// document numbers. Every call runs in its own transaction so a number, once
// issued, is never handed out again even if the caller later rolls back.
type GormDocumentNumberIssuer struct {
	db          *gorm.DB
	logger      *zap.Logger
	maxAttempts int
	now         func() time.Time
}

// NewGormDocumentNumberIssuer creates a new issuer
func NewGormDocumentNumberIssuer(db *gorm.DB, logger *zap.Logger) *GormDocumentNumberIssuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormDocumentNumberIssuer{
		db:          db,
		logger:      logger,
		maxAttempts: defaultIssueAttempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// FormatDocumentNumber renders TYPE-[P1-][P2-]YYYYMM-NNNNN
func FormatDocumentNumber(documentType, prefix1, prefix2, period string, seq int64) string {
	var b strings.Builder
	b.WriteString(documentType)
	b.WriteByte('-')
	for _, p := range []string{prefix1, prefix2} {
		if p != "" {
			b.WriteString(p)
			b.WriteByte('-')
		}
	}
	fmt.Fprintf(&b, "%s-%05d", period, seq)
	return b.String()
}

// IssueDocumentNumber returns the next number for the request's type. A
// request carrying an idempotency key that was already used gets the number
// issued the first time.
func (i *GormDocumentNumberIssuer) IssueDocumentNumber(ctx context.Context, req appfulfillment.IssueNumberRequest) (*appfulfillment.IssuedNumber, error) {
	if req.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if req.DocumentType == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type cannot be empty")
	}

	if req.IdempotencyKey != "" {
		issued, err := i.findByIdempotencyKey(ctx, req.TenantID, req.IdempotencyKey)
		if err == nil {
			return issued, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	period := i.now().Format("200601")
	var lastErr error
	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		issued, err := i.issue(ctx, req, period)
		if err == nil {
			return issued, nil
		}
		if req.IdempotencyKey != "" && isUniqueViolation(err) {
			// a concurrent call with the same key won
			if existing, findErr := i.findByIdempotencyKey(ctx, req.TenantID, req.IdempotencyKey); findErr == nil {
				return existing, nil
			}
		}
		if !errors.Is(err, errSequenceContended) && !isUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
		i.logger.Debug("document sequence contended, retrying",
			zap.String("document_type", req.DocumentType),
			zap.String("period", period),
			zap.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("issue %s number after %d attempts: %w", req.DocumentType, i.maxAttempts, lastErr)
}

func (i *GormDocumentNumberIssuer) issue(ctx context.Context, req appfulfillment.IssueNumberRequest, period string) (*appfulfillment.IssuedNumber, error) {
	var issued *appfulfillment.IssuedNumber
	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := i.loadSequence(tx, req.TenantID, req.DocumentType, period)
		if err != nil {
			return err
		}

		next := seq.LastSequence + 1
		now := i.now()
		result := tx.Model(&models.DocumentSequenceModel{}).
			Where("id = ? AND version = ?", seq.ID, seq.Version).
			Updates(map[string]any{
				"last_sequence": next,
				"version":       seq.Version + 1,
				"updated_at":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errSequenceContended
		}

		history := &models.DocumentNumberHistoryModel{
			ID:             uuid.New(),
			TenantID:       req.TenantID,
			DocumentType:   req.DocumentType,
			DocumentNumber: FormatDocumentNumber(req.DocumentType, req.Prefix1, req.Prefix2, period, next),
			Period:         period,
			SequenceNumber: next,
			CreatedAt:      now,
		}
		if req.IdempotencyKey != "" {
			key := req.IdempotencyKey
			history.IdempotencyKey = &key
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		issued = toIssuedNumber(history)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

// loadSequence reads the period's sequence row, creating it on first use
func (i *GormDocumentNumberIssuer) loadSequence(tx *gorm.DB, tenantID uuid.UUID, documentType, period string) (*models.DocumentSequenceModel, error) {
	var seq models.DocumentSequenceModel
	err := tx.Where("tenant_id = ? AND document_type = ? AND period = ?", tenantID, documentType, period).
		First(&seq).Error
	if err == nil {
		return &seq, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := i.now()
	seq = models.DocumentSequenceModel{
		ID:           uuid.New(),
		TenantID:     tenantID,
		DocumentType: documentType,
		Period:       period,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Create(&seq).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, errSequenceContended
		}
		return nil, err
	}
	return &seq, nil
}

func (i *GormDocumentNumberIssuer) findByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*appfulfillment.IssuedNumber, error) {
	var history models.DocumentNumberHistoryModel
	if err := i.db.WithContext(ctx).
		Where("tenant_id = ? AND idempotency_key = ?", tenantID, key).
		First(&history).Error; err != nil {
		return nil, notFound(err)
	}
	return toIssuedNumber(&history), nil
}

func toIssuedNumber(m *models.DocumentNumberHistoryModel) *appfulfillment.IssuedNumber {
	return &appfulfillment.IssuedNumber{
		DocumentNumber: m.DocumentNumber,
		Period:         m.Period,
		SequenceNumber: m.SequenceNumber,
		HistoryID:      m.ID,
	}
}

var _ appfulfillment.DocumentNumberIssuer = (*GormDocumentNumberIssuer)(nil)
