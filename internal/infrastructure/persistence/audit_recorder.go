package persistence

import (
	"context"
	"time"

	appfulfillment "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormAuditRecorder writes audit entries to audit_logs and mirrors each one
// as a log line. Write failures are logged, never returned.
type GormAuditRecorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditRecorder creates a new audit recorder
func NewGormAuditRecorder(db *gorm.DB, zapLogger *zap.Logger) *GormAuditRecorder {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &GormAuditRecorder{db: db, logger: zapLogger.Named("audit")}
}

// RecordAudit persists the entry
func (r *GormAuditRecorder) RecordAudit(ctx context.Context, entry appfulfillment.AuditEntry) {
	log := logger.Enrich(ctx, r.logger)
	fields := []zap.Field{
		zap.String("tenant_id", entry.TenantID.String()),
		zap.String("module", entry.Module),
		zap.String("action", entry.Action),
		zap.String("resource_type", entry.ResourceType),
		zap.String("resource_id", entry.ResourceID.String()),
	}
	if entry.DocumentPath != "" {
		fields = append(fields, zap.String("document_path", entry.DocumentPath))
	}
	log.Info(entry.Description, fields...)

	model := &models.AuditLogModel{
		ID:           uuid.New(),
		TenantID:     entry.TenantID,
		UserID:       entry.UserID,
		Module:       entry.Module,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Description:  entry.Description,
		DocumentPath: entry.DocumentPath,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		log.Error("failed to write audit log", append(fields, zap.Error(err))...)
	}
}

var _ appfulfillment.AuditRecorder = (*GormAuditRecorder)(nil)
