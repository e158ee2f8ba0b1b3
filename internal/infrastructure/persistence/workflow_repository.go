package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkflowDefinitionRepository stores tenant workflow definitions
type GormWorkflowDefinitionRepository struct {
	db *gorm.DB
}

// NewGormWorkflowDefinitionRepository creates a new GormWorkflowDefinitionRepository
func NewGormWorkflowDefinitionRepository(db *gorm.DB) *GormWorkflowDefinitionRepository {
	return &GormWorkflowDefinitionRepository{db: db}
}

// Find returns the tenant's definition for a process type, or nil when the
// tenant has none. A stored definition that fails validation is returned as
// an error matching fulfillment.ErrInvalidWorkflow.
func (r *GormWorkflowDefinitionRepository) Find(ctx context.Context, tenantID uuid.UUID, processType string) (*fulfillment.WorkflowDefinition, error) {
	var model models.WorkflowDefinitionModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("process_type = ?", processType).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	def := model.ToDomain()
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("stored workflow definition for tenant %s: %w", tenantID, err)
	}
	return def, nil
}

// Save validates and upserts a definition
func (r *GormWorkflowDefinitionRepository) Save(ctx context.Context, def *fulfillment.WorkflowDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	steps := make([]string, len(def.Steps))
	for i, s := range def.Steps {
		steps[i] = string(s)
	}
	now := time.Now()
	model := &models.WorkflowDefinitionModel{
		ID:          uuid.New(),
		TenantID:    def.TenantID,
		ProcessType: def.ProcessType,
		Steps:       steps,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "process_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"steps", "updated_at"}),
	}).Create(model).Error
}
