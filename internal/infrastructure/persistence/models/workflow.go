package models

import (
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
)

// WorkflowDefinitionModel stores a tenant's ordered step keys for a process
type WorkflowDefinitionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workflow_tenant_process,priority:1"`
	ProcessType string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_workflow_tenant_process,priority:2"`
	Steps       []string  `gorm:"serializer:json;type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WorkflowDefinitionModel) TableName() string {
	return "workflow_definitions"
}

// ToDomain converts the persistence model to a domain WorkflowDefinition
func (m *WorkflowDefinitionModel) ToDomain() *fulfillment.WorkflowDefinition {
	steps := make([]fulfillment.Step, len(m.Steps))
	for i, s := range m.Steps {
		steps[i] = fulfillment.Step(s)
	}
	return &fulfillment.WorkflowDefinition{
		TenantID:    m.TenantID,
		ProcessType: m.ProcessType,
		Steps:       steps,
	}
}
