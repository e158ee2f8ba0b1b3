package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLogModel is one audit trail row
type AuditLogModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_tenant_resource,priority:1"`
	UserID       *uuid.UUID `gorm:"type:uuid"`
	Module       string     `gorm:"type:varchar(50);not null"`
	Action       string     `gorm:"type:varchar(50);not null"`
	ResourceType string     `gorm:"type:varchar(50);not null;index:idx_audit_tenant_resource,priority:2"`
	ResourceID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_tenant_resource,priority:3"`
	Description  string     `gorm:"type:text"`
	DocumentPath string     `gorm:"type:varchar(500)"`
	CreatedAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}
