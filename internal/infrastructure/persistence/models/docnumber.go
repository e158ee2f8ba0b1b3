package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentSequenceModel holds the last issued sequence of a document type
// within a tenant and period. Version guards concurrent increments.
type DocumentSequenceModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_sequence_key,priority:1"`
	DocumentType string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_document_sequence_key,priority:2"`
	Period       string    `gorm:"type:varchar(6);not null;uniqueIndex:idx_document_sequence_key,priority:3"`
	LastSequence int64     `gorm:"not null;default:0"`
	Version      int       `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}

// DocumentNumberHistoryModel records every number ever issued
type DocumentNumberHistoryModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_number_unique,priority:1;uniqueIndex:idx_document_number_idempotency,priority:1"`
	DocumentType   string    `gorm:"type:varchar(30);not null"`
	DocumentNumber string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_document_number_unique,priority:2"`
	Period         string    `gorm:"type:varchar(6);not null"`
	SequenceNumber int64     `gorm:"not null"`
	IdempotencyKey *string   `gorm:"type:varchar(200);uniqueIndex:idx_document_number_idempotency,priority:2"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentNumberHistoryModel) TableName() string {
	return "document_number_history"
}
