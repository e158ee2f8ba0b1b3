package inventory

import "github.com/google/uuid"

// Warehouse is read-only reference data for this engine.
type Warehouse struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Code      string
	Name      string
	IsDefault bool
	IsActive  bool
}
