package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderEvent is an immutable, append-only timeline fact. Rows are written in
// the same transaction as the state change they record and are never updated
// or deleted. Description stays empty for most kinds; Metadata is canonical.
type OrderEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"branch_id"`
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	SampleID    *uuid.UUID     `gorm:"type:uuid;index" json:"sample_id,omitempty"`
	EventType   EventType      `gorm:"type:varchar(64);not null;index" json:"event_type"`
	Description string         `json:"description,omitempty"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedBy   *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (OrderEvent) TableName() string { return "order_event" }
