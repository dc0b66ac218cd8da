package types

import (
	"time"

	"github.com/google/uuid"
)

// StorageObject is the persisted pointer to an object-store blob (report PDF,
// report HTML, sample image).
type StorageObject struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Bucket      string     `gorm:"not null" json:"bucket"`
	Key         string     `gorm:"not null;uniqueIndex" json:"key"`
	ContentType string     `json:"content_type,omitempty"`
	SizeBytes   int64      `json:"size_bytes"`
	ETag        string     `json:"etag,omitempty"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (StorageObject) TableName() string { return "storage_object" }
