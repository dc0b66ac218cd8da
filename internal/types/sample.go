package types

import (
	"time"

	"github.com/google/uuid"
)

// Sample state is set explicitly by user action; every change triggers an
// order status recomputation.
type Sample struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"branch_id"`
	OrderID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	Order       *LabOrder   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID;references:ID" json:"order,omitempty"`
	SampleCode  string      `gorm:"not null;index" json:"sample_code"`
	Type        SampleType  `gorm:"type:varchar(32);not null" json:"type"`
	State       SampleState `gorm:"type:varchar(32);not null;default:'RECEIVED';index" json:"state"`
	CollectedAt *time.Time  `json:"collected_at,omitempty"`
	ReceivedAt  *time.Time  `json:"received_at,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Sample) TableName() string { return "sample" }

type SampleImage struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID  uuid.UUID  `gorm:"type:uuid;not null" json:"branch_id"`
	SampleID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"sample_id"`
	Sample    *Sample    `gorm:"constraint:OnDelete:CASCADE;foreignKey:SampleID;references:ID" json:"sample,omitempty"`
	StorageID uuid.UUID  `gorm:"type:uuid;not null" json:"storage_id"`
	Label     string     `json:"label,omitempty"`
	IsPrimary bool       `gorm:"not null;default:false" json:"is_primary"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (SampleImage) TableName() string { return "sample_image" }
