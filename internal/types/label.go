package types

import (
	"time"

	"github.com/google/uuid"
)

type Label struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string    `gorm:"not null" json:"name"`
	Color     string    `gorm:"not null;default:'#999999'" json:"color"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Label) TableName() string { return "label" }

type OrderLabel struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	LabelID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"label_id"`
	Label     *Label     `gorm:"constraint:OnDelete:CASCADE;foreignKey:LabelID;references:ID" json:"label,omitempty"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (OrderLabel) TableName() string { return "order_label" }

type SampleLabel struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	SampleID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"sample_id"`
	LabelID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"label_id"`
	Label     *Label     `gorm:"constraint:OnDelete:CASCADE;foreignKey:LabelID;references:ID" json:"label,omitempty"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (SampleLabel) TableName() string { return "sample_label" }
