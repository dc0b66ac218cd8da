package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LabOrder groups samples and a report for one patient visit. Status is
// derived from sample states, the latest report status and the payment lock;
// CANCELLED is the only value set directly by a user action.
type LabOrder struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"branch_id"`
	PatientID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"patient_id"`
	Patient     *Patient    `gorm:"constraint:OnDelete:RESTRICT;foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	OrderCode   string      `gorm:"not null;index" json:"order_code"`
	Status      OrderStatus `gorm:"type:varchar(32);not null;default:'RECEIVED';index" json:"status"`
	RequestedBy string      `json:"requested_by,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	BilledLock  bool        `gorm:"not null;default:false" json:"billed_lock"`
	CreatedBy   *uuid.UUID  `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;default:now()" json:"updated_at"`
	Samples     []*Sample   `gorm:"foreignKey:OrderID;references:ID" json:"samples,omitempty"`
}

func (LabOrder) TableName() string { return "lab_order" }

type OrderComment struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID  uuid.UUID      `gorm:"type:uuid;not null" json:"branch_id"`
	OrderID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	CreatedBy uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	Text      string         `gorm:"not null" json:"text"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (OrderComment) TableName() string { return "order_comment" }
