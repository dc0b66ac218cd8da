package types

import (
	"time"

	"github.com/google/uuid"
)

// Assignment records that a user is, or was, responsible for an item.
// Rows are never physically deleted; unassignment sets UnassignedAt. At most
// one active row may exist per (tenant, item_type, item_id, assignee), backed
// by a partial unique index.
type Assignment struct {
	ID               uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ItemType         AssignmentItemType `gorm:"type:varchar(32);not null;index" json:"item_type"`
	ItemID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"item_id"`
	AssigneeUserID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"assignee_user_id"`
	AssignedByUserID *uuid.UUID         `gorm:"type:uuid" json:"assigned_by_user_id,omitempty"`
	AssignedAt       time.Time          `gorm:"not null;default:now()" json:"assigned_at"`
	UnassignedAt     *time.Time         `json:"unassigned_at,omitempty"`
}

func (Assignment) TableName() string { return "assignment" }

func (a *Assignment) Active() bool {
	return a != nil && a.UnassignedAt == nil
}
