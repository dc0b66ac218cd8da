package types

import (
	"time"

	"github.com/google/uuid"
)

// ReportReview records one reviewer's decision for an order. Reviewers can be
// assigned before a report exists; ReportID stays nil until one is created
// and is backfilled then. Unlike assignments, reconciliation hard-deletes
// removed rows.
type ReportReview struct {
	ID               uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID         uuid.UUID    `gorm:"type:uuid;not null;index" json:"tenant_id"`
	OrderID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"order_id"`
	ReportID         *uuid.UUID   `gorm:"type:uuid;index" json:"report_id,omitempty"`
	ReviewerUserID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"reviewer_user_id"`
	AssignedByUserID *uuid.UUID   `gorm:"type:uuid" json:"assigned_by_user_id,omitempty"`
	AssignedAt       time.Time    `gorm:"not null;default:now()" json:"assigned_at"`
	DecisionAt       *time.Time   `json:"decision_at,omitempty"`
	Status           ReviewStatus `gorm:"type:varchar(32);not null;default:'PENDING';index" json:"status"`
}

func (ReportReview) TableName() string { return "report_review" }
