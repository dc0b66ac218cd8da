package types

import (
	"time"

	"github.com/google/uuid"
)

// Report is the diagnostic document for an order. APPROVED, PUBLISHED and
// RETRACTED are driven by review decisions and explicit publish/retract
// actions; DRAFT and IN_REVIEW by submission actions.
type Report struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"branch_id"`
	OrderID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	Order         *LabOrder        `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID;references:ID" json:"order,omitempty"`
	Status        ReportStatus     `gorm:"type:varchar(32);not null;default:'DRAFT';index" json:"status"`
	Title         string           `json:"title,omitempty"`
	DiagnosisText string           `json:"diagnosis_text,omitempty"` // quick extract; the PDF is canonical
	PublishedAt   *time.Time       `json:"published_at,omitempty"`
	CreatedBy     *uuid.UUID       `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	Versions      []*ReportVersion `gorm:"foreignKey:ReportID;references:ID" json:"versions,omitempty"`
}

func (Report) TableName() string { return "report" }

// ReportVersion rows are immutable once written; exactly one per report is
// current, enforced by a partial unique index.
type ReportVersion struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReportID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"report_id"`
	Report        *Report    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ReportID;references:ID" json:"report,omitempty"`
	VersionNo     int        `gorm:"not null" json:"version_no"`
	PDFStorageID  *uuid.UUID `gorm:"type:uuid" json:"pdf_storage_id,omitempty"`
	HTMLStorageID *uuid.UUID `gorm:"type:uuid" json:"html_storage_id,omitempty"`
	Changelog     string     `json:"changelog,omitempty"`
	AuthoredBy    *uuid.UUID `gorm:"type:uuid" json:"authored_by,omitempty"`
	AuthoredAt    time.Time  `gorm:"not null;default:now()" json:"authored_at"`
	IsCurrent     bool       `gorm:"not null;default:false;index" json:"is_current"`
}

func (ReportVersion) TableName() string { return "report_version" }

func (v *ReportVersion) HasPDF() bool {
	return v != nil && v.PDFStorageID != nil
}
