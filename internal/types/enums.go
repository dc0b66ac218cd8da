package types

type OrderStatus string

const (
	OrderStatusReceived   OrderStatus = "RECEIVED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusDiagnosis  OrderStatus = "DIAGNOSIS"
	OrderStatusReview     OrderStatus = "REVIEW"
	OrderStatusReleased   OrderStatus = "RELEASED"
	OrderStatusClosed     OrderStatus = "CLOSED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type SampleState string

const (
	SampleStateReceived   SampleState = "RECEIVED"
	SampleStateProcessing SampleState = "PROCESSING"
	SampleStateReady      SampleState = "READY"
	SampleStateDamaged    SampleState = "DAMAGED"
	SampleStateCancelled  SampleState = "CANCELLED"
)

func (s SampleState) Valid() bool {
	switch s {
	case SampleStateReceived, SampleStateProcessing, SampleStateReady, SampleStateDamaged, SampleStateCancelled:
		return true
	}
	return false
}

type SampleType string

const (
	SampleTypeBlood  SampleType = "SANGRE"
	SampleTypeBiopsy SampleType = "BIOPSIA"
	SampleTypeSlide  SampleType = "LAMINILLA"
	SampleTypeTissue SampleType = "TEJIDO"
	SampleTypeOther  SampleType = "OTRO"
)

func (t SampleType) Valid() bool {
	switch t {
	case SampleTypeBlood, SampleTypeBiopsy, SampleTypeSlide, SampleTypeTissue, SampleTypeOther:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "DRAFT"
	ReportStatusInReview  ReportStatus = "IN_REVIEW"
	ReportStatusApproved  ReportStatus = "APPROVED"
	ReportStatusPublished ReportStatus = "PUBLISHED"
	ReportStatusRetracted ReportStatus = "RETRACTED"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

type AssignmentItemType string

const (
	ItemTypeLabOrder AssignmentItemType = "lab_order"
	ItemTypeSample   AssignmentItemType = "sample"
	ItemTypeReport   AssignmentItemType = "report"
)

func (t AssignmentItemType) Valid() bool {
	switch t {
	case ItemTypeLabOrder, ItemTypeSample, ItemTypeReport:
		return true
	}
	return false
}

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RolePathologist UserRole = "pathologist"
	RoleLabTech     UserRole = "lab_tech"
	RoleAssistant   UserRole = "assistant"
	RoleBilling     UserRole = "billing"
	RoleViewer      UserRole = "viewer"
)
