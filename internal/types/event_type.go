package types

// EventType is a closed enum of timeline event kinds. New kinds are added
// here and migrated, never registered at runtime. The metadata payload is the
// canonical record; human-readable text is rendered at read time.
type EventType string

const (
	// Order lifecycle
	EventOrderCreated       EventType = "ORDER_CREATED"
	EventOrderUpdated       EventType = "ORDER_UPDATED"
	EventOrderCancelled     EventType = "ORDER_CANCELLED"
	EventOrderNoteAdded     EventType = "ORDER_NOTE_ADDED"
	EventOrderCommentAdded  EventType = "ORDER_COMMENT_ADDED"
	EventOrderDelivered     EventType = "ORDER_DELIVERED"
	EventPaymentLockChanged EventType = "PAYMENT_LOCK_CHANGED"
	EventPaymentRecorded    EventType = "PAYMENT_RECORDED"

	// Sample lifecycle
	EventSampleCreated      EventType = "SAMPLE_CREATED"
	EventSampleUpdated      EventType = "SAMPLE_UPDATED"
	EventSampleStateChanged EventType = "SAMPLE_STATE_CHANGED"
	EventSampleCancelled    EventType = "SAMPLE_CANCELLED"
	EventSampleImageAdded   EventType = "SAMPLE_IMAGE_ADDED"
	EventSampleImageRemoved EventType = "SAMPLE_IMAGE_REMOVED"

	// Report lifecycle
	EventReportCreated          EventType = "REPORT_CREATED"
	EventReportUpdated          EventType = "REPORT_UPDATED"
	EventReportSubmitted        EventType = "REPORT_SUBMITTED"
	EventReportApproved         EventType = "REPORT_APPROVED"
	EventReportChangesRequested EventType = "REPORT_CHANGES_REQUESTED"
	EventReportPublished        EventType = "REPORT_PUBLISHED"
	EventReportRetracted        EventType = "REPORT_RETRACTED"
	EventReportVersionCreated   EventType = "REPORT_VERSION_CREATED"
	EventReportDownloaded       EventType = "REPORT_DOWNLOADED"

	// Collaboration
	EventAssigneesAdded   EventType = "ASSIGNEES_ADDED"
	EventAssigneesRemoved EventType = "ASSIGNEES_REMOVED"
	EventReviewersAdded   EventType = "REVIEWERS_ADDED"
	EventReviewersRemoved EventType = "REVIEWERS_REMOVED"
	EventReviewDecision   EventType = "REVIEW_DECISION"
	EventLabelsAdded      EventType = "LABELS_ADDED"
	EventLabelsRemoved    EventType = "LABELS_REMOVED"

	// Billing (recorded only; calculations live elsewhere)
	EventInvoiceCreated EventType = "INVOICE_CREATED"
)
