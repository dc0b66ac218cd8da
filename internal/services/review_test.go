package services

import (
	"testing"

	"github.com/medtrace/pathlab-backend/internal/types"
)

func TestAggregateDecisionApproveInReview(t *testing.T) {
	out := aggregateDecision(types.ReviewStatusPending, types.ReviewStatusApproved, types.ReportStatusInReview, false)
	if !out.Changed || out.ReportStatus != types.ReportStatusApproved {
		t.Fatalf("want report APPROVED, got changed=%v status=%v", out.Changed, out.ReportStatus)
	}
	if !out.EmitEvent || out.EventType != types.EventReportApproved {
		t.Fatalf("want REPORT_APPROVED event, got emit=%v type=%v", out.EmitEvent, out.EventType)
	}
}

func TestAggregateDecisionApproveAlreadyApproved(t *testing.T) {
	// Second approval changes nothing and stays silent.
	out := aggregateDecision(types.ReviewStatusPending, types.ReviewStatusApproved, types.ReportStatusApproved, true)
	if out.Changed {
		t.Fatalf("want no change, got status=%v", out.ReportStatus)
	}
	if out.EmitEvent {
		t.Fatalf("want no event, got type=%v", out.EventType)
	}
}

func TestAggregateDecisionApproveDraftReport(t *testing.T) {
	out := aggregateDecision(types.ReviewStatusPending, types.ReviewStatusApproved, types.ReportStatusDraft, false)
	if out.Changed || out.EmitEvent {
		t.Fatalf("approval of a non-submitted report must be a no-op, got changed=%v emit=%v", out.Changed, out.EmitEvent)
	}
}

func TestAggregateDecisionRejectSoleApprovalReverts(t *testing.T) {
	out := aggregateDecision(types.ReviewStatusApproved, types.ReviewStatusRejected, types.ReportStatusApproved, false)
	if !out.Changed || out.ReportStatus != types.ReportStatusInReview {
		t.Fatalf("want report back to IN_REVIEW, got changed=%v status=%v", out.Changed, out.ReportStatus)
	}
	if !out.EmitEvent || out.EventType != types.EventReportChangesRequested {
		t.Fatalf("want REPORT_CHANGES_REQUESTED event, got emit=%v type=%v", out.EmitEvent, out.EventType)
	}
}

func TestAggregateDecisionRejectWithOtherApprovalKeepsApproved(t *testing.T) {
	out := aggregateDecision(types.ReviewStatusApproved, types.ReviewStatusRejected, types.ReportStatusApproved, true)
	if out.Changed {
		t.Fatalf("another approval exists, report must stay APPROVED; got status=%v", out.ReportStatus)
	}
	if !out.EmitEvent || out.EventType != types.EventReportChangesRequested {
		t.Fatalf("rejection must still announce itself, got emit=%v type=%v", out.EmitEvent, out.EventType)
	}
}

func TestAggregateDecisionRejectPendingReview(t *testing.T) {
	// Rejecting from PENDING never touches the report status but does emit.
	out := aggregateDecision(types.ReviewStatusPending, types.ReviewStatusRejected, types.ReportStatusInReview, false)
	if out.Changed {
		t.Fatalf("want no report change, got status=%v", out.ReportStatus)
	}
	if !out.EmitEvent || out.EventType != types.EventReportChangesRequested {
		t.Fatalf("want REPORT_CHANGES_REQUESTED event, got emit=%v type=%v", out.EmitEvent, out.EventType)
	}
}
