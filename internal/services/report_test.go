package services

import (
	"testing"

	"github.com/medtrace/pathlab-backend/internal/types"
)

func TestPlanRevisionAlwaysResetsReviews(t *testing.T) {
	// A review can be decided while the report is still DRAFT, or left
	// decided after a retraction. A new version invalidates those
	// decisions too, not just the in-review and approved ones.
	for _, status := range []types.ReportStatus{
		types.ReportStatusDraft,
		types.ReportStatusInReview,
		types.ReportStatusApproved,
		types.ReportStatusRetracted,
	} {
		eff := planRevision(status)
		if !eff.ResetReviews {
			t.Fatalf("%s: want reviews reset on revision", status)
		}
	}
}

func TestPlanRevisionReportStatus(t *testing.T) {
	tests := []struct {
		status types.ReportStatus
		want   types.ReportStatus
		revert bool
	}{
		{types.ReportStatusDraft, types.ReportStatusDraft, false},
		{types.ReportStatusInReview, types.ReportStatusInReview, false},
		{types.ReportStatusApproved, types.ReportStatusInReview, true},
		{types.ReportStatusRetracted, types.ReportStatusRetracted, false},
	}
	for _, tt := range tests {
		eff := planRevision(tt.status)
		if eff.ReportStatus != tt.want || eff.RevertReport != tt.revert {
			t.Fatalf("%s: want status=%s revert=%v got status=%s revert=%v",
				tt.status, tt.want, tt.revert, eff.ReportStatus, eff.RevertReport)
		}
	}
}
