package services

import (
	"errors"
	"testing"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/types"
)

func TestDeriveOrderStatusNoSamples(t *testing.T) {
	status, err := DeriveOrderStatus(DeriveInput{CurrentStatus: types.OrderStatusReceived})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != types.OrderStatusReceived {
		t.Fatalf("want=%v got=%v", types.OrderStatusReceived, status)
	}
}

func TestDeriveOrderStatusNoSamplesIgnoresReport(t *testing.T) {
	// Zero samples short-circuits: even with a report present the order
	// stays RECEIVED.
	status, err := DeriveOrderStatus(DeriveInput{
		CurrentStatus: types.OrderStatusReceived,
		HasReport:     true,
		ReportStatus:  types.ReportStatusDraft,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != types.OrderStatusReceived {
		t.Fatalf("want=%v got=%v", types.OrderStatusReceived, status)
	}
}

func TestDeriveOrderStatusSampleProgression(t *testing.T) {
	tests := []struct {
		name   string
		states []types.SampleState
		want   types.OrderStatus
	}{
		{"all received", []types.SampleState{types.SampleStateReceived, types.SampleStateReceived}, types.OrderStatusReceived},
		{"one progressed", []types.SampleState{types.SampleStateReceived, types.SampleStateProcessing}, types.OrderStatusProcessing},
		{"all ready", []types.SampleState{types.SampleStateReady, types.SampleStateReady}, types.OrderStatusProcessing},
		{"damaged counts as progress", []types.SampleState{types.SampleStateDamaged}, types.OrderStatusProcessing},
		{"cancelled sample counts as progress", []types.SampleState{types.SampleStateCancelled}, types.OrderStatusProcessing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := DeriveOrderStatus(DeriveInput{
				CurrentStatus: types.OrderStatusReceived,
				SampleStates:  tt.states,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status != tt.want {
				t.Fatalf("want=%v got=%v", tt.want, status)
			}
		})
	}
}

func TestDeriveOrderStatusReportOverridesSamples(t *testing.T) {
	status, err := DeriveOrderStatus(DeriveInput{
		CurrentStatus: types.OrderStatusProcessing,
		SampleStates:  []types.SampleState{types.SampleStateReceived},
		HasReport:     true,
		ReportStatus:  types.ReportStatusDraft,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != types.OrderStatusDiagnosis {
		t.Fatalf("want=%v got=%v", types.OrderStatusDiagnosis, status)
	}
}

func TestDeriveOrderStatusReviewRequiresPendingReviewer(t *testing.T) {
	_, err := DeriveOrderStatus(DeriveInput{
		CurrentStatus: types.OrderStatusDiagnosis,
		SampleStates:  []types.SampleState{types.SampleStateReady},
		HasReport:     true,
		ReportStatus:  types.ReportStatusInReview,
	})
	if err == nil {
		t.Fatal("expected validation error when no pending reviewer exists")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected apierr.Error, got %T", err)
	}
	if apiErr.Status != 400 {
		t.Fatalf("want status=400 got=%d", apiErr.Status)
	}
}

func TestDeriveOrderStatusReviewWithPendingReviewer(t *testing.T) {
	for _, reportStatus := range []types.ReportStatus{types.ReportStatusInReview, types.ReportStatusRetracted} {
		status, err := DeriveOrderStatus(DeriveInput{
			CurrentStatus:    types.OrderStatusDiagnosis,
			SampleStates:     []types.SampleState{types.SampleStateReady},
			HasReport:        true,
			ReportStatus:     reportStatus,
			HasPendingReview: true,
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", reportStatus, err)
		}
		if status != types.OrderStatusReview {
			t.Fatalf("%s: want=%v got=%v", reportStatus, types.OrderStatusReview, status)
		}
	}
}

func TestDeriveOrderStatusApprovedAndLock(t *testing.T) {
	tests := []struct {
		name         string
		reportStatus types.ReportStatus
		billedLock   bool
		want         types.OrderStatus
	}{
		{"approved locked", types.ReportStatusApproved, true, types.OrderStatusClosed},
		{"approved unlocked", types.ReportStatusApproved, false, types.OrderStatusReleased},
		{"published locked", types.ReportStatusPublished, true, types.OrderStatusClosed},
		{"published unlocked", types.ReportStatusPublished, false, types.OrderStatusReleased},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := DeriveOrderStatus(DeriveInput{
				CurrentStatus: types.OrderStatusReview,
				SampleStates:  []types.SampleState{types.SampleStateReady},
				HasReport:     true,
				ReportStatus:  tt.reportStatus,
				BilledLock:    tt.billedLock,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status != tt.want {
				t.Fatalf("want=%v got=%v", tt.want, status)
			}
		})
	}
}

func TestDeriveOrderStatusCancelledIsSticky(t *testing.T) {
	status, err := DeriveOrderStatus(DeriveInput{
		CurrentStatus: types.OrderStatusCancelled,
		SampleStates:  []types.SampleState{types.SampleStateReady},
		HasReport:     true,
		ReportStatus:  types.ReportStatusPublished,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != types.OrderStatusCancelled {
		t.Fatalf("want=%v got=%v", types.OrderStatusCancelled, status)
	}
}

func TestDeriveOrderStatusIdempotent(t *testing.T) {
	in := DeriveInput{
		CurrentStatus:    types.OrderStatusReview,
		SampleStates:     []types.SampleState{types.SampleStateReady, types.SampleStateProcessing},
		HasReport:        true,
		ReportStatus:     types.ReportStatusInReview,
		HasPendingReview: true,
	}
	first, err := DeriveOrderStatus(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.CurrentStatus = first
	second, err := DeriveOrderStatus(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("derivation not stable: first=%v second=%v", first, second)
	}
}
