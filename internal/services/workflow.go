package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/types"
)

// WorkflowService owns order status derivation. Order status is never set
// directly (cancellation aside): it is recomputed from sample states, the
// latest report status and the payment lock after every mutation that could
// move it. Keeping derivation and its report-driven triggers in one service
// avoids the report->order->report import cycle.
type WorkflowService interface {
	// Recompute re-derives and persists the order's status. Idempotent: a
	// second call with no intervening change writes nothing. A guard
	// failure (REVIEW with no pending reviewer) returns a validation
	// error; callers run Recompute inside their own transaction, so the
	// failure aborts the triggering change too.
	Recompute(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (types.OrderStatus, error)
}

// DeriveInput is the full read-only input of the derivation function.
type DeriveInput struct {
	CurrentStatus    types.OrderStatus
	SampleStates     []types.SampleState
	HasReport        bool
	ReportStatus     types.ReportStatus
	HasPendingReview bool
	BilledLock       bool
}

// DeriveOrderStatus is the status engine as a pure function. Precedence:
//
//  1. no samples                      -> RECEIVED (stop)
//  2. all samples still RECEIVED     -> RECEIVED
//  3. any sample progressed          -> PROCESSING
//  4. a report exists                -> DIAGNOSIS
//  5. report IN_REVIEW or RETRACTED  -> REVIEW, guarded: requires a pending
//     reviewer, otherwise a validation error
//  6. report APPROVED or PUBLISHED   -> CLOSED, then RELEASED when the
//     payment lock is off
//
// CANCELLED is sticky: once an order is cancelled the derivation returns it
// unchanged rather than resurrecting the order.
func DeriveOrderStatus(in DeriveInput) (types.OrderStatus, error) {
	if in.CurrentStatus == types.OrderStatusCancelled {
		return types.OrderStatusCancelled, nil
	}

	if len(in.SampleStates) == 0 {
		return types.OrderStatusReceived, nil
	}

	status := types.OrderStatusReceived
	for _, state := range in.SampleStates {
		if state != types.SampleStateReceived {
			status = types.OrderStatusProcessing
			break
		}
	}

	if !in.HasReport {
		return status, nil
	}
	status = types.OrderStatusDiagnosis

	switch in.ReportStatus {
	case types.ReportStatusInReview, types.ReportStatusRetracted:
		if !in.HasPendingReview {
			return "", apierr.Validation("order cannot enter REVIEW: no pending reviewer assigned to the report")
		}
		status = types.OrderStatusReview
	case types.ReportStatusApproved, types.ReportStatusPublished:
		status = types.OrderStatusClosed
		if !in.BilledLock {
			status = types.OrderStatusReleased
		}
	}

	return status, nil
}

type workflowService struct {
	db         *gorm.DB
	log        *logger.Logger
	orderRepo  repos.OrderRepo
	sampleRepo repos.SampleRepo
	reportRepo repos.ReportRepo
	reviewRepo repos.ReportReviewRepo
}

func NewWorkflowService(db *gorm.DB, log *logger.Logger, orderRepo repos.OrderRepo, sampleRepo repos.SampleRepo, reportRepo repos.ReportRepo, reviewRepo repos.ReportReviewRepo) WorkflowService {
	serviceLog := log.With("service", "WorkflowService")
	return &workflowService{
		db:         db,
		log:        serviceLog,
		orderRepo:  orderRepo,
		sampleRepo: sampleRepo,
		reportRepo: reportRepo,
		reviewRepo: reviewRepo,
	}
}

func (s *workflowService) Recompute(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (types.OrderStatus, error) {
	order, err := s.orderRepo.GetByID(ctx, tx, orderID)
	if err != nil {
		return "", err
	}

	samples, err := s.sampleRepo.ListByOrderID(ctx, tx, orderID)
	if err != nil {
		return "", err
	}
	states := make([]types.SampleState, 0, len(samples))
	for _, sample := range samples {
		states = append(states, sample.State)
	}

	report, err := s.reportRepo.GetLatestByOrderID(ctx, tx, orderID)
	if err != nil {
		return "", err
	}

	in := DeriveInput{
		CurrentStatus: order.Status,
		SampleStates:  states,
		BilledLock:    order.BilledLock,
	}
	if report != nil {
		in.HasReport = true
		in.ReportStatus = report.Status
		hasPending, err := s.reviewRepo.HasPendingForOrder(ctx, tx, orderID, &report.ID)
		if err != nil {
			return "", err
		}
		in.HasPendingReview = hasPending
	}

	status, err := DeriveOrderStatus(in)
	if err != nil {
		return "", err
	}

	if status == order.Status {
		return status, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, status); err != nil {
		return "", err
	}
	s.log.Debug("Order status recomputed", "order_id", orderID.String(), "from", string(order.Status), "to", string(status))
	return status, nil
}
