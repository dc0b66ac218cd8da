package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type ReviewService interface {
	// SyncReviewers replaces the reviewer set for an order. Removed
	// reviewers are hard-deleted (no history, unlike assignee sync);
	// added reviewers start PENDING, pointed at the order's latest report
	// when one exists and backfilled later otherwise.
	SyncReviewers(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, desired []uuid.UUID) (*SyncResult, error)
	// Decide records an approve/reject by the assigned reviewer and
	// propagates the aggregate to the report status.
	Decide(ctx context.Context, rd *requestdata.RequestData, reviewID uuid.UUID, decision string, comment string) (*ReviewView, error)
	List(ctx context.Context, rd *requestdata.RequestData, filter repos.ReviewFilter) ([]*ReviewView, error)
}

type ReviewView struct {
	Review     *types.ReportReview `json:"review"`
	Reviewer   *UserRef            `json:"reviewer,omitempty"`
	AssignedBy *UserRef            `json:"assigned_by,omitempty"`
}

// reviewOutcome is what one decision does to the report.
type reviewOutcome struct {
	ReportStatus types.ReportStatus
	Changed      bool
	EventType    types.EventType
	EmitEvent    bool
}

// aggregateDecision applies the report-level rule: any single approval while
// the report is IN_REVIEW approves it; rejecting the only approval reverts
// an APPROVED report to IN_REVIEW. A rejection always announces itself even
// when the report status is untouched.
func aggregateDecision(prev, next types.ReviewStatus, reportStatus types.ReportStatus, otherApproved bool) reviewOutcome {
	out := reviewOutcome{ReportStatus: reportStatus}

	switch next {
	case types.ReviewStatusApproved:
		if reportStatus == types.ReportStatusInReview {
			out.ReportStatus = types.ReportStatusApproved
			out.Changed = true
			out.EventType = types.EventReportApproved
			out.EmitEvent = true
		}
	case types.ReviewStatusRejected:
		if prev == types.ReviewStatusApproved && reportStatus == types.ReportStatusApproved && !otherApproved {
			out.ReportStatus = types.ReportStatusInReview
			out.Changed = true
		}
		out.EventType = types.EventReportChangesRequested
		out.EmitEvent = true
	}

	return out
}

type reviewService struct {
	db           *gorm.DB
	log          *logger.Logger
	reviewRepo   repos.ReportReviewRepo
	orderRepo    repos.OrderRepo
	reportRepo   repos.ReportRepo
	userRepo     repos.UserRepo
	commentRepo  repos.CommentRepo
	eventService EventService
}

func NewReviewService(db *gorm.DB, log *logger.Logger, reviewRepo repos.ReportReviewRepo, orderRepo repos.OrderRepo, reportRepo repos.ReportRepo, userRepo repos.UserRepo, commentRepo repos.CommentRepo, eventService EventService) ReviewService {
	serviceLog := log.With("service", "ReviewService")
	return &reviewService{
		db:           db,
		log:          serviceLog,
		reviewRepo:   reviewRepo,
		orderRepo:    orderRepo,
		reportRepo:   reportRepo,
		userRepo:     userRepo,
		commentRepo:  commentRepo,
		eventService: eventService,
	}
}

func (s *reviewService) SyncReviewers(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, desired []uuid.UUID) (*SyncResult, error) {
	var result *SyncResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.syncReviewers(ctx, tx, rd, orderID, desired)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *reviewService) syncReviewers(ctx context.Context, tx *gorm.DB, rd *requestdata.RequestData, orderID uuid.UUID, desired []uuid.UUID) (*SyncResult, error) {
	order, err := s.orderRepo.GetByID(ctx, tx, orderID)
	if err != nil {
		return nil, mapNotFound(err, "order %s not found", orderID)
	}
	if order.TenantID != rd.TenantID {
		return nil, apierr.NotFound("order %s not found", orderID)
	}

	desiredUsers, err := requireTenantUsers(ctx, tx, s.userRepo, rd.TenantID, desired)
	if err != nil {
		return nil, err
	}

	// Current membership counts every review row regardless of status; a
	// reviewer who already decided is still a member.
	existing, err := s.reviewRepo.ListByOrder(ctx, tx, rd.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	current := make([]uuid.UUID, 0, len(existing))
	rowByUser := make(map[uuid.UUID]*types.ReportReview, len(existing))
	for _, review := range existing {
		current = append(current, review.ReviewerUserID)
		rowByUser[review.ReviewerUserID] = review
	}

	added, removed := ReconcileDiff(current, desired)

	if len(removed) > 0 {
		removeIDs := make([]uuid.UUID, 0, len(removed))
		for _, userID := range removed {
			removeIDs = append(removeIDs, rowByUser[userID].ID)
		}
		if err := s.reviewRepo.DeleteByIDs(ctx, tx, removeIDs); err != nil {
			return nil, err
		}
	}

	if len(added) > 0 {
		var reportID *uuid.UUID
		report, err := s.reportRepo.GetLatestByOrderID(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		if report != nil {
			reportID = &report.ID
		}

		actor := rd.UserID
		rows := make([]*types.ReportReview, 0, len(added))
		for _, userID := range added {
			rows = append(rows, &types.ReportReview{
				TenantID:         rd.TenantID,
				OrderID:          orderID,
				ReportID:         reportID,
				ReviewerUserID:   userID,
				AssignedByUserID: &actor,
				Status:           types.ReviewStatusPending,
			})
		}
		if _, err := s.reviewRepo.Create(ctx, tx, rows); err != nil {
			return nil, err
		}
	}

	if len(added) > 0 {
		addedUsers := make([]*types.AppUser, 0, len(added))
		for _, id := range added {
			addedUsers = append(addedUsers, desiredUsers[id])
		}
		if _, err := s.eventService.Emit(ctx, tx, EmitInput{
			TenantID:  rd.TenantID,
			BranchID:  order.BranchID,
			OrderID:   orderID,
			EventType: types.EventReviewersAdded,
			Metadata: map[string]interface{}{
				"reviewers": refPayload(addedUsers),
				"count":     len(added),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return nil, err
		}
	}
	if len(removed) > 0 {
		removedUsers, err := s.userRepo.GetByIDs(ctx, tx, removed)
		if err != nil {
			return nil, err
		}
		if _, err := s.eventService.Emit(ctx, tx, EmitInput{
			TenantID:  rd.TenantID,
			BranchID:  order.BranchID,
			OrderID:   orderID,
			EventType: types.EventReviewersRemoved,
			Metadata: map[string]interface{}{
				"reviewers": refPayload(removedUsers),
				"count":     len(removed),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return nil, err
		}
	}

	return &SyncResult{Added: added, Removed: removed}, nil
}

func (s *reviewService) Decide(ctx context.Context, rd *requestdata.RequestData, reviewID uuid.UUID, decision string, comment string) (*ReviewView, error) {
	var newStatus types.ReviewStatus
	switch decision {
	case "approved":
		newStatus = types.ReviewStatusApproved
	case "rejected":
		newStatus = types.ReviewStatusRejected
	default:
		return nil, apierr.Validation("invalid decision: %s", decision)
	}

	var view *ReviewView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		view, txErr = s.decide(ctx, tx, rd, reviewID, newStatus, comment)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *reviewService) decide(ctx context.Context, tx *gorm.DB, rd *requestdata.RequestData, reviewID uuid.UUID, newStatus types.ReviewStatus, comment string) (*ReviewView, error) {
	review, err := s.reviewRepo.GetByID(ctx, tx, reviewID)
	if err != nil {
		return nil, mapNotFound(err, "review %s not found", reviewID)
	}
	if review.TenantID != rd.TenantID {
		return nil, apierr.Forbidden("review does not belong to your tenant")
	}
	if review.ReviewerUserID != rd.UserID {
		return nil, apierr.Forbidden("only the assigned reviewer can make this decision")
	}

	report, err := s.reportRepo.GetLatestByOrderID(ctx, tx, review.OrderID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apierr.NotFound("report not found for this order")
	}

	actor, err := s.userRepo.GetByID(ctx, tx, rd.UserID)
	if err != nil {
		return nil, err
	}

	previousStatus := review.Status
	decidedAt := time.Now().UTC()
	if err := s.reviewRepo.UpdateDecision(ctx, tx, review.ID, newStatus, decidedAt); err != nil {
		return nil, err
	}
	review.Status = newStatus
	review.DecisionAt = &decidedAt

	otherApproved, err := s.reviewRepo.OtherApprovedExists(ctx, tx, review.OrderID, review.ID)
	if err != nil {
		return nil, err
	}

	outcome := aggregateDecision(previousStatus, newStatus, report.Status, otherApproved)
	if outcome.Changed {
		if err := s.reportRepo.UpdateStatus(ctx, tx, report.ID, outcome.ReportStatus); err != nil {
			return nil, err
		}
	}

	// Audit fact for the decision itself, separate from the report-level
	// aggregation event.
	if _, err := s.eventService.Emit(ctx, tx, EmitInput{
		TenantID:  review.TenantID,
		BranchID:  report.BranchID,
		OrderID:   review.OrderID,
		EventType: types.EventReviewDecision,
		Metadata: map[string]interface{}{
			"review_id":       review.ID.String(),
			"report_id":       report.ID.String(),
			"reviewer_id":     rd.UserID.String(),
			"previous_status": string(previousStatus),
			"new_status":      string(newStatus),
		},
		ActorID: rd.UserID,
	}); err != nil {
		return nil, err
	}

	if outcome.EmitEvent {
		if _, err := s.eventService.Emit(ctx, tx, EmitInput{
			TenantID:  review.TenantID,
			BranchID:  report.BranchID,
			OrderID:   review.OrderID,
			EventType: outcome.EventType,
			Metadata: map[string]interface{}{
				"report_id":              report.ID.String(),
				"reviewer_id":            rd.UserID.String(),
				"reviewer_name":          actor.DisplayName(),
				"previous_review_status": string(previousStatus),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return nil, err
		}
	}

	// A decision comment fans out to the order's comment thread too.
	if strings.TrimSpace(comment) != "" {
		raw, err := json.Marshal(map[string]interface{}{
			"source":    "review_decision",
			"report_id": report.ID.String(),
			"review_id": review.ID.String(),
			"decision":  strings.ToLower(string(newStatus)),
		})
		if err != nil {
			return nil, err
		}
		commentRow := &types.OrderComment{
			TenantID:  review.TenantID,
			BranchID:  report.BranchID,
			OrderID:   review.OrderID,
			CreatedBy: rd.UserID,
			Text:      comment,
			Metadata:  datatypes.JSON(raw),
		}
		if _, err := s.commentRepo.Create(ctx, tx, commentRow); err != nil {
			return nil, err
		}
	}

	s.log.Info("Review decision made",
		"order_id", review.OrderID.String(),
		"reviewer_id", rd.UserID.String(),
		"decision", string(newStatus),
		"previous", string(previousStatus),
	)

	return &ReviewView{
		Review:     review,
		Reviewer:   userToRef(actor),
		AssignedBy: lookupRef(ctx, tx, s.userRepo, review.AssignedByUserID),
	}, nil
}

func (s *reviewService) List(ctx context.Context, rd *requestdata.RequestData, filter repos.ReviewFilter) ([]*ReviewView, error) {
	reviews, err := s.reviewRepo.List(ctx, nil, rd.TenantID, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*ReviewView, 0, len(reviews))
	for _, review := range reviews {
		reviewerID := review.ReviewerUserID
		views = append(views, &ReviewView{
			Review:     review,
			Reviewer:   lookupRef(ctx, nil, s.userRepo, &reviewerID),
			AssignedBy: lookupRef(ctx, nil, s.userRepo, review.AssignedByUserID),
		})
	}
	return views, nil
}
