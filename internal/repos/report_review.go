package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type ReviewFilter struct {
	OrderID        *uuid.UUID
	ReviewerUserID *uuid.UUID
	Status         *types.ReviewStatus
}

type ReportReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reviews []*types.ReportReview) ([]*types.ReportReview, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReportReview, error)
	List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, filter ReviewFilter) ([]*types.ReportReview, error)
	ListByOrder(ctx context.Context, tx *gorm.DB, tenantID, orderID uuid.UUID) ([]*types.ReportReview, error)
	ListByReviewer(ctx context.Context, tx *gorm.DB, tenantID, reviewerUserID uuid.UUID) ([]*types.ReportReview, error)
	// DeleteByIDs hard-deletes; reviewer reconciliation intentionally keeps
	// no history for removed reviewers, unlike assignments.
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	UpdateDecision(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ReviewStatus, decisionAt time.Time) error
	// ResetToPendingByOrder forces every review row for the order back to
	// PENDING with a null decision_at, returning how many rows changed.
	ResetToPendingByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error)
	// BackfillReportID points every nil-report review row of the order at
	// the given report.
	BackfillReportID(ctx context.Context, tx *gorm.DB, orderID, reportID uuid.UUID) (int64, error)
	HasPendingForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, reportID *uuid.UUID) (bool, error)
	OtherApprovedExists(ctx context.Context, tx *gorm.DB, orderID, excludeReviewID uuid.UUID) (bool, error)
}

type reportReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReportReviewRepo {
	repoLog := baseLog.With("repo", "ReportReviewRepo")
	return &reportReviewRepo{db: db, log: repoLog}
}

func (r *reportReviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.ReportReview) ([]*types.ReportReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(reviews) == 0 {
		return []*types.ReportReview{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reportReviewRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReportReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ReportReview
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reportReviewRepo) List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, filter ReviewFilter) ([]*types.ReportReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", *filter.OrderID)
	}
	if filter.ReviewerUserID != nil {
		q = q.Where("reviewer_user_id = ?", *filter.ReviewerUserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var results []*types.ReportReview
	if err := q.Order("assigned_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportReviewRepo) ListByOrder(ctx context.Context, tx *gorm.DB, tenantID, orderID uuid.UUID) ([]*types.ReportReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ReportReview
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("assigned_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportReviewRepo) ListByReviewer(ctx context.Context, tx *gorm.DB, tenantID, reviewerUserID uuid.UUID) ([]*types.ReportReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ReportReview
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND reviewer_user_id = ?", tenantID, reviewerUserID).
		Order("assigned_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportReviewRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ReportReview{}).Error
}

func (r *reportReviewRepo) UpdateDecision(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ReviewStatus, decisionAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ReportReview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "decision_at": decisionAt}).Error
}

func (r *reportReviewRepo) ResetToPendingByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.ReportReview{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{"status": types.ReviewStatusPending, "decision_at": nil})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *reportReviewRepo) BackfillReportID(ctx context.Context, tx *gorm.DB, orderID, reportID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.ReportReview{}).
		Where("order_id = ? AND report_id IS NULL", orderID).
		Update("report_id", reportID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *reportReviewRepo) HasPendingForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, reportID *uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.ReportReview{}).
		Where("order_id = ? AND status = ?", orderID, types.ReviewStatusPending)
	if reportID != nil {
		q = q.Where("report_id = ? OR report_id IS NULL", *reportID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reportReviewRepo) OtherApprovedExists(ctx context.Context, tx *gorm.DB, orderID, excludeReviewID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ReportReview{}).
		Where("order_id = ? AND status = ? AND id <> ?", orderID, types.ReviewStatusApproved, excludeReviewID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
