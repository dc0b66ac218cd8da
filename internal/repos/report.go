package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type ReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, report *types.Report) (*types.Report, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Report, error)
	// GetLatestByOrderID returns the most recently created report for the
	// order, or nil when none exists. Status derivation keys off this row.
	GetLatestByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Report, error)
	ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.Report, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ReportStatus) error
	SetPublishedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	repoLog := baseLog.With("repo", "ReportRepo")
	return &reportRepo{db: db, log: repoLog}
}

func (r *reportRepo) Create(ctx context.Context, tx *gorm.DB, report *types.Report) (*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Report
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reportRepo) GetLatestByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Report
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *reportRepo) ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.Report, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Report
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ReportStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()}).Error
}

func (r *reportRepo) SetPublishedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"published_at": at, "updated_at": time.Now().UTC()}).Error
}
