package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type ReportVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, version *types.ReportVersion) (*types.ReportVersion, error)
	GetCurrent(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (*types.ReportVersion, error)
	ListByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]*types.ReportVersion, error)
	// ClearCurrent unmarks the current version so a new one can take the
	// partial-unique slot within the same transaction.
	ClearCurrent(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) error
	CountByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (int64, error)
}

type reportVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportVersionRepo(db *gorm.DB, baseLog *logger.Logger) ReportVersionRepo {
	repoLog := baseLog.With("repo", "ReportVersionRepo")
	return &reportVersionRepo{db: db, log: repoLog}
}

func (r *reportVersionRepo) Create(ctx context.Context, tx *gorm.DB, version *types.ReportVersion) (*types.ReportVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

func (r *reportVersionRepo) GetCurrent(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (*types.ReportVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ReportVersion
	if err := transaction.WithContext(ctx).
		Where("report_id = ? AND is_current", reportID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *reportVersionRepo) ListByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]*types.ReportVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ReportVersion
	if err := transaction.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("version_no ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportVersionRepo) ClearCurrent(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ReportVersion{}).
		Where("report_id = ? AND is_current", reportID).
		Update("is_current", false).Error
}

func (r *reportVersionRepo) CountByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ReportVersion{}).
		Where("report_id = ?", reportID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
