package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type SampleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sample *types.Sample) (*types.Sample, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Sample, error)
	ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.Sample, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.Sample, error)
	UpdateState(ctx context.Context, tx *gorm.DB, id uuid.UUID, state types.SampleState) error
	CodeExistsForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, sampleCode string) (bool, error)
	CountByState(ctx context.Context, tx *gorm.DB, tenantID, branchID uuid.UUID, state types.SampleState) (int64, error)
	CreateImage(ctx context.Context, tx *gorm.DB, image *types.SampleImage) (*types.SampleImage, error)
	ListImages(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) ([]*types.SampleImage, error)
}

type sampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSampleRepo(db *gorm.DB, baseLog *logger.Logger) SampleRepo {
	repoLog := baseLog.With("repo", "SampleRepo")
	return &sampleRepo{db: db, log: repoLog}
}

func (r *sampleRepo) Create(ctx context.Context, tx *gorm.DB, sample *types.Sample) (*types.Sample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(sample).Error; err != nil {
		return nil, err
	}
	return sample, nil
}

func (r *sampleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Sample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Sample
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *sampleRepo) ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.Sample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Sample
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sampleRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.Sample, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Sample
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sampleRepo) UpdateState(ctx context.Context, tx *gorm.DB, id uuid.UUID, state types.SampleState) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Sample{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"state": state, "updated_at": time.Now().UTC()}).Error
}

func (r *sampleRepo) CodeExistsForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, sampleCode string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Sample{}).
		Where("order_id = ? AND sample_code = ?", orderID, sampleCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sampleRepo) CountByState(ctx context.Context, tx *gorm.DB, tenantID, branchID uuid.UUID, state types.SampleState) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.Sample{}).
		Where("tenant_id = ? AND state = ?", tenantID, state)
	if branchID != uuid.Nil {
		q = q.Where("branch_id = ?", branchID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sampleRepo) CreateImage(ctx context.Context, tx *gorm.DB, image *types.SampleImage) (*types.SampleImage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

func (r *sampleRepo) ListImages(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) ([]*types.SampleImage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SampleImage
	if err := transaction.WithContext(ctx).
		Where("sample_id = ?", sampleID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
