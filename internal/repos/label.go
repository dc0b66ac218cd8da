package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type LabelRepo interface {
	Create(ctx context.Context, tx *gorm.DB, label *types.Label) (*types.Label, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Label, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Label, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.Label, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	ListOrderLabels(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.OrderLabel, error)
	AttachToOrder(ctx context.Context, tx *gorm.DB, rows []*types.OrderLabel) error
	DetachFromOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, labelIDs []uuid.UUID) error

	ListSampleLabels(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) ([]*types.SampleLabel, error)
	AttachToSample(ctx context.Context, tx *gorm.DB, rows []*types.SampleLabel) error
	DetachFromSample(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID, labelIDs []uuid.UUID) error
}

type labelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLabelRepo(db *gorm.DB, baseLog *logger.Logger) LabelRepo {
	repoLog := baseLog.With("repo", "LabelRepo")
	return &labelRepo{db: db, log: repoLog}
}

func (r *labelRepo) Create(ctx context.Context, tx *gorm.DB, label *types.Label) (*types.Label, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(label).Error; err != nil {
		return nil, err
	}
	return label, nil
}

func (r *labelRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Label, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Label
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *labelRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Label, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Label
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *labelRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.Label, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Label
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *labelRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Label{}).Error
}

func (r *labelRepo) ListOrderLabels(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.OrderLabel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OrderLabel
	if err := transaction.WithContext(ctx).
		Preload("Label").
		Where("order_id = ?", orderID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *labelRepo) AttachToOrder(ctx context.Context, tx *gorm.DB, rows []*types.OrderLabel) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *labelRepo) DetachFromOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, labelIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(labelIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("order_id = ? AND label_id IN ?", orderID, labelIDs).
		Delete(&types.OrderLabel{}).Error
}

func (r *labelRepo) ListSampleLabels(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID) ([]*types.SampleLabel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SampleLabel
	if err := transaction.WithContext(ctx).
		Preload("Label").
		Where("sample_id = ?", sampleID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *labelRepo) AttachToSample(ctx context.Context, tx *gorm.DB, rows []*types.SampleLabel) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *labelRepo) DetachFromSample(ctx context.Context, tx *gorm.DB, sampleID uuid.UUID, labelIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(labelIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("sample_id = ? AND label_id IN ?", sampleID, labelIDs).
		Delete(&types.SampleLabel{}).Error
}
