package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type StorageObjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, obj *types.StorageObject) (*types.StorageObject, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.StorageObject, error)
}

type storageObjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStorageObjectRepo(db *gorm.DB, baseLog *logger.Logger) StorageObjectRepo {
	repoLog := baseLog.With("repo", "StorageObjectRepo")
	return &storageObjectRepo{db: db, log: repoLog}
}

func (r *storageObjectRepo) Create(ctx context.Context, tx *gorm.DB, obj *types.StorageObject) (*types.StorageObject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(obj).Error; err != nil {
		return nil, err
	}
	return obj, nil
}

func (r *storageObjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.StorageObject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.StorageObject
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
