package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *types.LabOrder) (*types.LabOrder, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LabOrder, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, status *types.OrderStatus) ([]*types.LabOrder, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.OrderStatus) error
	UpdateBilledLock(ctx context.Context, tx *gorm.DB, id uuid.UUID, locked bool) error
	UpdateNotes(ctx context.Context, tx *gorm.DB, id uuid.UUID, notes string) error
	CodeExistsForBranch(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, orderCode string) (bool, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, tenantID, branchID uuid.UUID, status types.OrderStatus) (int64, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	repoLog := baseLog.With("repo", "OrderRepo")
	return &orderRepo{db: db, log: repoLog}
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.LabOrder) (*types.LabOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LabOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.LabOrder
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *orderRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, status *types.OrderStatus) ([]*types.LabOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LabOrder
	q := transaction.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.OrderStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.LabOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()}).Error
}

func (r *orderRepo) UpdateBilledLock(ctx context.Context, tx *gorm.DB, id uuid.UUID, locked bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.LabOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"billed_lock": locked, "updated_at": time.Now().UTC()}).Error
}

func (r *orderRepo) UpdateNotes(ctx context.Context, tx *gorm.DB, id uuid.UUID, notes string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.LabOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"notes": notes, "updated_at": time.Now().UTC()}).Error
}

func (r *orderRepo) CodeExistsForBranch(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, orderCode string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LabOrder{}).
		Where("branch_id = ? AND order_code = ?", branchID, orderCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *orderRepo) CountByStatus(ctx context.Context, tx *gorm.DB, tenantID, branchID uuid.UUID, status types.OrderStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.LabOrder{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	if branchID != uuid.Nil {
		q = q.Where("branch_id = ?", branchID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
