package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type AssignmentFilter struct {
	ItemType           *types.AssignmentItemType
	ItemID             *uuid.UUID
	AssigneeUserID     *uuid.UUID
	IncludeUnassigned  bool
}

type AssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignments []*types.Assignment) ([]*types.Assignment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assignment, error)
	List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, filter AssignmentFilter) ([]*types.Assignment, error)
	ListActiveByItem(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, itemType types.AssignmentItemType, itemID uuid.UUID) ([]*types.Assignment, error)
	ListActiveByAssignee(ctx context.Context, tx *gorm.DB, tenantID, assigneeUserID uuid.UUID) ([]*types.Assignment, error)
	FindActive(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, itemType types.AssignmentItemType, itemID, assigneeUserID uuid.UUID) (*types.Assignment, error)
	// Unassign soft-deletes: sets unassigned_at, preserving history.
	Unassign(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, at time.Time) error
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	repoLog := baseLog.With("repo", "AssignmentRepo")
	return &assignmentRepo{db: db, log: repoLog}
}

func (r *assignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignments []*types.Assignment) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(assignments) == 0 {
		return []*types.Assignment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Assignment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *assignmentRepo) List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, filter AssignmentFilter) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.ItemType != nil {
		q = q.Where("item_type = ?", *filter.ItemType)
	}
	if filter.ItemID != nil {
		q = q.Where("item_id = ?", *filter.ItemID)
	}
	if filter.AssigneeUserID != nil {
		q = q.Where("assignee_user_id = ?", *filter.AssigneeUserID)
	}
	if !filter.IncludeUnassigned {
		q = q.Where("unassigned_at IS NULL")
	}

	var results []*types.Assignment
	if err := q.Order("assigned_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assignmentRepo) ListActiveByItem(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, itemType types.AssignmentItemType, itemID uuid.UUID) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assignment
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND item_type = ? AND item_id = ? AND unassigned_at IS NULL", tenantID, itemType, itemID).
		Order("assigned_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assignmentRepo) ListActiveByAssignee(ctx context.Context, tx *gorm.DB, tenantID, assigneeUserID uuid.UUID) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assignment
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND assignee_user_id = ? AND unassigned_at IS NULL", tenantID, assigneeUserID).
		Order("assigned_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assignmentRepo) FindActive(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, itemType types.AssignmentItemType, itemID, assigneeUserID uuid.UUID) (*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assignment
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND item_type = ? AND item_id = ? AND assignee_user_id = ? AND unassigned_at IS NULL",
			tenantID, itemType, itemID, assigneeUserID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *assignmentRepo) Unassign(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Assignment{}).
		Where("id IN ? AND unassigned_at IS NULL", ids).
		Update("unassigned_at", at).Error
}
