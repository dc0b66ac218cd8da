package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
)

// EventRepo is append-only by design: there is no update or delete. Timeline
// rows live and die with the transaction that created them.
type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.OrderEvent) ([]*types.OrderEvent, error)
	ListByOrder(ctx context.Context, tx *gorm.DB, tenantID, orderID uuid.UUID) ([]*types.OrderEvent, error)
	ListBySample(ctx context.Context, tx *gorm.DB, tenantID, sampleID uuid.UUID) ([]*types.OrderEvent, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (r *eventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.OrderEvent) ([]*types.OrderEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(events) == 0 {
		return []*types.OrderEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) ListByOrder(ctx context.Context, tx *gorm.DB, tenantID, orderID uuid.UUID) ([]*types.OrderEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OrderEvent
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *eventRepo) ListBySample(ctx context.Context, tx *gorm.DB, tenantID, sampleID uuid.UUID) ([]*types.OrderEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OrderEvent
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND sample_id = ?", tenantID, sampleID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
