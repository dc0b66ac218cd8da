package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/types"
)

// EventService appends timeline facts. Emission happens on the caller's
// transaction so a rolled-back state change never leaves a stray event; there
// is no retry queue, this is an audit trail, not a message bus.
type EventService interface {
	Emit(ctx context.Context, tx *gorm.DB, e EmitInput) (uuid.UUID, error)
	ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*types.OrderEvent, error)
	ListBySample(ctx context.Context, tenantID, sampleID uuid.UUID) ([]*types.OrderEvent, error)
}

type EmitInput struct {
	TenantID  uuid.UUID
	BranchID  uuid.UUID
	OrderID   uuid.UUID
	SampleID  *uuid.UUID
	EventType types.EventType
	Metadata  map[string]interface{}
	ActorID   uuid.UUID
}

type eventService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.EventRepo
}

func NewEventService(db *gorm.DB, log *logger.Logger, eventRepo repos.EventRepo) EventService {
	serviceLog := log.With("service", "EventService")
	return &eventService{db: db, log: serviceLog, eventRepo: eventRepo}
}

func (s *eventService) Emit(ctx context.Context, tx *gorm.DB, e EmitInput) (uuid.UUID, error) {
	var metadata datatypes.JSON
	if e.Metadata != nil {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal event metadata: %w", err)
		}
		metadata = datatypes.JSON(raw)
	}

	var actor *uuid.UUID
	if e.ActorID != uuid.Nil {
		actor = &e.ActorID
	}

	event := &types.OrderEvent{
		TenantID:  e.TenantID,
		BranchID:  e.BranchID,
		OrderID:   e.OrderID,
		SampleID:  e.SampleID,
		EventType: e.EventType,
		Metadata:  metadata,
		CreatedBy: actor,
	}
	created, err := s.eventRepo.Create(ctx, tx, []*types.OrderEvent{event})
	if err != nil {
		return uuid.Nil, err
	}
	return created[0].ID, nil
}

func (s *eventService) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*types.OrderEvent, error) {
	return s.eventRepo.ListByOrder(ctx, nil, tenantID, orderID)
}

func (s *eventService) ListBySample(ctx context.Context, tenantID, sampleID uuid.UUID) ([]*types.OrderEvent, error) {
	return s.eventRepo.ListBySample(ctx, nil, tenantID, sampleID)
}
