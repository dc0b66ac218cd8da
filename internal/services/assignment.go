package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type AssignmentService interface {
	Create(ctx context.Context, rd *requestdata.RequestData, in CreateAssignmentInput) (*AssignmentView, error)
	Unassign(ctx context.Context, rd *requestdata.RequestData, assignmentID uuid.UUID) error
	List(ctx context.Context, rd *requestdata.RequestData, filter repos.AssignmentFilter) ([]*AssignmentView, error)
	// SyncAssignees replaces the active assignee set for an item. Removed
	// users are soft-deleted (history kept), added users get fresh rows,
	// untouched users keep their original assigned_at. One batched event
	// per non-empty side of the diff.
	SyncAssignees(ctx context.Context, rd *requestdata.RequestData, itemType types.AssignmentItemType, itemID uuid.UUID, desired []uuid.UUID) (*SyncResult, error)
}

type CreateAssignmentInput struct {
	ItemType       types.AssignmentItemType
	ItemID         uuid.UUID
	AssigneeUserID uuid.UUID
}

type AssignmentView struct {
	Assignment *types.Assignment `json:"assignment"`
	Assignee   *UserRef          `json:"assignee,omitempty"`
	AssignedBy *UserRef          `json:"assigned_by,omitempty"`
}

type SyncResult struct {
	Added   []uuid.UUID `json:"added"`
	Removed []uuid.UUID `json:"removed"`
}

type assignmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	assignmentRepo repos.AssignmentRepo
	userRepo       repos.UserRepo
	orderRepo      repos.OrderRepo
	sampleRepo     repos.SampleRepo
	reportRepo     repos.ReportRepo
	eventService   EventService
}

func NewAssignmentService(db *gorm.DB, log *logger.Logger, assignmentRepo repos.AssignmentRepo, userRepo repos.UserRepo, orderRepo repos.OrderRepo, sampleRepo repos.SampleRepo, reportRepo repos.ReportRepo, eventService EventService) AssignmentService {
	serviceLog := log.With("service", "AssignmentService")
	return &assignmentService{
		db:             db,
		log:            serviceLog,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		orderRepo:      orderRepo,
		sampleRepo:     sampleRepo,
		reportRepo:     reportRepo,
		eventService:   eventService,
	}
}

// resolveItem checks the item exists within the tenant and returns the order
// and branch its timeline events belong to.
func (s *assignmentService) resolveItem(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, itemType types.AssignmentItemType, itemID uuid.UUID) (orderID, branchID uuid.UUID, err error) {
	switch itemType {
	case types.ItemTypeLabOrder:
		order, err := s.orderRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return uuid.Nil, uuid.Nil, mapNotFound(err, "order %s not found", itemID)
		}
		if order.TenantID != tenantID {
			return uuid.Nil, uuid.Nil, apierr.NotFound("order %s not found", itemID)
		}
		return order.ID, order.BranchID, nil
	case types.ItemTypeSample:
		sample, err := s.sampleRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return uuid.Nil, uuid.Nil, mapNotFound(err, "sample %s not found", itemID)
		}
		if sample.TenantID != tenantID {
			return uuid.Nil, uuid.Nil, apierr.NotFound("sample %s not found", itemID)
		}
		return sample.OrderID, sample.BranchID, nil
	case types.ItemTypeReport:
		report, err := s.reportRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return uuid.Nil, uuid.Nil, mapNotFound(err, "report %s not found", itemID)
		}
		if report.TenantID != tenantID {
			return uuid.Nil, uuid.Nil, apierr.NotFound("report %s not found", itemID)
		}
		return report.OrderID, report.BranchID, nil
	default:
		return uuid.Nil, uuid.Nil, apierr.Validation("invalid item_type: %s", itemType)
	}
}

func (s *assignmentService) Create(ctx context.Context, rd *requestdata.RequestData, in CreateAssignmentInput) (*AssignmentView, error) {
	if !in.ItemType.Valid() {
		return nil, apierr.Validation("invalid item_type: %s", in.ItemType)
	}

	var view *AssignmentView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignee, err := s.userRepo.GetByID(ctx, tx, in.AssigneeUserID)
		if err != nil || assignee.TenantID != rd.TenantID {
			return apierr.Validation("user %s not found in tenant", in.AssigneeUserID)
		}

		if _, _, err := s.resolveItem(ctx, tx, rd.TenantID, in.ItemType, in.ItemID); err != nil {
			return err
		}

		existing, err := s.assignmentRepo.FindActive(ctx, tx, rd.TenantID, in.ItemType, in.ItemID, in.AssigneeUserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apierr.Conflict("assignment already exists")
		}

		actor := rd.UserID
		assignment := &types.Assignment{
			TenantID:         rd.TenantID,
			ItemType:         in.ItemType,
			ItemID:           in.ItemID,
			AssigneeUserID:   in.AssigneeUserID,
			AssignedByUserID: &actor,
		}
		if _, err := s.assignmentRepo.Create(ctx, tx, []*types.Assignment{assignment}); err != nil {
			return err
		}

		view = &AssignmentView{
			Assignment: assignment,
			Assignee:   userToRef(assignee),
			AssignedBy: lookupRef(ctx, tx, s.userRepo, &actor),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *assignmentService) Unassign(ctx context.Context, rd *requestdata.RequestData, assignmentID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		assignment, err := s.assignmentRepo.GetByID(ctx, tx, assignmentID)
		if err != nil {
			return mapNotFound(err, "assignment %s not found", assignmentID)
		}
		if assignment.TenantID != rd.TenantID {
			return apierr.Forbidden("assignment does not belong to your tenant")
		}
		if assignment.UnassignedAt != nil {
			return apierr.Validation("assignment already unassigned")
		}
		return s.assignmentRepo.Unassign(ctx, tx, []uuid.UUID{assignmentID}, time.Now().UTC())
	})
}

func (s *assignmentService) List(ctx context.Context, rd *requestdata.RequestData, filter repos.AssignmentFilter) ([]*AssignmentView, error) {
	assignments, err := s.assignmentRepo.List(ctx, nil, rd.TenantID, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		assigneeID := a.AssigneeUserID
		views = append(views, &AssignmentView{
			Assignment: a,
			Assignee:   lookupRef(ctx, nil, s.userRepo, &assigneeID),
			AssignedBy: lookupRef(ctx, nil, s.userRepo, a.AssignedByUserID),
		})
	}
	return views, nil
}

func (s *assignmentService) SyncAssignees(ctx context.Context, rd *requestdata.RequestData, itemType types.AssignmentItemType, itemID uuid.UUID, desired []uuid.UUID) (*SyncResult, error) {
	if !itemType.Valid() {
		return nil, apierr.Validation("invalid item_type: %s", itemType)
	}

	var result *SyncResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.syncAssignees(ctx, tx, rd, itemType, itemID, desired)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *assignmentService) syncAssignees(ctx context.Context, tx *gorm.DB, rd *requestdata.RequestData, itemType types.AssignmentItemType, itemID uuid.UUID, desired []uuid.UUID) (*SyncResult, error) {
	orderID, branchID, err := s.resolveItem(ctx, tx, rd.TenantID, itemType, itemID)
	if err != nil {
		return nil, err
	}

	desiredUsers, err := requireTenantUsers(ctx, tx, s.userRepo, rd.TenantID, desired)
	if err != nil {
		return nil, err
	}

	active, err := s.assignmentRepo.ListActiveByItem(ctx, tx, rd.TenantID, itemType, itemID)
	if err != nil {
		return nil, err
	}
	current := make([]uuid.UUID, 0, len(active))
	rowByUser := make(map[uuid.UUID]*types.Assignment, len(active))
	for _, a := range active {
		current = append(current, a.AssigneeUserID)
		rowByUser[a.AssigneeUserID] = a
	}

	added, removed := ReconcileDiff(current, desired)

	if len(removed) > 0 {
		removeIDs := make([]uuid.UUID, 0, len(removed))
		for _, userID := range removed {
			removeIDs = append(removeIDs, rowByUser[userID].ID)
		}
		if err := s.assignmentRepo.Unassign(ctx, tx, removeIDs, time.Now().UTC()); err != nil {
			return nil, err
		}
	}

	if len(added) > 0 {
		actor := rd.UserID
		rows := make([]*types.Assignment, 0, len(added))
		for _, userID := range added {
			rows = append(rows, &types.Assignment{
				TenantID:         rd.TenantID,
				ItemType:         itemType,
				ItemID:           itemID,
				AssigneeUserID:   userID,
				AssignedByUserID: &actor,
			})
		}
		if _, err := s.assignmentRepo.Create(ctx, tx, rows); err != nil {
			return nil, err
		}
	}

	// One event per side of the diff, carrying the whole batch.
	if len(added) > 0 {
		addedUsers := make([]*types.AppUser, 0, len(added))
		for _, id := range added {
			addedUsers = append(addedUsers, desiredUsers[id])
		}
		if _, err := s.eventService.Emit(ctx, tx, EmitInput{
			TenantID:  rd.TenantID,
			BranchID:  branchID,
			OrderID:   orderID,
			EventType: types.EventAssigneesAdded,
			Metadata: map[string]interface{}{
				"item_type": string(itemType),
				"item_id":   itemID.String(),
				"assignees": refPayload(addedUsers),
				"count":     len(added),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return nil, err
		}
	}
	if len(removed) > 0 {
		removedUsers, err := s.userRepo.GetByIDs(ctx, tx, removed)
		if err != nil {
			return nil, err
		}
		if _, err := s.eventService.Emit(ctx, tx, EmitInput{
			TenantID:  rd.TenantID,
			BranchID:  branchID,
			OrderID:   orderID,
			EventType: types.EventAssigneesRemoved,
			Metadata: map[string]interface{}{
				"item_type": string(itemType),
				"item_id":   itemID.String(),
				"assignees": refPayload(removedUsers),
				"count":     len(removed),
			},
			ActorID: rd.UserID,
		}); err != nil {
			return nil, err
		}
	}

	return &SyncResult{Added: added, Removed: removed}, nil
}
