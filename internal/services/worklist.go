package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/types"
)

const (
	WorklistKindAssignment = "assignment"
	WorklistKindReview     = "review"
)

// WorklistEntry is one row of a user's combined to-do list: either an active
// assignment or a pending review.
type WorklistEntry struct {
	Kind       string                   `json:"kind"`
	ID         uuid.UUID                `json:"id"`
	ItemType   types.AssignmentItemType `json:"item_type,omitempty"`
	ItemID     uuid.UUID                `json:"item_id"`
	OrderID    *uuid.UUID               `json:"order_id,omitempty"`
	Status     string                   `json:"status,omitempty"`
	AssignedAt time.Time                `json:"assigned_at"`
}

type WorklistPage struct {
	Entries  []*WorklistEntry `json:"entries"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// SortWorklist orders entries newest first; ties break on the entry id so the
// order is stable across requests.
func SortWorklist(entries []*WorklistEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].AssignedAt.Equal(entries[j].AssignedAt) {
			return entries[i].AssignedAt.After(entries[j].AssignedAt)
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})
}

// PaginateWorklist slices a sorted worklist. Pages are 1-based; out-of-range
// pages return an empty slice, not an error.
func PaginateWorklist(entries []*WorklistEntry, page, pageSize int) *WorklistPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(entries) {
		start = len(entries)
	}
	if end > len(entries) {
		end = len(entries)
	}
	return &WorklistPage{
		Entries:  entries[start:end],
		Total:    len(entries),
		Page:     page,
		PageSize: pageSize,
	}
}

// WorklistFilter narrows MyWork results. Zero values mean no filtering.
type WorklistFilter struct {
	Kind     string
	ItemType types.AssignmentItemType
}

type WorklistService interface {
	// MyWork returns the caller's active assignments and pending reviews
	// as one list, newest first.
	MyWork(ctx context.Context, rd *requestdata.RequestData, filter WorklistFilter, page, pageSize int) (*WorklistPage, error)
}

type worklistService struct {
	db             *gorm.DB
	log            *logger.Logger
	assignmentRepo repos.AssignmentRepo
	reviewRepo     repos.ReportReviewRepo
}

func NewWorklistService(db *gorm.DB, log *logger.Logger, assignmentRepo repos.AssignmentRepo, reviewRepo repos.ReportReviewRepo) WorklistService {
	serviceLog := log.With("service", "WorklistService")
	return &worklistService{
		db:             db,
		log:            serviceLog,
		assignmentRepo: assignmentRepo,
		reviewRepo:     reviewRepo,
	}
}

func (s *worklistService) MyWork(ctx context.Context, rd *requestdata.RequestData, filter WorklistFilter, page, pageSize int) (*WorklistPage, error) {
	entries := make([]*WorklistEntry, 0)

	if filter.Kind == "" || filter.Kind == WorklistKindAssignment {
		assignments, err := s.assignmentRepo.ListActiveByAssignee(ctx, nil, rd.TenantID, rd.UserID)
		if err != nil {
			return nil, err
		}
		for _, a := range assignments {
			if filter.ItemType != "" && a.ItemType != filter.ItemType {
				continue
			}
			entries = append(entries, &WorklistEntry{
				Kind:       WorklistKindAssignment,
				ID:         a.ID,
				ItemType:   a.ItemType,
				ItemID:     a.ItemID,
				AssignedAt: a.AssignedAt,
			})
		}
	}

	if filter.Kind == "" || filter.Kind == WorklistKindReview {
		reviews, err := s.reviewRepo.ListByReviewer(ctx, nil, rd.TenantID, rd.UserID)
		if err != nil {
			return nil, err
		}
		for _, r := range reviews {
			if r.Status != types.ReviewStatusPending {
				continue
			}
			if filter.ItemType != "" && filter.ItemType != types.ItemTypeLabOrder {
				continue
			}
			orderID := r.OrderID
			entries = append(entries, &WorklistEntry{
				Kind:       WorklistKindReview,
				ID:         r.ID,
				ItemID:     r.OrderID,
				OrderID:    &orderID,
				Status:     string(r.Status),
				AssignedAt: r.AssignedAt,
			})
		}
	}

	SortWorklist(entries)
	return PaginateWorklist(entries, page, pageSize), nil
}
