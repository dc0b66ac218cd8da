package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type DashboardService interface {
	// Summary returns order and sample counts for the tenant, optionally
	// narrowed to one branch (uuid.Nil means all branches).
	Summary(ctx context.Context, rd *requestdata.RequestData, branchID uuid.UUID) (*DashboardSummary, error)
}

type DashboardSummary struct {
	OrdersByStatus  map[types.OrderStatus]int64 `json:"orders_by_status"`
	SamplesByState  map[types.SampleState]int64 `json:"samples_by_state"`
	OpenOrders      int64                       `json:"open_orders"`
	AwaitingReview  int64                       `json:"awaiting_review"`
	ReadyForRelease int64                       `json:"ready_for_release"`
}

type dashboardService struct {
	db         *gorm.DB
	log        *logger.Logger
	orderRepo  repos.OrderRepo
	sampleRepo repos.SampleRepo
}

func NewDashboardService(db *gorm.DB, log *logger.Logger, orderRepo repos.OrderRepo, sampleRepo repos.SampleRepo) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		db:         db,
		log:        serviceLog,
		orderRepo:  orderRepo,
		sampleRepo: sampleRepo,
	}
}

var dashboardOrderStatuses = []types.OrderStatus{
	types.OrderStatusReceived,
	types.OrderStatusProcessing,
	types.OrderStatusDiagnosis,
	types.OrderStatusReview,
	types.OrderStatusReleased,
	types.OrderStatusClosed,
	types.OrderStatusCancelled,
}

var dashboardSampleStates = []types.SampleState{
	types.SampleStateReceived,
	types.SampleStateProcessing,
	types.SampleStateReady,
	types.SampleStateDamaged,
	types.SampleStateCancelled,
}

func (s *dashboardService) Summary(ctx context.Context, rd *requestdata.RequestData, branchID uuid.UUID) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		OrdersByStatus: make(map[types.OrderStatus]int64, len(dashboardOrderStatuses)),
		SamplesByState: make(map[types.SampleState]int64, len(dashboardSampleStates)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, status := range dashboardOrderStatuses {
		status := status
		g.Go(func() error {
			count, err := s.orderRepo.CountByStatus(gctx, nil, rd.TenantID, branchID, status)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.OrdersByStatus[status] = count
			mu.Unlock()
			return nil
		})
	}
	for _, state := range dashboardSampleStates {
		state := state
		g.Go(func() error {
			count, err := s.sampleRepo.CountByState(gctx, nil, rd.TenantID, branchID, state)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.SamplesByState[state] = count
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.OpenOrders = summary.OrdersByStatus[types.OrderStatusReceived] +
		summary.OrdersByStatus[types.OrderStatusProcessing] +
		summary.OrdersByStatus[types.OrderStatusDiagnosis] +
		summary.OrdersByStatus[types.OrderStatusReview]
	summary.AwaitingReview = summary.OrdersByStatus[types.OrderStatusReview]
	summary.ReadyForRelease = summary.OrdersByStatus[types.OrderStatusClosed]
	return summary, nil
}
