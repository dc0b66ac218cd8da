package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type OrderService interface {
	Create(ctx context.Context, rd *requestdata.RequestData, in CreateOrderInput) (*types.LabOrder, error)
	Get(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID) (*OrderView, error)
	List(ctx context.Context, rd *requestdata.RequestData, status *types.OrderStatus) ([]*types.LabOrder, error)
	// Cancel is the one direct status write. A cancelled order stays
	// cancelled regardless of later sample or report activity.
	Cancel(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, reason string) (*types.LabOrder, error)
	// SetBilledLock flips the payment lock and recomputes the status, so a
	// fully approved order moves between CLOSED and RELEASED.
	SetBilledLock(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, locked bool) (*types.LabOrder, error)
	UpdateNotes(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, notes string) (*types.LabOrder, error)
	AddComment(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, text string) (*types.OrderComment, error)
	ListComments(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID) ([]*types.OrderComment, error)
}

type CreateOrderInput struct {
	PatientID   uuid.UUID
	OrderCode   string
	RequestedBy string
	Notes       string
}

type OrderView struct {
	Order        *types.LabOrder `json:"order"`
	Patient      *types.Patient  `json:"patient,omitempty"`
	Samples      []*types.Sample `json:"samples"`
	LatestReport *types.Report   `json:"latest_report,omitempty"`
	Labels       []*types.Label  `json:"labels"`
}

type orderService struct {
	db          *gorm.DB
	log         *logger.Logger
	orderRepo   repos.OrderRepo
	sampleRepo  repos.SampleRepo
	reportRepo  repos.ReportRepo
	patientRepo repos.PatientRepo
	commentRepo repos.CommentRepo
	labelRepo   repos.LabelRepo
	workflow    WorkflowService
	events      EventService
}

func NewOrderService(db *gorm.DB, log *logger.Logger, orderRepo repos.OrderRepo, sampleRepo repos.SampleRepo, reportRepo repos.ReportRepo, patientRepo repos.PatientRepo, commentRepo repos.CommentRepo, labelRepo repos.LabelRepo, workflow WorkflowService, events EventService) OrderService {
	serviceLog := log.With("service", "OrderService")
	return &orderService{
		db:          db,
		log:         serviceLog,
		orderRepo:   orderRepo,
		sampleRepo:  sampleRepo,
		reportRepo:  reportRepo,
		patientRepo: patientRepo,
		commentRepo: commentRepo,
		labelRepo:   labelRepo,
		workflow:    workflow,
		events:      events,
	}
}

func (s *orderService) Create(ctx context.Context, rd *requestdata.RequestData, in CreateOrderInput) (*types.LabOrder, error) {
	if strings.TrimSpace(in.OrderCode) == "" {
		return nil, apierr.Validation("order_code is required")
	}

	var order *types.LabOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		patient, err := s.patientRepo.GetByID(ctx, tx, in.PatientID)
		if err != nil {
			return mapNotFound(err, "patient %s not found", in.PatientID)
		}
		if patient.TenantID != rd.TenantID {
			return apierr.NotFound("patient %s not found", in.PatientID)
		}

		exists, err := s.orderRepo.CodeExistsForBranch(ctx, tx, rd.BranchID, in.OrderCode)
		if err != nil {
			return err
		}
		if exists {
			return apierr.Conflict("order code %s already used in this branch", in.OrderCode)
		}

		creator := rd.UserID
		order = &types.LabOrder{
			TenantID:    rd.TenantID,
			BranchID:    rd.BranchID,
			PatientID:   in.PatientID,
			OrderCode:   in.OrderCode,
			Status:      types.OrderStatusReceived,
			RequestedBy: in.RequestedBy,
			Notes:       in.Notes,
			CreatedBy:   &creator,
		}
		if _, err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		_, err = s.events.Emit(ctx, tx, EmitInput{
			TenantID:  order.TenantID,
			BranchID:  order.BranchID,
			OrderID:   order.ID,
			EventType: types.EventOrderCreated,
			Metadata: map[string]interface{}{
				"order_code": order.OrderCode,
				"patient_id": order.PatientID.String(),
			},
			ActorID: rd.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) Get(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID) (*OrderView, error) {
	order, err := s.getOwned(ctx, nil, rd, orderID)
	if err != nil {
		return nil, err
	}

	samples, err := s.sampleRepo.ListByOrderID(ctx, nil, order.ID)
	if err != nil {
		return nil, err
	}
	report, err := s.reportRepo.GetLatestByOrderID(ctx, nil, order.ID)
	if err != nil {
		return nil, err
	}

	view := &OrderView{
		Order:        order,
		Samples:      samples,
		LatestReport: report,
		Labels:       []*types.Label{},
	}
	if patient, err := s.patientRepo.GetByID(ctx, nil, order.PatientID); err == nil {
		view.Patient = patient
	}
	if orderLabels, err := s.labelRepo.ListOrderLabels(ctx, nil, order.ID); err == nil {
		for _, ol := range orderLabels {
			if ol.Label != nil {
				view.Labels = append(view.Labels, ol.Label)
			}
		}
	}
	return view, nil
}

func (s *orderService) List(ctx context.Context, rd *requestdata.RequestData, status *types.OrderStatus) ([]*types.LabOrder, error) {
	return s.orderRepo.ListByTenant(ctx, nil, rd.TenantID, status)
}

func (s *orderService) Cancel(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, reason string) (*types.LabOrder, error) {
	var order *types.LabOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.getOwned(ctx, tx, rd, orderID)
		if err != nil {
			return err
		}
		if order.Status == types.OrderStatusCancelled {
			return apierr.Validation("order is already cancelled")
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, types.OrderStatusCancelled); err != nil {
			return err
		}
		order.Status = types.OrderStatusCancelled

		_, err = s.events.Emit(ctx, tx, EmitInput{
			TenantID:  order.TenantID,
			BranchID:  order.BranchID,
			OrderID:   order.ID,
			EventType: types.EventOrderCancelled,
			Metadata: map[string]interface{}{
				"order_code": order.OrderCode,
				"reason":     reason,
			},
			ActorID: rd.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) SetBilledLock(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, locked bool) (*types.LabOrder, error) {
	var order *types.LabOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.getOwned(ctx, tx, rd, orderID)
		if err != nil {
			return err
		}
		if order.BilledLock == locked {
			return nil
		}

		if err := s.orderRepo.UpdateBilledLock(ctx, tx, order.ID, locked); err != nil {
			return err
		}
		order.BilledLock = locked

		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  order.TenantID,
			BranchID:  order.BranchID,
			OrderID:   order.ID,
			EventType: types.EventPaymentLockChanged,
			Metadata: map[string]interface{}{
				"order_code": order.OrderCode,
				"locked":     locked,
			},
			ActorID: rd.UserID,
		}); err != nil {
			return err
		}

		status, err := s.workflow.Recompute(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateNotes(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, notes string) (*types.LabOrder, error) {
	var order *types.LabOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.getOwned(ctx, tx, rd, orderID)
		if err != nil {
			return err
		}

		if err := s.orderRepo.UpdateNotes(ctx, tx, order.ID, notes); err != nil {
			return err
		}
		order.Notes = notes

		_, err = s.events.Emit(ctx, tx, EmitInput{
			TenantID:  order.TenantID,
			BranchID:  order.BranchID,
			OrderID:   order.ID,
			EventType: types.EventOrderNoteAdded,
			Metadata:  map[string]interface{}{"order_code": order.OrderCode},
			ActorID:   rd.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) AddComment(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID, text string) (*types.OrderComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierr.Validation("comment text is required")
	}

	var comment *types.OrderComment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.getOwned(ctx, tx, rd, orderID)
		if err != nil {
			return err
		}

		comment = &types.OrderComment{
			TenantID:  order.TenantID,
			BranchID:  order.BranchID,
			OrderID:   order.ID,
			CreatedBy: rd.UserID,
			Text:      text,
		}
		if _, err := s.commentRepo.Create(ctx, tx, comment); err != nil {
			return err
		}

		_, err = s.events.Emit(ctx, tx, EmitInput{
			TenantID:  order.TenantID,
			BranchID:  order.BranchID,
			OrderID:   order.ID,
			EventType: types.EventOrderCommentAdded,
			Metadata:  map[string]interface{}{"comment_id": comment.ID.String()},
			ActorID:   rd.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *orderService) ListComments(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID) ([]*types.OrderComment, error) {
	if _, err := s.getOwned(ctx, nil, rd, orderID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByOrder(ctx, nil, rd.TenantID, orderID)
}

func (s *orderService) getOwned(ctx context.Context, tx *gorm.DB, rd *requestdata.RequestData, orderID uuid.UUID) (*types.LabOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, tx, orderID)
	if err != nil {
		return nil, mapNotFound(err, "order %s not found", orderID)
	}
	if order.TenantID != rd.TenantID {
		return nil, apierr.NotFound("order %s not found", orderID)
	}
	return order, nil
}
