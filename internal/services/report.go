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

type ReportService interface {
	Create(ctx context.Context, rd *requestdata.RequestData, in CreateReportInput) (*types.Report, error)
	// Submit moves a DRAFT report into IN_REVIEW. The order recompute runs
	// in the same transaction, so submitting without a pending reviewer
	// fails and leaves the report in DRAFT.
	Submit(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*types.Report, error)
	Publish(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*types.Report, error)
	Retract(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*types.Report, error)
	CreateVersion(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID, in CreateVersionInput) (*types.ReportVersion, error)
	Get(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*ReportView, error)
	ListByOrder(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID) ([]*types.Report, error)
}

type CreateReportInput struct {
	OrderID       uuid.UUID
	Title         string
	DiagnosisText string
}

type CreateVersionInput struct {
	PDFStorageID  *uuid.UUID
	HTMLStorageID *uuid.UUID
	Changelog     string
}

type ReportView struct {
	Report   *types.Report          `json:"report"`
	Versions []*types.ReportVersion `json:"versions"`
	Author   *UserRef               `json:"author,omitempty"`
}

type revisionEffect struct {
	ReportStatus types.ReportStatus
	RevertReport bool
	ResetReviews bool
}

// planRevision describes the side effects of cutting a new version while the
// report sits in the given status. Decisions attach to content, so reviews
// reset to PENDING no matter where the report is in its lifecycle; an
// APPROVED report additionally drops back to IN_REVIEW.
func planRevision(status types.ReportStatus) revisionEffect {
	eff := revisionEffect{ReportStatus: status, ResetReviews: true}
	if status == types.ReportStatusApproved {
		eff.ReportStatus = types.ReportStatusInReview
		eff.RevertReport = true
	}
	return eff
}

type reportService struct {
	db          *gorm.DB
	log         *logger.Logger
	reportRepo  repos.ReportRepo
	versionRepo repos.ReportVersionRepo
	orderRepo   repos.OrderRepo
	reviewRepo  repos.ReportReviewRepo
	userRepo    repos.UserRepo
	workflow    WorkflowService
	events      EventService
}

func NewReportService(db *gorm.DB, log *logger.Logger, reportRepo repos.ReportRepo, versionRepo repos.ReportVersionRepo, orderRepo repos.OrderRepo, reviewRepo repos.ReportReviewRepo, userRepo repos.UserRepo, workflow WorkflowService, events EventService) ReportService {
	serviceLog := log.With("service", "ReportService")
	return &reportService{
		db:          db,
		log:         serviceLog,
		reportRepo:  reportRepo,
		versionRepo: versionRepo,
		orderRepo:   orderRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		workflow:    workflow,
		events:      events,
	}
}

func (s *reportService) Create(ctx context.Context, rd *requestdata.RequestData, in CreateReportInput) (*types.Report, error) {
	var report *types.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByID(ctx, tx, in.OrderID)
		if err != nil {
			return mapNotFound(err, "order %s not found", in.OrderID)
		}
		if order.TenantID != rd.TenantID {
			return apierr.NotFound("order %s not found", in.OrderID)
		}
		if order.Status == types.OrderStatusCancelled {
			return apierr.Validation("cannot add a report to a cancelled order")
		}

		author := rd.UserID
		report = &types.Report{
			TenantID:      order.TenantID,
			BranchID:      order.BranchID,
			OrderID:       order.ID,
			Status:        types.ReportStatusDraft,
			Title:         in.Title,
			DiagnosisText: in.DiagnosisText,
			CreatedBy:     &author,
		}
		if _, err := s.reportRepo.Create(ctx, tx, report); err != nil {
			return err
		}

		// Reviewers assigned before any report existed now get attached
		// to this one.
		backfilled, err := s.reviewRepo.BackfillReportID(ctx, tx, order.ID, report.ID)
		if err != nil {
			return err
		}

		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  order.TenantID,
			BranchID:  order.BranchID,
			OrderID:   order.ID,
			EventType: types.EventReportCreated,
			Metadata: map[string]interface{}{
				"report_id":          report.ID.String(),
				"title":              in.Title,
				"reviews_backfilled": backfilled,
			},
			ActorID: rd.UserID,
		}); err != nil {
			return err
		}

		_, err = s.workflow.Recompute(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Submit(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*types.Report, error) {
	var report *types.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		report, err = s.getOwned(ctx, tx, rd, reportID)
		if err != nil {
			return err
		}
		if report.Status != types.ReportStatusDraft {
			return apierr.Validation("only a DRAFT report can be submitted, current status is %s", report.Status)
		}

		if err := s.reportRepo.UpdateStatus(ctx, tx, report.ID, types.ReportStatusInReview); err != nil {
			return err
		}
		report.Status = types.ReportStatusInReview

		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  report.TenantID,
			BranchID:  report.BranchID,
			OrderID:   report.OrderID,
			EventType: types.EventReportSubmitted,
			Metadata:  map[string]interface{}{"report_id": report.ID.String()},
			ActorID:   rd.UserID,
		}); err != nil {
			return err
		}

		_, err = s.workflow.Recompute(ctx, tx, report.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Publish(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*types.Report, error) {
	var report *types.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		report, err = s.getOwned(ctx, tx, rd, reportID)
		if err != nil {
			return err
		}
		if report.Status != types.ReportStatusApproved {
			return apierr.Validation("only an APPROVED report can be published, current status is %s", report.Status)
		}

		now := time.Now().UTC()
		if err := s.reportRepo.UpdateStatus(ctx, tx, report.ID, types.ReportStatusPublished); err != nil {
			return err
		}
		if err := s.reportRepo.SetPublishedAt(ctx, tx, report.ID, now); err != nil {
			return err
		}
		report.Status = types.ReportStatusPublished
		report.PublishedAt = &now

		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  report.TenantID,
			BranchID:  report.BranchID,
			OrderID:   report.OrderID,
			EventType: types.EventReportPublished,
			Metadata:  map[string]interface{}{"report_id": report.ID.String()},
			ActorID:   rd.UserID,
		}); err != nil {
			return err
		}

		_, err = s.workflow.Recompute(ctx, tx, report.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Retract(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*types.Report, error) {
	var report *types.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		report, err = s.getOwned(ctx, tx, rd, reportID)
		if err != nil {
			return err
		}
		if report.Status != types.ReportStatusPublished {
			return apierr.Validation("only a PUBLISHED report can be retracted, current status is %s", report.Status)
		}

		if err := s.reportRepo.UpdateStatus(ctx, tx, report.ID, types.ReportStatusRetracted); err != nil {
			return err
		}
		report.Status = types.ReportStatusRetracted

		// Retraction reopens the review cycle; every reviewer decides
		// again. Without any reviewer on the order the recompute below
		// fails and the retraction rolls back.
		reset, err := s.reviewRepo.ResetToPendingByOrder(ctx, tx, report.OrderID)
		if err != nil {
			return err
		}

		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  report.TenantID,
			BranchID:  report.BranchID,
			OrderID:   report.OrderID,
			EventType: types.EventReportRetracted,
			Metadata: map[string]interface{}{
				"report_id":     report.ID.String(),
				"reviews_reset": reset,
			},
			ActorID: rd.UserID,
		}); err != nil {
			return err
		}

		_, err = s.workflow.Recompute(ctx, tx, report.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) CreateVersion(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID, in CreateVersionInput) (*types.ReportVersion, error) {
	var version *types.ReportVersion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		report, err := s.getOwned(ctx, tx, rd, reportID)
		if err != nil {
			return err
		}
		if report.Status == types.ReportStatusPublished {
			return apierr.Validation("report is PUBLISHED; retract it before revising")
		}

		count, err := s.versionRepo.CountByReportID(ctx, tx, report.ID)
		if err != nil {
			return err
		}
		if err := s.versionRepo.ClearCurrent(ctx, tx, report.ID); err != nil {
			return err
		}

		author := rd.UserID
		version = &types.ReportVersion{
			ReportID:      report.ID,
			VersionNo:     int(count) + 1,
			PDFStorageID:  in.PDFStorageID,
			HTMLStorageID: in.HTMLStorageID,
			Changelog:     in.Changelog,
			AuthoredBy:    &author,
			IsCurrent:     true,
		}
		if _, err := s.versionRepo.Create(ctx, tx, version); err != nil {
			return err
		}

		eff := planRevision(report.Status)
		var reset int64
		if eff.ResetReviews {
			reset, err = s.reviewRepo.ResetToPendingByOrder(ctx, tx, report.OrderID)
			if err != nil {
				return err
			}
		}
		if eff.RevertReport {
			if err := s.reportRepo.UpdateStatus(ctx, tx, report.ID, eff.ReportStatus); err != nil {
				return err
			}
			report.Status = eff.ReportStatus
		}

		if _, err := s.events.Emit(ctx, tx, EmitInput{
			TenantID:  report.TenantID,
			BranchID:  report.BranchID,
			OrderID:   report.OrderID,
			EventType: types.EventReportVersionCreated,
			Metadata: map[string]interface{}{
				"report_id":     report.ID.String(),
				"version_no":    version.VersionNo,
				"has_pdf":       version.HasPDF(),
				"reviews_reset": reset,
			},
			ActorID: rd.UserID,
		}); err != nil {
			return err
		}

		_, err = s.workflow.Recompute(ctx, tx, report.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

func (s *reportService) Get(ctx context.Context, rd *requestdata.RequestData, reportID uuid.UUID) (*ReportView, error) {
	report, err := s.getOwned(ctx, nil, rd, reportID)
	if err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.ListByReportID(ctx, nil, report.ID)
	if err != nil {
		return nil, err
	}
	return &ReportView{
		Report:   report,
		Versions: versions,
		Author:   lookupRef(ctx, nil, s.userRepo, report.CreatedBy),
	}, nil
}

func (s *reportService) ListByOrder(ctx context.Context, rd *requestdata.RequestData, orderID uuid.UUID) ([]*types.Report, error) {
	order, err := s.orderRepo.GetByID(ctx, nil, orderID)
	if err != nil {
		return nil, mapNotFound(err, "order %s not found", orderID)
	}
	if order.TenantID != rd.TenantID {
		return nil, apierr.NotFound("order %s not found", orderID)
	}
	return s.reportRepo.ListByOrderID(ctx, nil, orderID)
}

func (s *reportService) getOwned(ctx context.Context, tx *gorm.DB, rd *requestdata.RequestData, reportID uuid.UUID) (*types.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, tx, reportID)
	if err != nil {
		return nil, mapNotFound(err, "report %s not found", reportID)
	}
	if report.TenantID != rd.TenantID {
		return nil, apierr.NotFound("report %s not found", reportID)
	}
	return report, nil
}
