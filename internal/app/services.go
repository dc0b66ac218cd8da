package app

import (
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Patient    services.PatientService
	Bucket     services.BucketService
	Event      services.EventService
	Workflow   services.WorkflowService
	Order      services.OrderService
	Sample     services.SampleService
	Report     services.ReportService
	Assignment services.AssignmentService
	Review     services.ReviewService
	Label      services.LabelService
	Worklist   services.WorklistService
	Dashboard  services.DashboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	bucket, err := services.NewBucketService(log, r.StorageObject)
	if err != nil {
		return Services{}, err
	}

	event := services.NewEventService(db, log, r.Event)
	workflow := services.NewWorkflowService(db, log, r.Order, r.Sample, r.Report, r.ReportReview)

	return Services{
		Auth:       services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Patient:    services.NewPatientService(db, log, r.Patient),
		Bucket:     bucket,
		Event:      event,
		Workflow:   workflow,
		Order:      services.NewOrderService(db, log, r.Order, r.Sample, r.Report, r.Patient, r.Comment, r.Label, workflow, event),
		Sample:     services.NewSampleService(db, log, r.Sample, r.Order, r.StorageObject, workflow, event, bucket),
		Report:     services.NewReportService(db, log, r.Report, r.ReportVersion, r.Order, r.ReportReview, r.User, workflow, event),
		Assignment: services.NewAssignmentService(db, log, r.Assignment, r.User, r.Order, r.Sample, r.Report, event),
		Review:     services.NewReviewService(db, log, r.ReportReview, r.Order, r.Report, r.User, r.Comment, event),
		Label:      services.NewLabelService(db, log, r.Label, r.Order, r.Sample, event),
		Worklist:   services.NewWorklistService(db, log, r.Assignment, r.ReportReview),
		Dashboard:  services.NewDashboardService(db, log, r.Order, r.Sample),
	}, nil
}
