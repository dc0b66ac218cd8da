package app

import (
	"github.com/medtrace/pathlab-backend/internal/handlers"
	"github.com/medtrace/pathlab-backend/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Patient    *handlers.PatientHandler
	Order      *handlers.OrderHandler
	Sample     *handlers.SampleHandler
	Report     *handlers.ReportHandler
	Assignment *handlers.AssignmentHandler
	Review     *handlers.ReviewHandler
	Label      *handlers.LabelHandler
	Worklist   *handlers.WorklistHandler
	Dashboard  *handlers.DashboardHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(log, s.Auth),
		Patient:    handlers.NewPatientHandler(log, s.Patient),
		Order:      handlers.NewOrderHandler(log, s.Order, s.Event),
		Sample:     handlers.NewSampleHandler(log, s.Sample, s.Event),
		Report:     handlers.NewReportHandler(log, s.Report),
		Assignment: handlers.NewAssignmentHandler(log, s.Assignment),
		Review:     handlers.NewReviewHandler(log, s.Review),
		Label:      handlers.NewLabelHandler(log, s.Label),
		Worklist:   handlers.NewWorklistHandler(log, s.Worklist),
		Dashboard:  handlers.NewDashboardHandler(log, s.Dashboard),
	}
}
