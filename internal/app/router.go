package app

import (
	"github.com/gin-gonic/gin"

	"github.com/medtrace/pathlab-backend/internal/server"
)

func wireRouter(h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:       h.Auth,
		AuthMiddleware:    m.Auth,
		PatientHandler:    h.Patient,
		OrderHandler:      h.Order,
		SampleHandler:     h.Sample,
		ReportHandler:     h.Report,
		AssignmentHandler: h.Assignment,
		ReviewHandler:     h.Review,
		LabelHandler:      h.Label,
		WorklistHandler:   h.Worklist,
		DashboardHandler:  h.Dashboard,
	})
}
