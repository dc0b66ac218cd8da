package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/medtrace/pathlab-backend/internal/handlers"
	"github.com/medtrace/pathlab-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	PatientHandler    *handlers.PatientHandler
	OrderHandler      *handlers.OrderHandler
	SampleHandler     *handlers.SampleHandler
	ReportHandler     *handlers.ReportHandler
	AssignmentHandler *handlers.AssignmentHandler
	ReviewHandler     *handlers.ReviewHandler
	LabelHandler      *handlers.LabelHandler
	WorklistHandler   *handlers.WorklistHandler
	DashboardHandler  *handlers.DashboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if env := os.Getenv("CORS_ALLOW_ORIGINS"); env != "" {
		allowOrigins = strings.Split(env, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)

	// Patients
	protected.POST("/patients", cfg.PatientHandler.Create)
	protected.GET("/patients", cfg.PatientHandler.List)
	protected.GET("/patients/:id", cfg.PatientHandler.Get)

	// Orders
	protected.POST("/orders", cfg.OrderHandler.Create)
	protected.GET("/orders", cfg.OrderHandler.List)
	protected.GET("/orders/:id", cfg.OrderHandler.Get)
	protected.POST("/orders/:id/cancel", cfg.OrderHandler.Cancel)
	protected.PUT("/orders/:id/billed-lock", cfg.OrderHandler.SetBilledLock)
	protected.PUT("/orders/:id/notes", cfg.OrderHandler.UpdateNotes)
	protected.POST("/orders/:id/comments", cfg.OrderHandler.AddComment)
	protected.GET("/orders/:id/comments", cfg.OrderHandler.ListComments)
	protected.GET("/orders/:id/timeline", cfg.OrderHandler.Timeline)

	// Samples
	protected.POST("/orders/:id/samples", cfg.SampleHandler.Create)
	protected.GET("/orders/:id/samples", cfg.SampleHandler.ListByOrder)
	protected.GET("/samples/:id", cfg.SampleHandler.Get)
	protected.PUT("/samples/:id/state", cfg.SampleHandler.UpdateState)
	protected.POST("/samples/:id/images", cfg.SampleHandler.AddImage)
	protected.GET("/samples/:id/images", cfg.SampleHandler.ListImages)
	protected.GET("/samples/:id/timeline", cfg.SampleHandler.Timeline)

	// Reports
	protected.POST("/orders/:id/reports", cfg.ReportHandler.Create)
	protected.GET("/orders/:id/reports", cfg.ReportHandler.ListByOrder)
	protected.GET("/reports/:id", cfg.ReportHandler.Get)
	protected.POST("/reports/:id/submit", cfg.ReportHandler.Submit)
	protected.POST("/reports/:id/publish", cfg.ReportHandler.Publish)
	protected.POST("/reports/:id/retract", cfg.ReportHandler.Retract)
	protected.POST("/reports/:id/versions", cfg.ReportHandler.CreateVersion)

	// Assignments
	protected.POST("/assignments", cfg.AssignmentHandler.Create)
	protected.GET("/assignments", cfg.AssignmentHandler.List)
	protected.DELETE("/assignments/:id", cfg.AssignmentHandler.Unassign)
	protected.PUT("/items/:type/:id/assignees", cfg.AssignmentHandler.SyncAssignees)

	// Reviews
	protected.PUT("/orders/:id/reviewers", cfg.ReviewHandler.SyncReviewers)
	protected.POST("/reviews/:id/decision", cfg.ReviewHandler.Decide)
	protected.GET("/reviews", cfg.ReviewHandler.List)

	// Labels
	protected.POST("/labels", cfg.LabelHandler.Create)
	protected.GET("/labels", cfg.LabelHandler.List)
	protected.DELETE("/labels/:id", cfg.LabelHandler.Delete)
	protected.PUT("/orders/:id/labels", cfg.LabelHandler.SyncOrderLabels)
	protected.PUT("/samples/:id/labels", cfg.LabelHandler.SyncSampleLabels)
	protected.GET("/samples/:id/labels", cfg.LabelHandler.EffectiveSampleLabels)

	// Worklist and dashboard
	protected.GET("/worklist", cfg.WorklistHandler.MyWork)
	protected.GET("/dashboard", cfg.DashboardHandler.Summary)

	return router
}
