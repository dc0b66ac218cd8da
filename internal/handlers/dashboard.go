package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/services"
)

type DashboardHandler struct {
	log          *logger.Logger
	dashboardSvc services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboardSvc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		log:          log.With("handler", "DashboardHandler"),
		dashboardSvc: dashboardSvc,
	}
}

// GET /api/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	rd := currentRequestData(c)
	branchID := uuid.Nil
	if s := c.Query("branch_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_branch_id", err)
			return
		}
		branchID = id
	}

	summary, err := h.dashboardSvc.Summary(c.Request.Context(), rd, branchID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, summary)
}
