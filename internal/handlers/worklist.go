package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/services"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type WorklistHandler struct {
	log         *logger.Logger
	worklistSvc services.WorklistService
}

func NewWorklistHandler(log *logger.Logger, worklistSvc services.WorklistService) *WorklistHandler {
	return &WorklistHandler{
		log:         log.With("handler", "WorklistHandler"),
		worklistSvc: worklistSvc,
	}
}

// GET /api/worklist
func (h *WorklistHandler) MyWork(c *gin.Context) {
	rd := currentRequestData(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	filter := services.WorklistFilter{
		Kind:     c.Query("kind"),
		ItemType: types.AssignmentItemType(c.Query("item_type")),
	}

	result, err := h.worklistSvc.MyWork(c.Request.Context(), rd, filter, page, pageSize)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, result)
}
