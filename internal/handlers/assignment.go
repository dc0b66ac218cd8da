package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/services"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type AssignmentHandler struct {
	log           *logger.Logger
	assignmentSvc services.AssignmentService
}

func NewAssignmentHandler(log *logger.Logger, assignmentSvc services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		log:           log.With("handler", "AssignmentHandler"),
		assignmentSvc: assignmentSvc,
	}
}

// POST /api/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	rd := currentRequestData(c)
	var body struct {
		ItemType       string `json:"item_type" binding:"required"`
		ItemID         string `json:"item_id" binding:"required"`
		AssigneeUserID string `json:"assignee_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	itemID, err := uuid.Parse(body.ItemID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
		return
	}
	assigneeID, err := uuid.Parse(body.AssigneeUserID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_assignee_user_id", err)
		return
	}

	view, err := h.assignmentSvc.Create(c.Request.Context(), rd, services.CreateAssignmentInput{
		ItemType:       types.AssignmentItemType(body.ItemType),
		ItemID:         itemID,
		AssigneeUserID: assigneeID,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, view)
}

// DELETE /api/assignments/:id
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	rd := currentRequestData(c)
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_assignment_id", err)
		return
	}

	if err := h.assignmentSvc.Unassign(c.Request.Context(), rd, assignmentID); err != nil {
		RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	rd := currentRequestData(c)
	filter := repos.AssignmentFilter{}
	if s := c.Query("item_type"); s != "" {
		v := types.AssignmentItemType(s)
		filter.ItemType = &v
	}
	if s := c.Query("item_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
			return
		}
		filter.ItemID = &id
	}
	if s := c.Query("assignee_user_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_assignee_user_id", err)
			return
		}
		filter.AssigneeUserID = &id
	}
	if c.Query("include_unassigned") == "true" {
		filter.IncludeUnassigned = true
	}

	views, err := h.assignmentSvc.List(c.Request.Context(), rd, filter)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"assignments": views})
}

// PUT /api/items/:type/:id/assignees
func (h *AssignmentHandler) SyncAssignees(c *gin.Context) {
	rd := currentRequestData(c)
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
		return
	}
	var body struct {
		AssigneeUserIDs []string `json:"assignee_user_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	desired, err := parseUUIDs(body.AssigneeUserIDs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_assignee_user_ids", err)
		return
	}

	result, err := h.assignmentSvc.SyncAssignees(c.Request.Context(), rd, types.AssignmentItemType(c.Param("type")), itemID, desired)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, result)
}

func parseUUIDs(in []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
