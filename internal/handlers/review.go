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

type ReviewHandler struct {
	log       *logger.Logger
	reviewSvc services.ReviewService
}

func NewReviewHandler(log *logger.Logger, reviewSvc services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		log:       log.With("handler", "ReviewHandler"),
		reviewSvc: reviewSvc,
	}
}

// PUT /api/orders/:id/reviewers
func (h *ReviewHandler) SyncReviewers(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}
	var body struct {
		ReviewerUserIDs []string `json:"reviewer_user_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	desired, err := parseUUIDs(body.ReviewerUserIDs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_reviewer_user_ids", err)
		return
	}

	result, err := h.reviewSvc.SyncReviewers(c.Request.Context(), rd, orderID, desired)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, result)
}

// POST /api/reviews/:id/decision
func (h *ReviewHandler) Decide(c *gin.Context) {
	rd := currentRequestData(c)
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_review_id", err)
		return
	}
	var body struct {
		Decision string `json:"decision" binding:"required"`
		Comment  string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	view, err := h.reviewSvc.Decide(c.Request.Context(), rd, reviewID, body.Decision, body.Comment)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// GET /api/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	rd := currentRequestData(c)
	filter := repos.ReviewFilter{}
	if s := c.Query("order_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
			return
		}
		filter.OrderID = &id
	}
	if s := c.Query("reviewer_user_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_reviewer_user_id", err)
			return
		}
		filter.ReviewerUserID = &id
	}
	if s := c.Query("status"); s != "" {
		v := types.ReviewStatus(s)
		filter.Status = &v
	}

	views, err := h.reviewSvc.List(c.Request.Context(), rd, filter)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"reviews": views})
}
