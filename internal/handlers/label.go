package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/services"
)

type LabelHandler struct {
	log      *logger.Logger
	labelSvc services.LabelService
}

func NewLabelHandler(log *logger.Logger, labelSvc services.LabelService) *LabelHandler {
	return &LabelHandler{
		log:      log.With("handler", "LabelHandler"),
		labelSvc: labelSvc,
	}
}

// POST /api/labels
func (h *LabelHandler) Create(c *gin.Context) {
	rd := currentRequestData(c)
	var body struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	label, err := h.labelSvc.Create(c.Request.Context(), rd, body.Name, body.Color)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"label": label})
}

// GET /api/labels
func (h *LabelHandler) List(c *gin.Context) {
	rd := currentRequestData(c)
	labels, err := h.labelSvc.List(c.Request.Context(), rd)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"labels": labels})
}

// DELETE /api/labels/:id
func (h *LabelHandler) Delete(c *gin.Context) {
	rd := currentRequestData(c)
	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_label_id", err)
		return
	}

	if err := h.labelSvc.Delete(c.Request.Context(), rd, labelID); err != nil {
		RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/orders/:id/labels
func (h *LabelHandler) SyncOrderLabels(c *gin.Context) {
	h.sync(c, "order")
}

// PUT /api/samples/:id/labels
func (h *LabelHandler) SyncSampleLabels(c *gin.Context) {
	h.sync(c, "sample")
}

func (h *LabelHandler) sync(c *gin.Context, target string) {
	rd := currentRequestData(c)
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var body struct {
		LabelIDs []string `json:"label_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	desired, err := parseUUIDs(body.LabelIDs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_label_ids", err)
		return
	}

	var result *services.SyncResult
	if target == "order" {
		result, err = h.labelSvc.SyncOrderLabels(c.Request.Context(), rd, itemID, desired)
	} else {
		result, err = h.labelSvc.SyncSampleLabels(c.Request.Context(), rd, itemID, desired)
	}
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/samples/:id/labels
func (h *LabelHandler) EffectiveSampleLabels(c *gin.Context) {
	rd := currentRequestData(c)
	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_sample_id", err)
		return
	}

	labels, err := h.labelSvc.EffectiveSampleLabels(c.Request.Context(), rd, sampleID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"labels": labels})
}
