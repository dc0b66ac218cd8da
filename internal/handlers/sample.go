package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/services"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type SampleHandler struct {
	log       *logger.Logger
	sampleSvc services.SampleService
	eventSvc  services.EventService
}

func NewSampleHandler(log *logger.Logger, sampleSvc services.SampleService, eventSvc services.EventService) *SampleHandler {
	return &SampleHandler{
		log:       log.With("handler", "SampleHandler"),
		sampleSvc: sampleSvc,
		eventSvc:  eventSvc,
	}
}

// POST /api/orders/:id/samples
func (h *SampleHandler) Create(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}
	var body struct {
		SampleCode  string     `json:"sample_code" binding:"required"`
		Type        string     `json:"type" binding:"required"`
		CollectedAt *time.Time `json:"collected_at"`
		ReceivedAt  *time.Time `json:"received_at"`
		Notes       string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	sample, err := h.sampleSvc.Create(c.Request.Context(), rd, services.CreateSampleInput{
		OrderID:     orderID,
		SampleCode:  body.SampleCode,
		Type:        types.SampleType(body.Type),
		CollectedAt: body.CollectedAt,
		ReceivedAt:  body.ReceivedAt,
		Notes:       body.Notes,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"sample": sample})
}

// GET /api/orders/:id/samples
func (h *SampleHandler) ListByOrder(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}

	samples, err := h.sampleSvc.ListByOrder(c.Request.Context(), rd, orderID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"samples": samples})
}

// GET /api/samples/:id
func (h *SampleHandler) Get(c *gin.Context) {
	rd := currentRequestData(c)
	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_sample_id", err)
		return
	}

	sample, err := h.sampleSvc.Get(c.Request.Context(), rd, sampleID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"sample": sample})
}

// PUT /api/samples/:id/state
func (h *SampleHandler) UpdateState(c *gin.Context) {
	rd := currentRequestData(c)
	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_sample_id", err)
		return
	}
	var body struct {
		State string `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	sample, err := h.sampleSvc.UpdateState(c.Request.Context(), rd, sampleID, types.SampleState(body.State))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"sample": sample})
}

// POST /api/samples/:id/images
func (h *SampleHandler) AddImage(c *gin.Context) {
	rd := currentRequestData(c)
	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_sample_id", err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer file.Close()

	isPrimary := c.PostForm("is_primary") == "true"
	image, err := h.sampleSvc.AddImage(c.Request.Context(), rd, sampleID, services.AddImageInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Label:       c.PostForm("label"),
		IsPrimary:   isPrimary,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"image": image})
}

// GET /api/samples/:id/images
func (h *SampleHandler) ListImages(c *gin.Context) {
	rd := currentRequestData(c)
	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_sample_id", err)
		return
	}

	images, err := h.sampleSvc.ListImages(c.Request.Context(), rd, sampleID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"images": images})
}

// GET /api/samples/:id/timeline
func (h *SampleHandler) Timeline(c *gin.Context) {
	rd := currentRequestData(c)
	sampleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_sample_id", err)
		return
	}

	events, err := h.eventSvc.ListBySample(c.Request.Context(), rd.TenantID, sampleID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"events": events})
}
