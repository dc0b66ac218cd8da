package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/services"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type ReportHandler struct {
	log       *logger.Logger
	reportSvc services.ReportService
}

func NewReportHandler(log *logger.Logger, reportSvc services.ReportService) *ReportHandler {
	return &ReportHandler{
		log:       log.With("handler", "ReportHandler"),
		reportSvc: reportSvc,
	}
}

// POST /api/orders/:id/reports
func (h *ReportHandler) Create(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}
	var body struct {
		Title         string `json:"title"`
		DiagnosisText string `json:"diagnosis_text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	report, err := h.reportSvc.Create(c.Request.Context(), rd, services.CreateReportInput{
		OrderID:       orderID,
		Title:         body.Title,
		DiagnosisText: body.DiagnosisText,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"report": report})
}

// GET /api/orders/:id/reports
func (h *ReportHandler) ListByOrder(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}

	reports, err := h.reportSvc.ListByOrder(c.Request.Context(), rd, orderID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"reports": reports})
}

// GET /api/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	rd := currentRequestData(c)
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_report_id", err)
		return
	}

	view, err := h.reportSvc.Get(c.Request.Context(), rd, reportID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/reports/:id/submit
func (h *ReportHandler) Submit(c *gin.Context) {
	h.transition(c, h.reportSvc.Submit)
}

// POST /api/reports/:id/publish
func (h *ReportHandler) Publish(c *gin.Context) {
	h.transition(c, h.reportSvc.Publish)
}

// POST /api/reports/:id/retract
func (h *ReportHandler) Retract(c *gin.Context) {
	h.transition(c, h.reportSvc.Retract)
}

// POST /api/reports/:id/versions
func (h *ReportHandler) CreateVersion(c *gin.Context) {
	rd := currentRequestData(c)
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_report_id", err)
		return
	}
	var body struct {
		PDFStorageID  string `json:"pdf_storage_id"`
		HTMLStorageID string `json:"html_storage_id"`
		Changelog     string `json:"changelog"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	in := services.CreateVersionInput{Changelog: body.Changelog}
	if body.PDFStorageID != "" {
		id, err := uuid.Parse(body.PDFStorageID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_pdf_storage_id", err)
			return
		}
		in.PDFStorageID = &id
	}
	if body.HTMLStorageID != "" {
		id, err := uuid.Parse(body.HTMLStorageID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_html_storage_id", err)
			return
		}
		in.HTMLStorageID = &id
	}

	version, err := h.reportSvc.CreateVersion(c.Request.Context(), rd, reportID, in)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"version": version})
}

func (h *ReportHandler) transition(c *gin.Context, fn func(context.Context, *requestdata.RequestData, uuid.UUID) (*types.Report, error)) {
	rd := currentRequestData(c)
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_report_id", err)
		return
	}

	report, err := fn(c.Request.Context(), rd, reportID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"report": report})
}
