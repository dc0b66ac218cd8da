package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/services"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type OrderHandler struct {
	log      *logger.Logger
	orderSvc services.OrderService
	eventSvc services.EventService
}

func NewOrderHandler(log *logger.Logger, orderSvc services.OrderService, eventSvc services.EventService) *OrderHandler {
	return &OrderHandler{
		log:      log.With("handler", "OrderHandler"),
		orderSvc: orderSvc,
		eventSvc: eventSvc,
	}
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	rd := currentRequestData(c)
	var body struct {
		PatientID   string `json:"patient_id" binding:"required"`
		OrderCode   string `json:"order_code" binding:"required"`
		RequestedBy string `json:"requested_by"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
		return
	}

	order, err := h.orderSvc.Create(c.Request.Context(), rd, services.CreateOrderInput{
		PatientID:   patientID,
		OrderCode:   body.OrderCode,
		RequestedBy: body.RequestedBy,
		Notes:       body.Notes,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"order": order})
}

// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	rd := currentRequestData(c)
	var status *types.OrderStatus
	if s := c.Query("status"); s != "" {
		v := types.OrderStatus(s)
		status = &v
	}

	orders, err := h.orderSvc.List(c.Request.Context(), rd, status)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"orders": orders})
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}

	view, err := h.orderSvc.Get(c.Request.Context(), rd, orderID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	order, err := h.orderSvc.Cancel(c.Request.Context(), rd, orderID, body.Reason)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"order": order})
}

// PUT /api/orders/:id/billed-lock
func (h *OrderHandler) SetBilledLock(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}
	var body struct {
		Locked *bool `json:"locked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	order, err := h.orderSvc.SetBilledLock(c.Request.Context(), rd, orderID, *body.Locked)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"order": order})
}

// PUT /api/orders/:id/notes
func (h *OrderHandler) UpdateNotes(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	order, err := h.orderSvc.UpdateNotes(c.Request.Context(), rd, orderID, body.Notes)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"order": order})
}

// POST /api/orders/:id/comments
func (h *OrderHandler) AddComment(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}
	var body struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	comment, err := h.orderSvc.AddComment(c.Request.Context(), rd, orderID, body.Text)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"comment": comment})
}

// GET /api/orders/:id/comments
func (h *OrderHandler) ListComments(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}

	comments, err := h.orderSvc.ListComments(c.Request.Context(), rd, orderID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"comments": comments})
}

// GET /api/orders/:id/timeline
func (h *OrderHandler) Timeline(c *gin.Context) {
	rd := currentRequestData(c)
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_order_id", err)
		return
	}

	events, err := h.eventSvc.ListByOrder(c.Request.Context(), rd.TenantID, orderID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"events": events})
}
