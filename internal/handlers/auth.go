package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/services"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type AuthHandler struct {
	log     *logger.Logger
	authSvc services.AuthService
}

func NewAuthHandler(log *logger.Logger, authSvc services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:     log.With("handler", "AuthHandler"),
		authSvc: authSvc,
	}
}

// currentRequestData pulls the identity placed by the auth middleware.
func currentRequestData(c *gin.Context) *requestdata.RequestData {
	return requestdata.GetRequestData(c.Request.Context())
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var body struct {
		TenantID string `json:"tenant_id" binding:"required"`
		BranchID string `json:"branch_id"`
		Email    string `json:"email" binding:"required"`
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	tenantID, err := uuid.Parse(body.TenantID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_tenant_id", err)
		return
	}
	in := services.RegisterInput{
		TenantID: tenantID,
		Email:    body.Email,
		Username: body.Username,
		FullName: body.FullName,
		Password: body.Password,
		Role:     types.UserRole(body.Role),
	}
	if body.BranchID != "" {
		branchID, err := uuid.Parse(body.BranchID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_branch_id", err)
			return
		}
		in.BranchID = &branchID
	}

	user, err := h.authSvc.Register(c.Request.Context(), in)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"user": user})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	token, user, err := h.authSvc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"access_token": token,
		"expires_in":   int(h.authSvc.AccessTTL().Seconds()),
		"user":         user,
	})
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	rd := currentRequestData(c)

	token, user, err := h.authSvc.Refresh(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"access_token": token,
		"expires_in":   int(h.authSvc.AccessTTL().Seconds()),
		"user":         user,
	})
}
