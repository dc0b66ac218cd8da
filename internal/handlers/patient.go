package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/services"
)

type PatientHandler struct {
	log        *logger.Logger
	patientSvc services.PatientService
}

func NewPatientHandler(log *logger.Logger, patientSvc services.PatientService) *PatientHandler {
	return &PatientHandler{
		log:        log.With("handler", "PatientHandler"),
		patientSvc: patientSvc,
	}
}

// POST /api/patients
func (h *PatientHandler) Create(c *gin.Context) {
	rd := currentRequestData(c)
	var body struct {
		BranchID    string `json:"branch_id"`
		PatientCode string `json:"patient_code" binding:"required"`
		FirstName   string `json:"first_name" binding:"required"`
		LastName    string `json:"last_name" binding:"required"`
		BirthDate   string `json:"birth_date"`
		Sex         string `json:"sex"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	in := services.CreatePatientInput{
		PatientCode: body.PatientCode,
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		Sex:         body.Sex,
		Phone:       body.Phone,
		Email:       body.Email,
	}
	if body.BranchID != "" {
		branchID, err := uuid.Parse(body.BranchID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_branch_id", err)
			return
		}
		in.BranchID = branchID
	}
	if body.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", body.BirthDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_birth_date", err)
			return
		}
		in.BirthDate = &birthDate
	}

	patient, err := h.patientSvc.Create(c.Request.Context(), rd, in)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"patient": patient})
}

// GET /api/patients
func (h *PatientHandler) List(c *gin.Context) {
	rd := currentRequestData(c)
	patients, err := h.patientSvc.List(c.Request.Context(), rd)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"patients": patients})
}

// GET /api/patients/:id
func (h *PatientHandler) Get(c *gin.Context) {
	rd := currentRequestData(c)
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_patient_id", err)
		return
	}

	patient, err := h.patientSvc.Get(c.Request.Context(), rd, patientID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"patient": patient})
}
