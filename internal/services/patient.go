package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
	"github.com/medtrace/pathlab-backend/internal/types"
)

type PatientService interface {
	Create(ctx context.Context, rd *requestdata.RequestData, in CreatePatientInput) (*types.Patient, error)
	Get(ctx context.Context, rd *requestdata.RequestData, patientID uuid.UUID) (*types.Patient, error)
	List(ctx context.Context, rd *requestdata.RequestData) ([]*types.Patient, error)
}

type CreatePatientInput struct {
	BranchID    uuid.UUID
	PatientCode string
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	Sex         string
	Phone       string
	Email       string
}

type patientService struct {
	db          *gorm.DB
	log         *logger.Logger
	patientRepo repos.PatientRepo
}

func NewPatientService(db *gorm.DB, log *logger.Logger, patientRepo repos.PatientRepo) PatientService {
	serviceLog := log.With("service", "PatientService")
	return &patientService{
		db:          db,
		log:         serviceLog,
		patientRepo: patientRepo,
	}
}

func (s *patientService) Create(ctx context.Context, rd *requestdata.RequestData, in CreatePatientInput) (*types.Patient, error) {
	in.PatientCode = strings.TrimSpace(in.PatientCode)
	if in.PatientCode == "" {
		return nil, apierr.Validation("patient code is required")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, apierr.Validation("first and last name are required")
	}
	branchID := in.BranchID
	if branchID == uuid.Nil {
		branchID = rd.BranchID
	}
	if branchID == uuid.Nil {
		return nil, apierr.Validation("branch id is required")
	}

	var patient *types.Patient
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.patientRepo.CodeExistsForTenant(ctx, tx, rd.TenantID, in.PatientCode)
		if err != nil {
			return err
		}
		if exists {
			return apierr.Conflict("patient code %q already exists", in.PatientCode)
		}

		patient = &types.Patient{
			TenantID:    rd.TenantID,
			BranchID:    branchID,
			PatientCode: in.PatientCode,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			BirthDate:   in.BirthDate,
			Sex:         in.Sex,
			Phone:       in.Phone,
			Email:       in.Email,
		}
		_, err = s.patientRepo.Create(ctx, tx, patient)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Patient created", "patient_id", patient.ID.String())
	return patient, nil
}

func (s *patientService) Get(ctx context.Context, rd *requestdata.RequestData, patientID uuid.UUID) (*types.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, nil, patientID)
	if err != nil {
		return nil, mapNotFound(err, "patient %s not found", patientID)
	}
	if patient.TenantID != rd.TenantID {
		return nil, apierr.NotFound("patient %s not found", patientID)
	}
	return patient, nil
}

func (s *patientService) List(ctx context.Context, rd *requestdata.RequestData) ([]*types.Patient, error) {
	return s.patientRepo.ListByTenant(ctx, nil, rd.TenantID)
}
