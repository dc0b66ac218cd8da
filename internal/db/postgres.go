package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/types"
	"github.com/medtrace/pathlab-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "pathlab", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Tenant{},
		&types.Branch{},
		&types.AppUser{},
		&types.Patient{},
		&types.LabOrder{},
		&types.Sample{},
		&types.SampleImage{},
		&types.Report{},
		&types.ReportVersion{},
		&types.Assignment{},
		&types.ReportReview{},
		&types.Label{},
		&types.OrderLabel{},
		&types.SampleLabel{},
		&types.OrderComment{},
		&types.OrderEvent{},
		&types.StorageObject{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// The services above check-then-act without app-level locks; these
	// indexes are the correctness backstop for the uniqueness invariants.
	s.log.Info("Configuring unique indexes for postgres tables...")
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS "uq_assignment_active"
		ON "assignment" ("tenant_id", "item_type", "item_id", "assignee_user_id")
		WHERE "unassigned_at" IS NULL
	`).Error; err != nil {
		return fmt.Errorf("Failed to create uq_assignment_active: %w", err)
	}
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS "uq_report_version_current"
		ON "report_version" ("report_id")
		WHERE "is_current"
	`).Error; err != nil {
		return fmt.Errorf("Failed to create uq_report_version_current: %w", err)
	}
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS "uq_report_review_reviewer"
		ON "report_review" ("tenant_id", "order_id", "reviewer_user_id")
	`).Error; err != nil {
		return fmt.Errorf("Failed to create uq_report_review_reviewer: %w", err)
	}
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS "uq_lab_order_code_branch"
		ON "lab_order" ("branch_id", "order_code")
	`).Error; err != nil {
		return fmt.Errorf("Failed to create uq_lab_order_code_branch: %w", err)
	}
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS "uq_sample_code_order"
		ON "sample" ("order_id", "sample_code")
	`).Error; err != nil {
		return fmt.Errorf("Failed to create uq_sample_code_order: %w", err)
	}
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS "uq_patient_code_tenant"
		ON "patient" ("tenant_id", "patient_code")
	`).Error; err != nil {
		return fmt.Errorf("Failed to create uq_patient_code_tenant: %w", err)
	}
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS "uq_label_name_tenant"
		ON "label" ("tenant_id", "name")
	`).Error; err != nil {
		return fmt.Errorf("Failed to create uq_label_name_tenant: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
