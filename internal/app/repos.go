package app

import (
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	Patient       repos.PatientRepo
	Order         repos.OrderRepo
	Sample        repos.SampleRepo
	Report        repos.ReportRepo
	ReportVersion repos.ReportVersionRepo
	Assignment    repos.AssignmentRepo
	ReportReview  repos.ReportReviewRepo
	Label         repos.LabelRepo
	Comment       repos.CommentRepo
	Event         repos.EventRepo
	StorageObject repos.StorageObjectRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Patient:       repos.NewPatientRepo(db, log),
		Order:         repos.NewOrderRepo(db, log),
		Sample:        repos.NewSampleRepo(db, log),
		Report:        repos.NewReportRepo(db, log),
		ReportVersion: repos.NewReportVersionRepo(db, log),
		Assignment:    repos.NewAssignmentRepo(db, log),
		ReportReview:  repos.NewReportReviewRepo(db, log),
		Label:         repos.NewLabelRepo(db, log),
		Comment:       repos.NewCommentRepo(db, log),
		Event:         repos.NewEventRepo(db, log),
		StorageObject: repos.NewStorageObjectRepo(db, log),
	}
}
