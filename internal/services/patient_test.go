package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medtrace/pathlab-backend/internal/apierr"
	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/requestdata"
)

func nopLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func TestPatientCreateValidatesInput(t *testing.T) {
	svc := NewPatientService(nil, nopLogger(), nil)
	rd := &requestdata.RequestData{TenantID: uuid.New(), UserID: uuid.New()}

	cases := []struct {
		name string
		in   CreatePatientInput
	}{
		{"missing code", CreatePatientInput{FirstName: "Ana", LastName: "Ruiz", BranchID: uuid.New()}},
		{"missing names", CreatePatientInput{PatientCode: "P-001", BranchID: uuid.New()}},
		{"missing branch", CreatePatientInput{PatientCode: "P-001", FirstName: "Ana", LastName: "Ruiz"}},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), rd, tc.in)
		if err == nil {
			t.Fatalf("%s: want error, got nil", tc.name)
		}
		if got := apierr.StatusOf(err); got != http.StatusBadRequest {
			t.Fatalf("%s: want status=%d got=%d", tc.name, http.StatusBadRequest, got)
		}
	}
}
