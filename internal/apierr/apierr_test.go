package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
		code   string
	}{
		{NotFound("order %s not found", "x"), http.StatusNotFound, "not_found"},
		{Validation("bad input"), http.StatusBadRequest, "validation_failed"},
		{Conflict("duplicate"), http.StatusConflict, "conflict"},
		{Forbidden("nope"), http.StatusForbidden, "forbidden"},
		{Internal("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.status {
			t.Fatalf("%s: want status=%d got=%d", tt.code, tt.status, got)
		}
		if got := CodeOf(tt.err); got != tt.code {
			t.Fatalf("want code=%q got=%q", tt.code, got)
		}
	}
}

func TestStatusOfWrappedError(t *testing.T) {
	inner := NotFound("report missing")
	wrapped := fmt.Errorf("loading report: %w", inner)
	if got := StatusOf(wrapped); got != http.StatusNotFound {
		t.Fatalf("want status=%d got=%d", http.StatusNotFound, got)
	}
	if got := CodeOf(wrapped); got != "not_found" {
		t.Fatalf("want code=not_found got=%q", got)
	}
}

func TestStatusOfPlainErrorDefaultsTo500(t *testing.T) {
	err := errors.New("plain failure")
	if got := StatusOf(err); got != http.StatusInternalServerError {
		t.Fatalf("want status=500 got=%d", got)
	}
	if got := CodeOf(err); got != "internal" {
		t.Fatalf("want code=internal got=%q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Validation("field %s is required", "name")
	if err.Error() != "field name is required" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
