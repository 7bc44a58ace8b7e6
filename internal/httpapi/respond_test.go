package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Manujapabodhana/music-project/internal/apperr"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", apperr.NotFound("booking"), http.StatusNotFound, "booking not found"},
		{"conflict", apperr.Conflict("event capacity reached"), http.StatusConflict, "event capacity reached"},
		{"authorization", apperr.Authorization("admin access required"), http.StatusForbidden, "admin access required"},
		{"validation", apperr.Validation("validation failed"), http.StatusBadRequest, "validation failed"},
		{"unexpected", errors.New("mongo blew up"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success {
				t.Error("error responses must have success=false")
			}
			if body.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMsg)
			}
		})
	}
}

func TestWriteValidationProblems(t *testing.T) {
	rec := httptest.NewRecorder()
	writeValidation(rec, "validation failed",
		apperr.Problem{Field: "email", Message: "email is required"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Errors) != 1 || body.Errors[0].Field != "email" {
		t.Errorf("errors = %+v, want one email problem", body.Errors)
	}
}

func TestNewPagination(t *testing.T) {
	p := newPagination(2, 10, 35)
	if p.Pages != 4 {
		t.Errorf("pages = %d, want 4", p.Pages)
	}
	if p.Page != 2 || p.Limit != 10 || p.Total != 35 {
		t.Errorf("pagination = %+v", p)
	}

	p = newPagination(0, 0, 0)
	if p.Page != 1 || p.Limit != 10 || p.Pages != 0 {
		t.Errorf("defaulted pagination = %+v", p)
	}
}
