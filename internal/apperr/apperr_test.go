package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("booking"), http.StatusNotFound},
		{Authorization("admin access required"), http.StatusForbidden},
		{Conflict("event capacity reached"), http.StatusConflict},
		{Dependency("update counter", errors.New("timeout")), http.StatusBadGateway},
		{&Error{Message: "unknown kind"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.err.Message, got, tt.want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Dependency("ping mongo", cause)
	if !errors.Is(err, cause) {
		t.Error("Dependency must wrap its cause")
	}
	if got := err.Error(); got != "ping mongo failed: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsKind(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NotFound("event"))
	if !IsKind(wrapped, KindNotFound) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(wrapped, KindConflict) {
		t.Error("IsKind must match the kind exactly")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Error("plain errors are no kind at all")
	}
}

func TestValidationProblems(t *testing.T) {
	err := Validation("validation failed",
		Problem{Field: "email", Message: "email is required"},
		Problem{Field: "fees.amount", Message: "amount must not be negative"},
	)
	if len(err.Problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(err.Problems))
	}
	if err.Problems[0].Field != "email" {
		t.Errorf("first problem field = %q", err.Problems[0].Field)
	}
}
