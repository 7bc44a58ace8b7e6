package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Manujapabodhana/music-project/internal/apperr"
)

// envelope is the uniform response body: a success flag, a human-readable
// message, the payload, and field-level problems on validation failures.
type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    any              `json:"data,omitempty"`
	Errors  []apperr.Problem `json:"errors,omitempty"`
}

// pagination echoes list paging metadata.
type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func newPagination(page, limit int, total int64) pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	return pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// writeError maps an application error to its HTTP status. Unexpected
// errors are reported generically so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.HTTPStatus(), envelope{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Problems,
		})
		return
	}
	log.Printf("[error] unhandled: %v", err)
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "internal server error",
	})
}

func writeValidation(w http.ResponseWriter, message string, problems ...apperr.Problem) {
	writeError(w, apperr.Validation(message, problems...))
}
