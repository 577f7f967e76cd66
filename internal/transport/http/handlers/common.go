package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vmitrev/amora/pkg/validator"
)

// Status is a short human-readable outcome shown next to the initiating
// control. Level is one of info, success, warning, error.
type Status struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	StatusInfo    = "info"
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"status": Status{Level: StatusError, Message: message},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
		"status": Status{Level: StatusError, Message: "Please fix the highlighted fields"},
	})
}
