package utils

import (
	"encoding/json"
	"net/http"

	"github.com/username/stockledger/src/logger"
)

// SendJSON writes payload as a JSON response with the given status.
func SendJSON(w http.ResponseWriter, payload any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Failed to encode JSON response", "statusCode", statusCode, "error", err)
	}
}

// SendJSONError sends {"error": message} with the given status.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	SendJSON(w, map[string]string{"error": message}, statusCode)
}

// SendJSONFieldErrors sends a validation failure with per-field messages.
func SendJSONFieldErrors(w http.ResponseWriter, fields map[string]string) {
	logger.L.Warn("Sending validation errors to client", "fields", fields)
	SendJSON(w, map[string]any{
		"error":  "Validation failed",
		"errors": fields,
	}, http.StatusBadRequest)
}
