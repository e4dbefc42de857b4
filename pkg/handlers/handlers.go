// Package handlers provides HTTP response utilities for JSON APIs.
// These stateless functions standardize response formatting across handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes a JSON error response.
// The response body contains {"error": "<error message>"}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "error", err, "status", status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// RespondStatus logs the message and writes a JSON status response.
// The response body contains {"status": <code>, "error": "<status text>", "message": "<message>"}.
func RespondStatus(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	logger.Warn("handler status", "status", status, "message", message)
	RespondJSON(w, status, StatusBody{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}

// StatusBody is the payload written by RespondStatus.
type StatusBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
