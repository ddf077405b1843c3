package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
//	writeJSON(w, http.StatusOK, data)
//	writeRaw(w, http.StatusOK, body)
//	writeError(w, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//
//	{"error": "validation_error", "message": "invalid widgets: [0].type must be one of ...",
//	 "details": [{"field": "[0].type", "message": "must be one of ..."}]}
//
// details is only present for validation failures.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/navidash/internal/apperror"
	"github.com/sakif/navidash/internal/model"
)

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body. Once Encode writes, any
// further header change is silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeRaw sends an already-encoded JSON body as is.
func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	ErrValidation → 400 validation_error (with details)
//	ErrDemoMode   → 403 demo_mode
//	ErrForbidden  → 403 forbidden
//	ErrNotFound   → 404 not_found
//	ErrStorage    → 500 storage_error
//	anything else → 500 internal_error
//
// Storage failures report what was attempted, never the underlying I/O error:
// file paths stay on the server.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"
		message := appErr.Message
		var details []model.FieldError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
			details = appErr.Details
		case errors.Is(err, apperror.ErrDemoMode):
			status = http.StatusForbidden
			errorType = "demo_mode"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrStorage):
			errorType = "storage_error"
			message = "Failed to " + appErr.Message
		}

		writeJSON(w, status, model.ErrorResponse{
			Error:   errorType,
			Message: message,
			Details: details,
		})
		return
	}

	// Unknown error: never expose internal details to the client.
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
