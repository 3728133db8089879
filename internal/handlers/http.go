// internal/handlers/http.go

// Package handlers holds the JSON plumbing shared by the operation
// handler packages.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "activities-service/internal/common/errors"
	"activities-service/internal/common/logger"
)

// MessageResponse is the success envelope: {"message": "..."}.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope: {"detail": "..."}.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON serializes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError normalizes err, logs the classified failure, and writes the
// client-facing envelope with the mapped status.
func WriteError(w http.ResponseWriter, log logger.Logger, err error) *apperrors.StandardError {
	stdErr := apperrors.AsStandardError(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"errorCategory": apperrors.GetErrorCategory(stdErr.Code),
		"httpStatus":    status,
	}
	if status >= http.StatusInternalServerError {
		log.WithError(stdErr).Error("request failed", fields)
	} else {
		log.Debug("request rejected", fields)
	}

	WriteJSON(w, status, ErrorResponse{Detail: stdErr.Message})
	return stdErr
}
