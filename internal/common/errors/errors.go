// Package errors provides standardized error handling for the activity
// registration service.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Registration domain errors
const (
	ErrCodeActivityNotFound ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadySignedUp  ErrorCode = "ALREADY_SIGNED_UP"
	ErrCodeNotRegistered    ErrorCode = "NOT_REGISTERED"
	ErrCodeActivityFull     ErrorCode = "ACTIVITY_FULL"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"

	ErrCodeCatalogLoadFailed       ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogValidationFailed ErrorCode = "CATALOG_VALIDATION_FAILED"

	ErrCodeCacheUnavailable       ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeAuditIndexFailed       ErrorCode = "AUDIT_INDEX_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewActivityNotFoundError creates the not-found error for an unknown
// activity name. The message is the fixed client-facing reason.
func NewActivityNotFoundError(activity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   "Activity not found",
		Details:   fmt.Sprintf("activity: %s", activity),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySignedUpError creates the duplicate-membership conflict error.
func NewAlreadySignedUpError(email, activity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySignedUp,
		Message:   fmt.Sprintf("%s is already signed up for %s", email, activity),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotRegisteredError creates the missing-membership conflict error.
func NewNotRegisteredError(email, activity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotRegistered,
		Message:   fmt.Sprintf("%s is not registered for %s", email, activity),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewActivityFullError creates the capacity conflict error.
func NewActivityFullError(activity string, capacity int) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityFull,
		Message:   "Activity is full",
		Details:   fmt.Sprintf("activity: %s, maxParticipants: %d", activity, capacity),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidEmailError creates the missing-participant-identifier error.
// Identifiers are otherwise opaque; only presence is enforced.
func NewInvalidEmailError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidEmail,
		Message:   "Invalid email address",
		Details:   fmt.Sprintf("email: %q", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError creates a non-retryable catalog read error.
func NewCatalogLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Failed to load activity catalog",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogValidationFailedError creates a non-retryable catalog schema error.
func NewCatalogValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogValidationFailed,
		Message:   "Activity catalog failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache infrastructure error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Listing cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send roster change notification",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditIndexFailedError creates a retryable audit sink error.
func NewAuditIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditIndexFailed,
		Message:   "Failed to index audit entry",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error. Anything surfacing through
// here indicates a programming defect, not expected domain behavior.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Integration
// ==========================

// HTTPStatus maps an error code to the status returned to HTTP callers.
// Not-found is 404, every domain conflict is 400, infrastructure and
// unexpected failures are 500.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeActivityNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadySignedUp, ErrCodeNotRegistered, ErrCodeActivityFull, ErrCodeInvalidEmail:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// ==========================
// 4. Classification Tables
// ==========================

// GetErrorCategory returns the coarse category used in logs and metrics.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeActivityNotFound:
		return "not_found"
	case ErrCodeAlreadySignedUp, ErrCodeNotRegistered, ErrCodeActivityFull, ErrCodeInvalidEmail:
		return "conflict"
	case ErrCodeCatalogLoadFailed, ErrCodeCatalogValidationFailed:
		return "catalog"
	case ErrCodeCacheUnavailable, ErrCodeNotificationSendFailed, ErrCodeAuditIndexFailed:
		return "infrastructure"
	default:
		return "internal"
	}
}

// GetRetryCount returns how many times background side effects
// (notifications, audit writes) should be retried for a given code.
// Domain rejections are never retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCacheUnavailable:
		return 2
	case ErrCodeNotificationSendFailed, ErrCodeAuditIndexFailed:
		return 3
	default:
		return 0
	}
}

// IsRetryable reports whether the error is transient.
func IsRetryable(err error) bool {
	return AsStandardError(err).Retryable
}
