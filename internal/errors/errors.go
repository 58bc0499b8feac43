package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeProfileNotFound    = "PROFILE_NOT_FOUND"
	ErrCodeAccountDeactivated = "ACCOUNT_DEACTIVATED"

	// Authorization errors
	ErrCodeUnauthorized = "UNAUTHORIZED"

	// Validation errors
	ErrCodeValidation = "VALIDATION_ERROR"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Lifecycle errors
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeEvidenceRequired  = "EVIDENCE_REQUIRED"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthenticated sends a 401 response
func Unauthenticated(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthenticated, message))
}

// Unauthorized sends a 403 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeUnauthorized, message))
}

// AccountDeactivated sends a 403 response for an inactive user
func AccountDeactivated(c *gin.Context) {
	RespondWithError(c, http.StatusForbidden,
		NewAPIError(ErrCodeAccountDeactivated, "This account has been deactivated"))
}

// ProfileNotFound sends a 500 response. A principal without a profile signals
// inconsistent signup and is treated as a fatal setup error, not retryable.
func ProfileNotFound(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError,
		NewAPIError(ErrCodeProfileNotFound, "No staff profile exists for this account"))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeValidation, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeValidation, message, details))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// InvalidTransition sends a 422 response carrying both statuses so the UI can
// render an actionable message.
func InvalidTransition(c *gin.Context, current, requested string) {
	RespondWithError(c, http.StatusUnprocessableEntity, NewAPIErrorWithDetails(
		ErrCodeInvalidTransition,
		"Requested status change is not a valid next step",
		gin.H{"current": current, "requested": requested},
	))
}

// EvidenceRequired sends a 422 response for missing photo evidence
func EvidenceRequired(c *gin.Context, status string, required, provided int) {
	RespondWithError(c, http.StatusUnprocessableEntity, NewAPIErrorWithDetails(
		ErrCodeEvidenceRequired,
		"Checkpoint requires more photo evidence",
		gin.H{"status": status, "required": required, "provided": provided},
	))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// StorageUnavailable sends a 503 response; callers retry with backoff.
func StorageUnavailable(c *gin.Context) {
	RespondWithError(c, http.StatusServiceUnavailable,
		NewAPIError(ErrCodeStorageUnavailable, "Storage temporarily unavailable"))
}
