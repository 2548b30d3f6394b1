package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pointsync/internal/auth"
	"github.com/mcoot/pointsync/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeNoActor            = "NO_ACTOR"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeRemoteUnavailable  = "REMOTE_UNAVAILABLE"
	CodeRemoteRejected     = "REMOTE_REJECTED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeBrandNotFound      = "BRAND_NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Point and quota errors
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, "Point amount must be positive"}}
	case errors.Is(err, model.ErrNoActor):
		return &httpError{http.StatusConflict, APIError{CodeNoActor, "No active actor"}}
	case errors.Is(err, model.ErrStorageUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStorageUnavailable, "Local storage unavailable"}}
	case errors.Is(err, model.ErrRemoteUnavailable):
		return &httpError{http.StatusBadGateway, APIError{CodeRemoteUnavailable, "Remote backend unavailable"}}
	case errors.Is(err, model.ErrRemoteRejected):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeRemoteRejected, "Remote backend rejected the operation"}}

	// Content errors
	case errors.Is(err, model.ErrBrandNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeBrandNotFound, "Brand not found"}}

	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, auth.ErrUnavailable):
		return &httpError{http.StatusBadGateway, APIError{CodeRemoteUnavailable, "Auth backend unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
