package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/beantunes235/fantasyforge/internal/model"
)

// APIError is the body of every error response
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidID        = "INVALID_ID"
	CodeWorldIDRequired  = "WORLD_ID_REQUIRED"
	CodeWorldNotFound    = "WORLD_NOT_FOUND"
	CodeCreatureNotFound = "CREATURE_NOT_FOUND"
	CodeStoryNotFound    = "STORY_NOT_FOUND"
	CodeUsernameExists   = "USERNAME_EXISTS"
	CodeEmailExists      = "EMAIL_EXISTS"
	CodeGenerationFailed = "GENERATION_FAILED"
	CodeInvalidGenerated = "INVALID_GENERATED"
	CodeInternalError    = "INTERNAL_ERROR"
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
	_ = json.NewEncoder(w).Encode(he.apiError)
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return &httpError{http.StatusBadRequest, APIError{verr.Message, CodeInvalidRequest}}
	}

	switch {
	case errors.Is(err, model.ErrWorldIDRequired):
		return &httpError{http.StatusBadRequest, APIError{"World ID is required", CodeWorldIDRequired}}
	case errors.Is(err, model.ErrWorldNotFound):
		return &httpError{http.StatusNotFound, APIError{"World not found", CodeWorldNotFound}}
	case errors.Is(err, model.ErrCreatureNotFound):
		return &httpError{http.StatusNotFound, APIError{"Creature not found", CodeCreatureNotFound}}
	case errors.Is(err, model.ErrStoryNotFound):
		return &httpError{http.StatusNotFound, APIError{"Story not found", CodeStoryNotFound}}
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{"Username already exists", CodeUsernameExists}}
	case errors.Is(err, model.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{"Email already exists", CodeEmailExists}}
	case errors.Is(err, model.ErrInvalidDraft):
		return &httpError{http.StatusInternalServerError, APIError{err.Error(), CodeInvalidGenerated}}
	case errors.Is(err, model.ErrGenerationFailed):
		return &httpError{http.StatusInternalServerError, APIError{err.Error(), CodeGenerationFailed}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{"Internal server error", CodeInternalError}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{message, CodeInvalidRequest}}
}

// NewInvalidIDError reports a path id that is not a positive integer
func NewInvalidIDError(name, value string) error {
	return &httpError{http.StatusBadRequest, APIError{fmt.Sprintf("Invalid %s: %q", name, value), CodeInvalidID}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{"Internal server error", CodeInternalError}}
}
