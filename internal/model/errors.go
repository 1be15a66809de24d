package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")

	// Content errors
	ErrWorldNotFound    = errors.New("world not found")
	ErrCreatureNotFound = errors.New("creature not found")
	ErrStoryNotFound    = errors.New("story not found")
	ErrWorldIDRequired  = errors.New("world id is required")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")

	// Generation errors
	ErrGenerationFailed = errors.New("generation failed")
	ErrInvalidDraft     = errors.New("generated record is invalid")
)

// ValidationError carries a user-facing explanation of a rejected request
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes every ValidationError match ErrInvalidRequest
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}
