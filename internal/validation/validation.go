// Package validation checks requests and generated drafts with
// go-playground/validator and turns failures into user-facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/beantunes235/fantasyforge/internal/model"
)

// Validator is safe for concurrent use
type Validator struct {
	validate *validator.Validate
}

// New creates a validator
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Request validates a caller-supplied request for the named kind of record.
// Failures are returned as *model.ValidationError.
func (v *Validator) Request(kind string, req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %s request: %w", kind, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(kind, fe))
	}
	return &model.ValidationError{Message: strings.Join(messages, "; ")}
}

// Draft validates a generated record before it is stored
func (v *Validator) Draft(kind string, draft any) error {
	if err := v.validate.Struct(draft); err != nil {
		return fmt.Errorf("%w: generated %s: %w", model.ErrInvalidDraft, kind, err)
	}
	return nil
}

func fieldMessage(kind string, fe validator.FieldError) string {
	field := lowerFirst(fe.Field())

	switch {
	case fe.Field() == "Description" && fe.Tag() == "min":
		return "Please provide a more detailed description of your " + kind
	case fe.Tag() == "required":
		return field + " is required"
	case fe.Tag() == "min" && fe.Kind() == reflect.String:
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case fe.Tag() == "max" && fe.Kind() == reflect.String:
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case fe.Tag() == "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case fe.Tag() == "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case fe.Tag() == "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
