// Package apperror defines the application's error taxonomy.
//
// Every failure that crosses a layer boundary is an *AppError carrying one of
// the sentinel kinds below. Callers branch with errors.Is on the sentinel and
// use errors.As to read the message and field details.
//
//	ErrValidation  → payload failed schema checks, never persisted   (HTTP 400)
//	ErrDemoMode    → widget write attempted while demo mode is on    (HTTP 403)
//	ErrForbidden   → any other refused operation                     (HTTP 403)
//	ErrNotFound    → referenced id does not exist                    (HTTP 404)
//	ErrStorage     → file or database I/O failed while writing       (HTTP 500)
//	ErrUnavailable → the server could not be reached at all          (client only)
package apperror

import (
	"errors"
	"fmt"

	"github.com/sakif/navidash/internal/model"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("Validation Error")
	ErrForbidden   = errors.New("forbidden")
	ErrDemoMode    = errors.New("demo mode")
	ErrStorage     = errors.New("storage failure")
	ErrUnavailable = errors.New("server unavailable")
)

// DemoModeMessage is the fixed text returned when a widget write is denied.
const DemoModeMessage = "Demo mode: writes are disabled"

type AppError struct {
	Err     error              // sentinel kind
	Message string             // Human-readable error message
	Field   string             // Optional: field causing the error
	Details []model.FieldError // Optional: every field-level problem found
	Cause   error              // Optional: underlying error (I/O, transport)
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches either.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Details: []model.FieldError{{Field: field, Message: message}},
	}
}

// Invalid wraps a list of field problems into one validation error.
// The first problem doubles as the error message.
func Invalid(resource string, details []model.FieldError) *AppError {
	e := &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("invalid %s", resource),
		Details: details,
	}
	if len(details) > 0 {
		e.Field = details[0].Field
		e.Message = fmt.Sprintf("invalid %s: %s %s", resource, details[0].Field, details[0].Message)
	}
	return e
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// DemoModeDenied is the expected, non-exceptional refusal of a widget write
// on a demo deployment.
func DemoModeDenied() *AppError {
	return &AppError{
		Err:     ErrDemoMode,
		Message: DemoModeMessage,
	}
}

// StorageFailed reports a failed durable write. op names what was attempted.
func StorageFailed(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: op,
		Cause:   cause,
	}
}

// Unavailable reports that a request never got a response.
func Unavailable(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: op,
		Cause:   cause,
	}
}
