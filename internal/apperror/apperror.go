// Package apperror defines the application's error kinds.
//
// Services return these; handlers translate them to HTTP status codes and
// response bodies. Nothing below the handler layer knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidID    = errors.New("invalid id")
)

// FieldError is a single failed input check.
// Location is always "body" for JSON input; it is kept for clients that
// still read the express-validator shape.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

type AppError struct {
	Err     error        // actual error
	Message string       // Human-readable error message
	Field   string       // Optional: field causing the error
	Details []FieldError // Validation errors, one per failed check
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound carries a user-facing message, e.g. "Blog not found".
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// ValidationFailed reports a single failed field. The message becomes the
// only entry of the errors list.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Details: []FieldError{{Msg: message, Param: field, Location: "body"}},
	}
}

// Validation bundles several field errors into one AppError.
// The first error's message is used as the error string.
func Validation(details []FieldError) *AppError {
	e := &AppError{Err: ErrValidation, Details: details}
	if len(details) > 0 {
		e.Message = details[0].Msg
		e.Field = details[0].Param
	}
	return e
}

func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict on %s", resource, key),
	}
}

// Unauthorized returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 401, matching the public API.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// BadRequest is a rule violation that is not tied to an input field,
// such as liking a blog twice.
func BadRequest(message string) *AppError {
	return &AppError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// InvalidID reports an identifier the store cannot parse.
func InvalidID(resource, id string) *AppError {
	return &AppError{
		Err:     ErrInvalidID,
		Message: fmt.Sprintf("malformed %s id %q", resource, id),
	}
}
