package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a uniqueness collision the caller may retry, e.g. an entry number clash.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates the caller may not perform the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected store or infrastructure failure.
var ErrInternal = errors.New("internal error")

// ValidationError carries the business reason a request was rejected.
// errors.Is(err, ErrValidation) reports true for it.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError with the given reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// AppError wraps a lower level failure together with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause. A 500 without a cause unwraps to ErrInternal.
func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if e.Code == http.StatusInternalServerError {
		return ErrInternal
	}
	return nil
}

// Is lets 500 AppErrors match ErrInternal even when they wrap a driver error.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code == http.StatusInternalServerError
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error wrapping ErrNotFound for the named resource.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%s: %w", resource, ErrNotFound)
}

// NewConflictError returns an error wrapping ErrConflict.
func NewConflictError(what string) error {
	return fmt.Errorf("%s: %w", what, ErrConflict)
}
