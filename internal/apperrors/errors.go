package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure whose details should not
// be exposed to API clients.
var ErrInternal = errors.New("internal error")

// ErrConflict indicates that the requested change is not allowed in the
// resource's current state.
var ErrConflict = errors.New("conflicting state")

// AppError wraps a lower-level error with an HTTP-ish status code and a
// message safe to log. Repositories use it to annotate database failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}
