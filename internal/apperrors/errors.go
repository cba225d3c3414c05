package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller does not own the resource being acted on.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientBalance indicates a payment allocation exceeds the document's remaining amount.
var ErrInsufficientBalance = errors.New("amount exceeds remaining balance")

// ErrInsufficientStock indicates a stock reduction exceeds the item's current stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidStateTransition indicates an operation is not permitted in the
// document's or payment's current state (e.g. paying a PAID sale, cancelling a
// partially paid document, deleting a cleared cheque payment).
var ErrInvalidStateTransition = errors.New("invalid state transition")

// AppError wraps a lower-level error with an HTTP-ish status code and a message
// suitable for logging. Repositories use it for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
