package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a distinct failure condition of the booking engine.
// The web layer maps codes to HTTP statuses; the engine only cares that
// conditions stay distinguishable.
type ErrorCode string

const (
	ErrPastDate           ErrorCode = "past_date"
	ErrClosed             ErrorCode = "establishment_closed"
	ErrOutOfHours         ErrorCode = "out_of_hours"
	ErrOutOfSpecialHours  ErrorCode = "out_of_special_hours"
	ErrIntraBatchConflict ErrorCode = "intra_batch_conflict"
	ErrBookingConflict    ErrorCode = "booking_conflict"
	ErrUnknownService     ErrorCode = "unknown_service"
	ErrIdentity           ErrorCode = "invalid_identity"
	ErrNotFound           ErrorCode = "not_found"
	ErrBadRequest         ErrorCode = "bad_request"
	ErrInternal           ErrorCode = "internal"
)

// AppError is the structured error carried across service boundaries.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

func New(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code ErrorCode, err error, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func BadRequest(message string) *AppError {
	return &AppError{Code: ErrBadRequest, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal error", Err: err}
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, or ErrInternal for plain errors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrInternal
}

// IsConflict reports whether err is a conflict-class condition, the ones
// a caller is expected to retry after re-fetching availability.
func IsConflict(err error) bool {
	code := CodeOf(err)
	return code == ErrBookingConflict || code == ErrIntraBatchConflict
}
