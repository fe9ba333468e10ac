package apperror

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrConflict          = errors.New("conflict")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Kind classifies an AppError.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindForbidden        Kind = "forbidden"
	KindInvalidOperation Kind = "invalid_operation"
	KindConflict         Kind = "conflict"
	KindValidation       Kind = "validation"
	KindUnauthorized     Kind = "unauthorized"
	KindRateLimited      Kind = "rate_limited"
	KindInternal         Kind = "internal"
)

var kindSentinels = map[Kind]error{
	KindNotFound:         ErrNotFound,
	KindForbidden:        ErrForbidden,
	KindInvalidOperation: ErrInvalidOperation,
	KindConflict:         ErrConflict,
	KindValidation:       ErrInvalidInput,
	KindUnauthorized:     ErrUnauthorized,
	KindRateLimited:      ErrRateLimitExceeded,
	KindInternal:         ErrInternal,
}

var kindStatus = map[Kind]int{
	KindNotFound:         http.StatusNotFound,
	KindForbidden:        http.StatusForbidden,
	KindInvalidOperation: http.StatusBadRequest,
	KindConflict:         http.StatusBadRequest,
	KindValidation:       http.StatusBadRequest,
	KindUnauthorized:     http.StatusUnauthorized,
	KindRateLimited:      http.StatusTooManyRequests,
	KindInternal:         http.StatusInternalServerError,
}

// AppError is a typed error carrying its kind and an HTTP status hint.
type AppError struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrForbidden) match an AppError of the forbidden kind.
func (e *AppError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// New creates a new AppError
func New(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    kindStatus[kind],
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message, nil)
}

func Forbidden(message string) *AppError {
	return New(KindForbidden, message, nil)
}

func InvalidOperation(message string) *AppError {
	return New(KindInvalidOperation, message, nil)
}

func Conflict(message string) *AppError {
	return New(KindConflict, message, nil)
}

func Validation(message string) *AppError {
	return New(KindValidation, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(KindUnauthorized, message, nil)
}

func Internal(err error) *AppError {
	return New(KindInternal, "", err)
}

// WithStatus overrides the status hint, e.g. 409 for a duplicate name.
func (e *AppError) WithStatus(code int) *AppError {
	e.Code = code
	return e
}

// Status maps any error to an HTTP status code.
func Status(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidOperation) || errors.Is(err, ErrConflict) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// KindOf reports the kind of err, KindInternal when it is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
