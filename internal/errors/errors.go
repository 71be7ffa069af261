// Package errors provides the application error taxonomy for the spendtrack API.
// All service-layer failures are returned as *AppError so that handlers can
// render a consistent JSON body without leaking store internals to clients.
package errors

import (
	"fmt"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Resource, Field and Value carry the entity kind and offending key for
// not-found, duplicate and invalid-argument failures.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`

	Resource string `json:"-"`
	Field    string `json:"-"`
	Value    string `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an *AppError with the same code, so that
// errors.Is(err, ErrUserNotFound) matches copies made by Wrap/WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	cp := *sentinel
	cp.Internal = internal
	return &cp
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	cp := *sentinel
	cp.Message = message
	return &cp
}

// NotFound builds a not-found error for the given entity kind and key.
// The sentinel is chosen by kind so callers can still match on the code.
func NotFound(kind, key string) *AppError {
	sentinel := ErrNotFound
	switch kind {
	case KindUser:
		sentinel = ErrUserNotFound
	case KindCategory:
		sentinel = ErrCategoryNotFound
	case KindTransaction:
		sentinel = ErrTransactionNotFound
	}
	cp := *sentinel
	cp.Message = fmt.Sprintf("%s not found: %s", kind, key)
	cp.Resource = kind
	cp.Field = "id"
	cp.Value = key
	return &cp
}

// Duplicate builds a duplicate-resource error for kind.field = value.
func Duplicate(kind, field, value string) *AppError {
	sentinel := ErrDuplicate
	switch {
	case kind == KindUser && field == "handle":
		sentinel = ErrDuplicateHandle
	case kind == KindUser && field == "email":
		sentinel = ErrDuplicateEmail
	case kind == KindCategory && field == "name":
		sentinel = ErrDuplicateCategoryName
	}
	cp := *sentinel
	cp.Message = fmt.Sprintf("%s with %s '%s' already exists", kind, field, value)
	cp.Resource = kind
	cp.Field = field
	cp.Value = value
	return &cp
}

// InvalidArgument builds an invalid-input error naming the field and the reason.
func InvalidArgument(field, reason string) *AppError {
	cp := *ErrInvalidInput
	cp.Message = fmt.Sprintf("%s %s", field, reason)
	cp.Field = field
	return &cp
}

// Entity kinds used in NotFound and Duplicate.
const (
	KindUser        = "user"
	KindCategory    = "category"
	KindTransaction = "transaction"
)

// Authentication & authorization errors.
var (
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or secret", StatusCode: http.StatusUnauthorized}
	ErrOwnershipMismatch  = &AppError{Code: "OWNERSHIP_MISMATCH", Message: "Category does not belong to the specified user", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrDuplicate      = &AppError{Code: "DUPLICATE_RESOURCE", Message: "Resource already exists", StatusCode: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound    = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateHandle = &AppError{Code: "DUPLICATE_HANDLE", Message: "A user with this handle already exists", StatusCode: http.StatusConflict}
	ErrDuplicateEmail  = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound      = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategoryName = &AppError{Code: "DUPLICATE_CATEGORY_NAME", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
)
