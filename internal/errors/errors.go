// Package errors provides the structured error type used across the service
// layer. Handlers translate AppErrors into JSON responses; internal causes
// are logged but never leaked to clients. Rows outside a requester's visible
// scope always map to not-found errors so existence is never revealed.
package errors

import "net/http"

// AppError is a structured application error carrying a stable error code,
// a client-safe message, the HTTP status to respond with, and an optional
// wrapped internal cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying an internal cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a custom client message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Validation errors.
var (
	ErrDuplicateName = &AppError{Code: "DUPLICATE_NAME", Message: "An object with this name already exists", StatusCode: http.StatusBadRequest}
)

// User & profile errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
	ErrDuplicateEmail    = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrProfileNotFound   = &AppError{Code: "PROFILE_NOT_FOUND", Message: "Profile not found", StatusCode: http.StatusNotFound}
)

// Category type errors.
var (
	ErrCategoryTypeNotFound  = &AppError{Code: "CATEGORY_TYPE_NOT_FOUND", Message: "Category type not found", StatusCode: http.StatusNotFound}
	ErrProtectedCategoryType = &AppError{Code: "PROTECTED_CATEGORY_TYPE", Message: "Default category types cannot be deleted", StatusCode: http.StatusForbidden}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// Budget plan errors.
var (
	ErrBudgetPlanNotFound = &AppError{Code: "BUDGET_PLAN_NOT_FOUND", Message: "Budget plan not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Provisioning errors.
var (
	ErrDefaultsNotProvisioned = &AppError{Code: "DEFAULTS_NOT_PROVISIONED", Message: "Default category types have not been provisioned", StatusCode: http.StatusInternalServerError}
)
