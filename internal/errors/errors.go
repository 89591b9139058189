// Package errors provides the transport-facing error type for the API.
// Services return *AppError; entity guard failures from the domain package
// are translated by Resolve so handlers only ever render one shape.
package errors

import (
	"errors"
	"net/http"

	"budgettracker/internal/domain"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional field errors, and an
// optional internal cause that is logged but never rendered.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	StatusCode int               `json:"-"`
	Internal   error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a validation-style AppError carrying per-field messages.
func WithFields(sentinel *AppError, fields map[string]string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Fields:     fields,
		StatusCode: sentinel.StatusCode,
	}
}

// FromDomain converts an entity guard failure into a business-rule AppError.
// The domain error stays reachable through errors.Is.
func FromDomain(err *domain.Error) *AppError {
	return &AppError{
		Code:       err.Code,
		Message:    err.Message,
		StatusCode: ErrBusinessRule.StatusCode,
		Internal:   err,
	}
}

// Resolve maps any error to an AppError. Unknown errors become
// ErrInternalServer with the cause kept for logging.
func Resolve(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		return FromDomain(domErr)
	}
	return Wrap(ErrInternalServer, err)
}

// Authentication & authorization errors.
var (
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials  = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrAccountDeactivated  = &AppError{Code: "ACCOUNT_DEACTIVATED", Message: "Account is deactivated", StatusCode: http.StatusUnauthorized}
	ErrRefreshTokenInvalid = &AppError{Code: "REFRESH_TOKEN_INVALID", Message: "Invalid refresh token", StatusCode: http.StatusUnauthorized}
	ErrRefreshTokenExpired = &AppError{Code: "REFRESH_TOKEN_EXPIRED", Message: "Refresh token has expired", StatusCode: http.StatusUnauthorized}
	ErrRefreshTokenRevoked = &AppError{Code: "REFRESH_TOKEN_REVOKED", Message: "Refresh token has been revoked", StatusCode: http.StatusUnauthorized}
	ErrForbidden           = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrTooManyRequests     = &AppError{Code: "TOO_MANY_REQUESTS", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
	ErrInvalidAPIKey       = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrValidation     = &AppError{Code: "VALIDATION_FAILED", Message: "One or more validation errors occurred", StatusCode: http.StatusBadRequest}
	ErrBusinessRule   = &AppError{Code: "BUSINESS_RULE_VIOLATION", Message: "Business Rule Violation", StatusCode: http.StatusUnprocessableEntity}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateName    = &AppError{Code: "DUPLICATE_CATEGORY_NAME", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetLimitNotFound = &AppError{Code: "BUDGET_LIMIT_NOT_FOUND", Message: "Budget limit not found", StatusCode: http.StatusNotFound}
)

// Recurring template errors.
var (
	ErrRecurringNotFound = &AppError{Code: "RECURRING_TRANSACTION_NOT_FOUND", Message: "Recurring transaction not found", StatusCode: http.StatusNotFound}
)
