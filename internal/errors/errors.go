// Package errors provides the typed error taxonomy used by the service
// layer. Every business-rule rejection is an *AppError so that callers can
// branch on the error code instead of matching message strings, and so that
// handlers never leak internal details to clients.
package errors

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional diagnostic details,
// and an optional internal error.
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
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

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
)

// Budget errors.
var (
	ErrBudgetNotFound       = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudgetMonth = &AppError{Code: "DUPLICATE_BUDGET_MONTH", Message: "A budget already exists for this month", StatusCode: http.StatusConflict}
	ErrBudgetHasExpenses    = &AppError{Code: "BUDGET_HAS_EXPENSES", Message: "Cannot delete a budget with recorded expenses", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound      = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategoryName = &AppError{Code: "DUPLICATE_CATEGORY_NAME", Message: "A category with this name already exists in this budget", StatusCode: http.StatusConflict}
	ErrCategoryHasExpenses   = &AppError{Code: "CATEGORY_HAS_EXPENSES", Message: "Cannot delete a category with recorded expenses", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// LimitDetails carries the figures behind a rejected expense write so the
// caller can display exactly why the category limit would be exceeded.
type LimitDetails struct {
	Limit        decimal.Decimal `json:"limit"`
	CurrentSpent decimal.Decimal `json:"current_spent"`
	Proposed     decimal.Decimal `json:"proposed"`
}

// LimitExceeded creates the error returned when a proposed expense would
// push a category's total spend past its limit.
func LimitExceeded(limit, currentSpent, proposed decimal.Decimal) *AppError {
	return &AppError{
		Code: "LIMIT_EXCEEDED",
		Message: fmt.Sprintf("Expense exceeds the category limit. Limit: %s, Spent: %s, Proposed: %s",
			limit.StringFixed(2), currentSpent.StringFixed(2), proposed.StringFixed(2)),
		Details:    LimitDetails{Limit: limit, CurrentSpent: currentSpent, Proposed: proposed},
		StatusCode: http.StatusBadRequest,
	}
}
