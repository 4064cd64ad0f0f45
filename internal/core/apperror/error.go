// Package apperror provides structured error handling for the ledger engine.
// Every business failure is returned as an AppError so that callers can map it
// to a typed response without string matching.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeOverLimit           = "OVER_LIMIT"
	CodeCannotVoid          = "CANNOT_VOID"
	CodeState               = "STATE_ERROR"

	// Authorization errors (401, 403)
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeTenantMismatch = "TENANT_MISMATCH"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict         = "CONFLICT"
	CodeShiftAlreadyOpen = "SHIFT_ALREADY_OPEN"
	CodeDuplicate        = "DUPLICATE_ENTRY"
)

// AppError is the standard error type of the engine.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details carries quantities, ids and field names
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404).
// Entities owned by another tenant are reported the same way.
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInsufficientStock creates a stock shortage error carrying current and requested amounts.
func NewInsufficientStock(itemID string, requested, current decimal.Decimal) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    fmt.Sprintf("Insufficient stock: requested %s, available %s", requested.String(), current.String()),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"item_id":   itemID,
			"requested": requested.String(),
			"current":   current.String(),
		},
	}
}

// NewCannotVoid is returned when a purchase void would drive stock negative.
func NewCannotVoid(itemID string, shortfall decimal.Decimal) *AppError {
	return &AppError{
		Code:       CodeCannotVoid,
		Message:    fmt.Sprintf("Cannot void: item %s is short by %s", itemID, shortfall.String()),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"item_id":   itemID,
			"shortfall": shortfall.String(),
		},
	}
}

// NewOverLimit creates an error for an amount exceeding its allowed ceiling.
func NewOverLimit(field string, amount, limit decimal.Decimal) *AppError {
	return &AppError{
		Code:       CodeOverLimit,
		Message:    fmt.Sprintf("%s %s exceeds limit %s", field, amount.String(), limit.String()),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"field":  field,
			"amount": amount.String(),
			"limit":  limit.String(),
		},
	}
}

// NewInsufficientBalance creates an error for an adjustment exceeding what is owed.
func NewInsufficientBalance(counterpartyID string, amount, balance decimal.Decimal) *AppError {
	return &AppError{
		Code:       CodeInsufficientBalance,
		Message:    "Insufficient balance",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"counterparty_id": counterpartyID,
			"amount":          amount.String(),
			"balance":         balance.String(),
		},
	}
}

// NewState creates an invalid state transition error (422)
func NewState(entity, from, to string) *AppError {
	return &AppError{
		Code:       CodeState,
		Message:    fmt.Sprintf("%s cannot transition from %s to %s", entity, from, to),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"entity": entity, "from": from, "to": to},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewTenantMismatch is returned when the requested tenant differs from the session tenant.
func NewTenantMismatch(expected, got string) *AppError {
	return &AppError{
		Code:       CodeTenantMismatch,
		Message:    "Tenant does not match session",
		HTTPStatus: http.StatusForbidden,
		Details:    map[string]any{"expected": expected, "got": got},
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewShiftAlreadyOpen is returned when a user opens a second till shift.
func NewShiftAlreadyOpen(userID string) *AppError {
	return &AppError{
		Code:       CodeShiftAlreadyOpen,
		Message:    "A shift is already open for this user",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"user_id": userID},
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsInsufficientStock checks if error is CodeInsufficientStock
func IsInsufficientStock(err error) bool {
	return HasCode(err, CodeInsufficientStock)
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	return HasCode(err, CodeValidation)
}
