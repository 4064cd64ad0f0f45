package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAppError_ThroughWrapping(t *testing.T) {
	base := NewInsufficientStock("item-1", decimal.NewFromInt(5), decimal.NewFromInt(2))
	wrapped := fmt.Errorf("create sale: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(wrapped))
	assert.True(t, IsInsufficientStock(wrapped))
	assert.False(t, IsNotFound(wrapped))
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
}

func TestWithCause_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NewNotFound("sale", "s-1"), CodeNotFound, http.StatusNotFound},
		{"validation", NewValidation("bad"), CodeValidation, http.StatusBadRequest},
		{"tenant mismatch", NewTenantMismatch("a", "b"), CodeTenantMismatch, http.StatusForbidden},
		{"shift open", NewShiftAlreadyOpen("u-1"), CodeShiftAlreadyOpen, http.StatusConflict},
		{"duplicate", NewDuplicate("item", "sku", "X1"), CodeDuplicate, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.True(t, HasCode(tt.err, tt.code))
		})
	}
}
