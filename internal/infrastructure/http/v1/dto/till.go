package dto

import (
	"ledgerpos/internal/core/types"
)

// OpenShiftRequest opens the caller's shift.
type OpenShiftRequest struct {
	OpeningFloat types.Money `json:"openingFloat"`
}

// CloseShiftRequest closes the caller's shift with the counted cash.
type CloseShiftRequest struct {
	ClosingCount types.Money `json:"closingCount"`
	Note         *string     `json:"note,omitempty"`
}

// ExpenseRequest records a cash-out.
type ExpenseRequest struct {
	Amount   types.Money `json:"amount"`
	Category string      `json:"category" binding:"required"`
	Note     string      `json:"note,omitempty"`
}
