package ledger

import (
	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/types"
)

// IncreaseBalance adds a credit remainder to a receivable or payable.
func IncreaseBalance(current, amount types.Money) types.Money {
	return current.Add(amount)
}

// DecreaseBalanceClamped lowers current by at most current.
// Used by payments, CASH returns and credit reversals on void/edit: the
// balance never goes below zero and the returned applied amount is
// min(amount, current).
func DecreaseBalanceClamped(current, amount types.Money) (next, applied types.Money) {
	if !current.IsPositive() {
		return current, decimal.Zero
	}
	applied = types.Min(amount, current)
	return current.Sub(applied), applied
}

// DecreaseBalanceUnclamped lowers current by the full amount.
// Used by CREDIT returns; the balance may become negative (a credit note).
func DecreaseBalanceUnclamped(current, amount types.Money) (next, applied types.Money) {
	return current.Sub(amount), amount
}

// ApplyBalanceDelta applies the net change of one procedure to current. A net
// increase is added in full; a net decrease is clamped like a payment.
func ApplyBalanceDelta(current, delta types.Money) types.Money {
	if !delta.IsNegative() {
		return IncreaseBalance(current, delta)
	}
	next, _ := DecreaseBalanceClamped(current, delta.Neg())
	return next
}

// ComputeCreditAmount returns total − paid.
// Any positive remainder makes the document a credit document that requires a
// counterparty. Fails when paid is negative or exceeds total.
func ComputeCreditAmount(total, paid types.Money) (types.Money, error) {
	if paid.IsNegative() {
		return decimal.Zero, apperror.NewValidation("paid amount must not be negative").
			WithDetail("field", "paidAmount")
	}
	if paid.GreaterThan(total) {
		return decimal.Zero, apperror.NewValidation("paid amount exceeds total").
			WithDetail("field", "paidAmount").
			WithDetail("paid", paid.String()).
			WithDetail("total", total.String())
	}
	return total.Sub(paid), nil
}
