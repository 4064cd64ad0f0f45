// Package till tracks cash-drawer shifts and reconciles the counted cash
// against what sales, payments and expenses say should be in the drawer.
package till

import (
	"time"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/types"
)

// Status of a shift.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// CashRegister is one shift of one user. ExpectedCash and Variance are only
// set at close; while open they are recomputed on every read.
type CashRegister struct {
	entity.TenantEntity

	UserID       string       `db:"user_id" json:"userId"`
	Status       Status       `db:"status" json:"status"`
	OpeningFloat types.Money  `db:"opening_float" json:"openingFloat"`
	ClosingCount *types.Money `db:"closing_count" json:"closingCount,omitempty"`
	ExpectedCash *types.Money `db:"expected_cash" json:"expectedCash,omitempty"`
	Variance     *types.Money `db:"variance" json:"variance,omitempty"`
	Note         *string      `db:"note" json:"note,omitempty"`
	OpenedAt     time.Time    `db:"opened_at" json:"openedAt"`
	ClosedAt     *time.Time   `db:"closed_at" json:"closedAt,omitempty"`
}

// Expense is cash taken out of the drawer.
type Expense struct {
	entity.TenantEntity

	UserID    string      `db:"user_id" json:"userId"`
	Amount    types.Money `db:"amount" json:"amount"`
	Category  string      `db:"category" json:"category"`
	Note      string      `db:"note" json:"note,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// CashFlows are the cash movements inside a window.
type CashFlows struct {
	CashSales    types.Money
	CashPayments types.Money
	Expenses     types.Money
}

// RunningTotals is the live view of an open shift.
type RunningTotals struct {
	ShiftID      string      `json:"shiftId"`
	OpeningFloat types.Money `json:"openingFloat"`
	CashIn       types.Money `json:"cashIn"`
	CashOut      types.Money `json:"cashOut"`
	ExpectedCash types.Money `json:"expectedCash"`
	OpenedAt     time.Time   `json:"openedAt"`
}

// ExpectedCash = openingFloat + cash sales paid + cash customer payments − expenses.
func ExpectedCash(openingFloat types.Money, f CashFlows) types.Money {
	return openingFloat.Add(f.CashSales).Add(f.CashPayments).Sub(f.Expenses)
}
