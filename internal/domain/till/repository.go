package till

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
)

// Repository persists shifts and expenses and sums cash flows.
type Repository interface {
	// CreateShift inserts an OPEN shift. At most one OPEN shift may exist per
	// (tenant, user); a second one fails with SHIFT_ALREADY_OPEN.
	CreateShift(ctx context.Context, shift *CashRegister) error

	// GetOpenShift returns the user's OPEN shift, or NOT_FOUND.
	GetOpenShift(ctx context.Context, tenantID id.ID, userID string, forUpdate bool) (*CashRegister, error)

	// CloseShift writes the close fields of shift.
	CloseShift(ctx context.Context, shift *CashRegister) error

	ListShifts(ctx context.Context, tenantID id.ID, userID string, limit int) ([]*CashRegister, error)

	CreateExpense(ctx context.Context, e *Expense) error

	// CashFlows sums cash-method sale paid amounts, cash customer payments and
	// expenses of the tenant created in [from, to].
	CashFlows(ctx context.Context, tenantID id.ID, from, to time.Time) (CashFlows, error)
}
