package reports

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
)

// Repository returns raw rows of one tenant created in [from, to]. Rows come
// ordered by creation time, then by line number, so ranking ties are stable.
type Repository interface {
	SaleRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]SaleRow, error)
	SaleLineRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]SaleLineRow, error)
	CustomerPaymentRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]PaymentRow, error)

	// PositiveBalances returns counterparties with balance > 0 in creation order.
	PositiveBalances(ctx context.Context, tenantID id.ID, kind counterparty.Kind) ([]BalanceRow, error)
}
