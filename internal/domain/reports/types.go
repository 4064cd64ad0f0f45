// Package reports computes read-only rollups over sales, payments and balances.
// Repositories return raw rows; grouping, bucketing and ranking happen here so
// every storage backend yields identical figures.
package reports

import (
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

// DateRange bounds a report. Nil ends are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Validate rejects an inverted range.
func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return apperror.NewValidation("from must not be after to").WithDetail("field", "from")
	}
	return nil
}

// --- raw rows ---

// SaleRow is one sale header.
type SaleRow struct {
	SaleID        id.ID                `db:"id"`
	CreatedAt     time.Time            `db:"created_at"`
	TotalAmount   types.Money          `db:"total_amount"`
	PaidAmount    types.Money          `db:"paid_amount"`
	PaymentMethod ledger.PaymentMethod `db:"payment_method"`
}

// SaleLineRow is one sale line joined with the item's current cost price.
type SaleLineRow struct {
	SaleID    id.ID          `db:"sale_id"`
	ItemID    id.ID          `db:"item_id"`
	ItemName  string         `db:"item_name"`
	Quantity  types.Quantity `db:"quantity"`
	Amount    types.Money    `db:"amount"`
	CostPrice types.Money    `db:"cost_price"`
}

// PaymentRow is one customer payment.
type PaymentRow struct {
	Amount    types.Money          `db:"amount"`
	Method    ledger.PaymentMethod `db:"method"`
	CreatedAt time.Time            `db:"created_at"`
}

// BalanceRow is a counterparty with a positive balance.
type BalanceRow struct {
	ID      id.ID       `db:"id" json:"id"`
	Name    string      `db:"name" json:"name"`
	Phone   *string     `db:"phone" json:"phone,omitempty"`
	Balance types.Money `db:"balance" json:"balance"`
}

// --- results ---

// DailyRevenue is one day of the trailing window.
type DailyRevenue struct {
	Date    string      `json:"date"`
	Revenue types.Money `json:"revenue"`
	Count   int         `json:"count"`
}

// MethodTotal aggregates money received through one payment method.
type MethodTotal struct {
	Method   ledger.PaymentMethod `json:"method"`
	Sales    types.Money          `json:"sales"`
	Payments types.Money          `json:"payments"`
	Total    types.Money          `json:"total"`
}

// TopItem is an item ranked by revenue.
type TopItem struct {
	ItemID   id.ID          `json:"itemId"`
	Name     string         `json:"name"`
	Quantity types.Quantity `json:"quantity"`
	Revenue  types.Money    `json:"revenue"`
}

// BalanceList is a debtor or creditor list.
type BalanceList struct {
	Rows  []BalanceRow `json:"rows"`
	Total types.Money  `json:"total"`
}

// Profit is the gross profit of a window.
type Profit struct {
	Revenue     types.Money `json:"revenue"`
	Cost        types.Money `json:"cost"`
	GrossProfit types.Money `json:"grossProfit"`
	// Margin is GrossProfit / Revenue × 100, and 0 when there is no revenue.
	Margin    types.Money `json:"margin"`
	SaleCount int         `json:"saleCount"`
}
