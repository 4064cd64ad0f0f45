// Package sale provides the Sale document: create, edit in place and void,
// each as one atomic procedure over stock and customer balance.
package sale

import (
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

// Sale is a sales transaction. TotalAmount is always Σ(line price × qty).
type Sale struct {
	entity.BaseDocument

	// CustomerID is nil for a walk-in sale, which must then be paid in full.
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	PaidAmount  types.Money `db:"paid_amount" json:"paidAmount"`

	PaymentType   ledger.PaymentType   `db:"payment_type" json:"paymentType"`
	PaymentMethod ledger.PaymentMethod `db:"payment_method" json:"paymentMethod"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one immutable sale line. Price is the unit price at the time of sale.
type Line struct {
	SaleID   id.ID          `db:"sale_id" json:"-"`
	LineNo   int            `db:"line_no" json:"lineNo"`
	ItemID   id.ID          `db:"item_id" json:"itemId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`
	Price    types.Money    `db:"price" json:"price"`
	Amount   types.Money    `db:"amount" json:"amount"`
}

// CreditAmount is the part of the total left on the customer's account.
func (s *Sale) CreditAmount() types.Money {
	return s.TotalAmount.Sub(s.PaidAmount)
}

// QuantityByItem sums line quantities per item.
func (s *Sale) QuantityByItem() map[id.ID]types.Quantity {
	out := make(map[id.ID]types.Quantity, len(s.Lines))
	for _, l := range s.Lines {
		out[l.ItemID] = out[l.ItemID].Add(l.Quantity)
	}
	return out
}

// VoidResult reports what a void reversed.
type VoidResult struct {
	SaleID            id.ID       `json:"saleId"`
	VoidedAmount      types.Money `json:"voidedAmount"`
	ReversedItemCount int         `json:"reversedItemCount"`
}
