// Package purchase provides the Purchase document, the supplier-facing mirror of a sale:
// stock increases and any unpaid remainder becomes a payable.
package purchase

import (
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

// Purchase is a goods-in transaction.
type Purchase struct {
	entity.BaseDocument

	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// PurchaseOrderID links a purchase created by converting an order.
	PurchaseOrderID *id.ID `db:"purchase_order_id" json:"purchaseOrderId,omitempty"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	PaidAmount  types.Money `db:"paid_amount" json:"paidAmount"`

	PaymentType   ledger.PaymentType   `db:"payment_type" json:"paymentType"`
	PaymentMethod ledger.PaymentMethod `db:"payment_method" json:"paymentMethod"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one purchase line at the unit cost paid.
type Line struct {
	PurchaseID id.ID          `db:"purchase_id" json:"-"`
	LineNo     int            `db:"line_no" json:"lineNo"`
	ItemID     id.ID          `db:"item_id" json:"itemId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	CostPrice  types.Money    `db:"cost_price" json:"costPrice"`
	Amount     types.Money    `db:"amount" json:"amount"`
}

// CreditAmount is the part of the total still owed to the supplier.
func (p *Purchase) CreditAmount() types.Money {
	return p.TotalAmount.Sub(p.PaidAmount)
}

// QuantityByItem sums line quantities per item in first-seen order.
func (p *Purchase) QuantityByItem() ([]id.ID, map[id.ID]types.Quantity) {
	var order []id.ID
	out := make(map[id.ID]types.Quantity, len(p.Lines))
	for _, l := range p.Lines {
		if _, ok := out[l.ItemID]; !ok {
			order = append(order, l.ItemID)
		}
		out[l.ItemID] = out[l.ItemID].Add(l.Quantity)
	}
	return order, out
}

// VoidResult reports what a void reversed.
type VoidResult struct {
	PurchaseID        id.ID       `json:"purchaseId"`
	VoidedAmount      types.Money `json:"voidedAmount"`
	ReversedItemCount int         `json:"reversedItemCount"`
}
