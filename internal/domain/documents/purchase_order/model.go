// Package purchase_order provides purchase orders: draft intents to buy that
// become a real Purchase when received.
package purchase_order

import (
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// Status of a purchase order.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusReceived  Status = "RECEIVED"
	StatusCancelled Status = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// allowed lists the forward transitions. Anything not listed is a STATE_ERROR.
var allowed = map[Status][]Status{
	StatusDraft: {StatusSent, StatusReceived, StatusCancelled},
	StatusSent:  {StatusReceived, StatusCancelled},
}

// PurchaseOrder is an order to a supplier.
type PurchaseOrder struct {
	entity.BaseDocument

	SupplierID  *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	Status      Status      `db:"status" json:"status"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	Note        string      `db:"note" json:"note,omitempty"`

	// PurchaseID is set once the order is received.
	PurchaseID *id.ID     `db:"purchase_id" json:"purchaseId,omitempty"`
	ReceivedAt *time.Time `db:"received_at" json:"receivedAt,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is an ordered quantity at an expected unit cost.
type Line struct {
	OrderID   id.ID          `db:"order_id" json:"-"`
	LineNo    int            `db:"line_no" json:"lineNo"`
	ItemID    id.ID          `db:"item_id" json:"itemId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	CostPrice types.Money    `db:"cost_price" json:"costPrice"`
	Amount    types.Money    `db:"amount" json:"amount"`
}

// TransitionTo moves the order to next or fails with STATE_ERROR.
func (po *PurchaseOrder) TransitionTo(next Status) error {
	for _, s := range allowed[po.Status] {
		if s == next {
			po.Status = next
			return nil
		}
	}
	return apperror.NewState("purchase order", string(po.Status), string(next))
}

// CanModify reports whether lines and supplier may still be changed.
func (po *PurchaseOrder) CanModify() error {
	if po.Status != StatusDraft && po.Status != StatusSent {
		return apperror.NewState("purchase order", string(po.Status), "modified")
	}
	return nil
}
