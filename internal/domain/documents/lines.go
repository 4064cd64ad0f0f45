// Package documents holds what sales, purchases and purchase orders share:
// line input validation and the id sets used to lock rows in a stable order.
package documents

import (
	"fmt"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

// LineInput is one requested document line. A nil Price falls back to the
// item's selling price (sales) or cost price (purchases).
type LineInput struct {
	ItemID   id.ID
	Quantity types.Quantity
	Price    *types.Money
}

// ValidateLines checks line shape before any row is read.
func ValidateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, l := range lines {
		field := fmt.Sprintf("items[%d]", i)
		if id.IsNil(l.ItemID) {
			return apperror.NewValidation("item is required").WithDetail("field", field+".itemId")
		}
		if !l.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").WithDetail("field", field+".quantity")
		}
		if l.Price != nil && l.Price.IsNegative() {
			return apperror.NewValidation("price must not be negative").WithDetail("field", field+".price")
		}
	}
	return nil
}

// ValidatePaid checks the paid amount shape.
func ValidatePaid(paid types.Money) error {
	if paid.IsNegative() {
		return apperror.NewValidation("paid amount must not be negative").WithDetail("field", "paidAmount")
	}
	return nil
}

// IDSet collects ids to lock.
type IDSet map[id.ID]struct{}

// Add inserts v.
func (s IDSet) Add(v id.ID) { s[v] = struct{}{} }

// AddLines inserts the item of every line.
func (s IDSet) AddLines(lines []LineInput) {
	for _, l := range lines {
		s.Add(l.ItemID)
	}
}

// Sorted returns the ids in lock order.
func (s IDSet) Sorted() []id.ID {
	return ledger.SortedIDs(s)
}

// SortedOptional returns the distinct non-nil ids among refs in lock order.
func SortedOptional(refs ...*id.ID) []*id.ID {
	set := IDSet{}
	for _, r := range refs {
		if r != nil {
			set.Add(*r)
		}
	}
	out := make([]*id.ID, 0, len(set))
	for _, v := range set.Sorted() {
		out = append(out, &v)
	}
	return out
}
