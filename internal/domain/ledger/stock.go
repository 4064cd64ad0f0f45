// Package ledger holds the pure arithmetic behind every stock and balance
// mutation. Nothing here touches storage; services read current values under
// lock, call these functions, and persist the results.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// ApplyStockDelta returns current + delta.
// Fails with INSUFFICIENT_STOCK when the result would be negative.
func ApplyStockDelta(itemID id.ID, current, delta types.Quantity) (types.Quantity, error) {
	next := current.Add(delta)
	if next.IsNegative() {
		return current, apperror.NewInsufficientStock(itemID.String(), delta.Neg(), current)
	}
	return next, nil
}

// StockProjection composes several deltas per item before validating them.
// Edits reverse the old lines and apply the new ones on the same projection,
// so an intermediate negative value is allowed as long as the final one is not.
type StockProjection struct {
	current map[id.ID]types.Quantity
	delta   map[id.ID]types.Quantity
	order   []id.ID
}

// NewStockProjection starts a projection from the locked current quantities.
func NewStockProjection(current map[id.ID]types.Quantity) *StockProjection {
	p := &StockProjection{
		current: make(map[id.ID]types.Quantity, len(current)),
		delta:   make(map[id.ID]types.Quantity, len(current)),
	}
	for itemID, qty := range current {
		p.current[itemID] = qty
	}
	return p
}

// Add accumulates delta for itemID without validating it.
func (p *StockProjection) Add(itemID id.ID, delta types.Quantity) {
	if _, seen := p.delta[itemID]; !seen {
		p.order = append(p.order, itemID)
		p.delta[itemID] = decimal.Zero
	}
	p.delta[itemID] = p.delta[itemID].Add(delta)
}

// Resolve validates the composed result of every item in first-touched order
// and returns the new quantities of the items whose value changed.
func (p *StockProjection) Resolve() (map[id.ID]types.Quantity, error) {
	out := make(map[id.ID]types.Quantity, len(p.order))
	for _, itemID := range p.order {
		delta := p.delta[itemID]
		if delta.IsZero() {
			continue
		}
		next, err := ApplyStockDelta(itemID, p.current[itemID], delta)
		if err != nil {
			return nil, err
		}
		out[itemID] = next
	}
	return out, nil
}

// SortedIDs returns ids in ascending byte order.
// Rows are locked in this order to keep concurrent procedures from deadlocking.
func SortedIDs(ids map[id.ID]struct{}) []id.ID {
	out := make([]id.ID, 0, len(ids))
	for v := range ids {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
