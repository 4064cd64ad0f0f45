package counterparty

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

// Repository persists customers and suppliers. Every method filters by
// tenantID; a counterparty of another tenant is reported as not found.
type Repository interface {
	Create(ctx context.Context, cp *Counterparty) error

	GetByID(ctx context.Context, tenantID id.ID, kind Kind, cpID id.ID) (*Counterparty, error)

	// GetForUpdate reads the counterparty and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, tenantID id.ID, kind Kind, cpID id.ID) (*Counterparty, error)

	SetBalance(ctx context.Context, tenantID id.ID, kind Kind, cpID id.ID, balance types.Money) error

	List(ctx context.Context, tenantID id.ID, kind Kind) ([]*Counterparty, error)
}

// Balances collects the balance changes of one procedure per counterparty of
// one kind. Deltas are summed and applied once on Flush, so an edit that
// reverses and re-applies the same credit nets to zero before any clamp.
type Balances struct {
	kind    Kind
	parties map[id.ID]*Counterparty
	order   []id.ID
	deltas  map[id.ID]types.Money
}

// NewBalances creates an empty tracker.
func NewBalances(kind Kind) *Balances {
	return &Balances{kind: kind, parties: map[id.ID]*Counterparty{}, deltas: map[id.ID]types.Money{}}
}

// Lock loads and locks cpID once. A nil cpID is a no-op.
func (b *Balances) Lock(ctx context.Context, repo Repository, tenantID id.ID, cpID *id.ID) (*Counterparty, error) {
	if cpID == nil {
		return nil, nil
	}
	if cp, ok := b.parties[*cpID]; ok {
		return cp, nil
	}
	cp, err := repo.GetForUpdate(ctx, tenantID, b.kind, *cpID)
	if err != nil {
		return nil, err
	}
	b.parties[*cpID] = cp
	b.order = append(b.order, *cpID)
	return cp, nil
}

// Get returns a locked counterparty.
func (b *Balances) Get(cpID id.ID) *Counterparty {
	return b.parties[cpID]
}

// Adjust adds delta to the pending change of a locked counterparty.
func (b *Balances) Adjust(cpID id.ID, delta types.Money) {
	if _, ok := b.parties[cpID]; !ok {
		return
	}
	if cur, ok := b.deltas[cpID]; ok {
		b.deltas[cpID] = cur.Add(delta)
		return
	}
	b.deltas[cpID] = delta
}

// Delta returns the pending net change of cpID.
func (b *Balances) Delta(cpID id.ID) types.Money {
	if d, ok := b.deltas[cpID]; ok {
		return d
	}
	return types.Zero()
}

// Flush applies each net change once and writes the balances that moved.
func (b *Balances) Flush(ctx context.Context, repo Repository, tenantID id.ID) error {
	for _, cpID := range b.order {
		delta, ok := b.deltas[cpID]
		if !ok || delta.IsZero() {
			continue
		}
		cp := b.parties[cpID]
		next := ledger.ApplyBalanceDelta(cp.Balance, delta)
		if next.Equal(cp.Balance) {
			continue
		}
		if err := repo.SetBalance(ctx, tenantID, b.kind, cpID, next); err != nil {
			return err
		}
		cp.Balance = next
	}
	return nil
}
