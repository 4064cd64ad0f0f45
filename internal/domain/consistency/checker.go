// Package consistency recomputes counterparty balances from the documents
// that justify them and reports where the cached balance drifted.
package consistency

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/pkg/logger"
)

// EventKind is the kind of balance-affecting document.
type EventKind string

const (
	EventCredit  EventKind = "credit"
	EventPayment EventKind = "payment"
	EventReturn  EventKind = "return"
)

// Event is one balance-affecting document in the counterparty's history.
type Event struct {
	CounterpartyID id.ID             `db:"counterparty_id"`
	At             time.Time         `db:"at"`
	Kind           EventKind         `db:"kind"`
	Amount         types.Money       `db:"amount"`
	ReturnType     ledger.ReturnType `db:"return_type"`
}

// Repository supplies the history to replay.
type Repository interface {
	// Events returns credit remainders of sales (or purchases), payments and
	// CASH/CREDIT returns of every counterparty of kind.
	Events(ctx context.Context, tenantID id.ID, kind counterparty.Kind) ([]Event, error)
}

// Drift is a counterparty whose stored balance differs from the replay.
type Drift struct {
	CounterpartyID id.ID       `json:"counterpartyId"`
	Name           string      `json:"name"`
	Stored         types.Money `json:"stored"`
	Replayed       types.Money `json:"replayed"`
	Difference     types.Money `json:"difference"`
}

// Report is the result of one check.
type Report struct {
	Kind    counterparty.Kind `json:"kind"`
	Checked int               `json:"checked"`
	Drifts  []Drift           `json:"drifts"`
}

// Checker compares cached balances against a chronological replay.
type Checker struct {
	counterparties counterparty.Repository
	events         Repository
}

// NewChecker creates a new checker.
func NewChecker(counterparties counterparty.Repository, events Repository) *Checker {
	return &Checker{counterparties: counterparties, events: events}
}

// Check replays every counterparty of kind with the same clamps the document
// services apply. A voided or edited document whose reversal was clamped can
// legitimately show up as drift; the report is informational.
func (c *Checker) Check(ctx context.Context, tenantID id.ID, kind counterparty.Kind) (*Report, error) {
	parties, err := c.counterparties.List(ctx, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	events, err := c.events.Events(ctx, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("%s events: %w", kind, err)
	}

	replayed := Replay(events)
	report := &Report{Kind: kind, Checked: len(parties), Drifts: []Drift{}}
	for _, cp := range parties {
		want, ok := replayed[cp.ID]
		if !ok {
			want = decimal.Zero
		}
		if cp.Balance.Equal(want) {
			continue
		}
		report.Drifts = append(report.Drifts, Drift{
			CounterpartyID: cp.ID,
			Name:           cp.Name,
			Stored:         cp.Balance,
			Replayed:       want,
			Difference:     cp.Balance.Sub(want),
		})
	}

	if len(report.Drifts) > 0 {
		logger.Warn(ctx, "balance drift detected", "kind", kind, "tenant_id", tenantID, "drifts", len(report.Drifts))
	}
	return report, nil
}

// Replay folds events in chronological order into balances per counterparty.
func Replay(events []Event) map[id.ID]types.Money {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	out := map[id.ID]types.Money{}
	for _, e := range sorted {
		current := out[e.CounterpartyID]
		switch e.Kind {
		case EventCredit:
			current = ledger.IncreaseBalance(current, e.Amount)
		case EventPayment:
			current, _ = ledger.DecreaseBalanceClamped(current, e.Amount)
		case EventReturn:
			current, _ = ledger.ApplyReturnToBalance(e.ReturnType, current, e.Amount)
		}
		out[e.CounterpartyID] = current
	}
	return out
}
