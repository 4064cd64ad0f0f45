// Package memory is an in-process storage backend used by tests and local
// development. A transaction holds the store mutex for its whole duration,
// so concurrent procedures are serialized, and a failed transaction restores
// the snapshot taken when it began.
package memory

import (
	"context"
	"sync"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/numerator"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/purchase_order"
	"ledgerpos/internal/domain/documents/returns"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/till"
)

// Store holds every table of every tenant. Stored values are never mutated in
// place: writes replace the pointer with a fresh copy, so a snapshot only has
// to copy the maps and slices.
type Store struct {
	mu   sync.Mutex
	data state

	faultMu sync.Mutex
	faults  map[string]error
}

type state struct {
	items          map[id.ID]*item.Item
	counterparties map[counterparty.Kind]map[id.ID]*counterparty.Counterparty
	sales          map[id.ID]*sale.Sale
	purchases      map[id.ID]*purchase.Purchase
	orders         map[id.ID]*purchase_order.PurchaseOrder
	payments       []*payment.Payment
	returns        []*returns.Return
	shifts         []*till.CashRegister
	expenses       []*till.Expense
	audit          []audit.Entry
	sequences      map[string]int64
}

type txKey struct{}

// New creates an empty store.
func New() *Store {
	return &Store{
		data: state{
			items: map[id.ID]*item.Item{},
			counterparties: map[counterparty.Kind]map[id.ID]*counterparty.Counterparty{
				counterparty.KindCustomer: {},
				counterparty.KindSupplier: {},
			},
			sales:     map[id.ID]*sale.Sale{},
			purchases: map[id.ID]*purchase.Purchase{},
			orders:    map[id.ID]*purchase_order.PurchaseOrder{},
			sequences: map[string]int64{},
		},
		faults: map[string]error{},
	}
}

// RunInTransaction implements tx.Manager.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snap
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

// FailOn makes the next calls of op return err until cleared with a nil err.
// op is "<table>.<Method>", e.g. "items.SetQuantity" or "customers.SetBalance".
func (s *Store) FailOn(op string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.faults[op]
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// read runs fn against the data, taking the mutex unless ctx already holds it.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(&s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

// write is read with fault injection for op.
func (s *Store) write(ctx context.Context, op string, fn func(st *state) error) error {
	if err := s.fault(op); err != nil {
		return err
	}
	return s.read(ctx, fn)
}

func (st state) clone() state {
	out := state{
		items:          copyMap(st.items),
		counterparties: map[counterparty.Kind]map[id.ID]*counterparty.Counterparty{},
		sales:          copyMap(st.sales),
		purchases:      copyMap(st.purchases),
		orders:         copyMap(st.orders),
		payments:       append([]*payment.Payment(nil), st.payments...),
		returns:        append([]*returns.Return(nil), st.returns...),
		shifts:         append([]*till.CashRegister(nil), st.shifts...),
		expenses:       append([]*till.Expense(nil), st.expenses...),
		audit:          append([]audit.Entry(nil), st.audit...),
		sequences:      copyMap(st.sequences),
	}
	for kind, m := range st.counterparties {
		out.counterparties[kind] = copyMap(m)
	}
	return out
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Next implements numerator.Generator.
func (s *Store) Next(ctx context.Context, tenantID id.ID, cfg numerator.Config, period time.Time) (string, error) {
	var number string
	err := s.write(ctx, "sequences.Next", func(st *state) error {
		key := tenantID.String() + "/" + cfg.Key(period)
		st.sequences[key]++
		number = cfg.Format(period, st.sequences[key])
		return nil
	})
	return number, err
}

// Record implements audit.Recorder.
func (s *Store) Record(ctx context.Context, entry audit.Entry) error {
	return s.write(ctx, "audit.Record", func(st *state) error {
		if id.IsNil(entry.ID) {
			entry.ID = id.New()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now().UTC()
		}
		st.audit = append(st.audit, entry)
		return nil
	})
}

// AuditEntries returns the audit trail of a tenant in append order.
func (s *Store) AuditEntries(tenantID id.ID) []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.Entry
	for _, e := range s.data.audit {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
