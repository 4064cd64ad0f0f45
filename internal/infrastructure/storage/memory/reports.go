package memory

import (
	"context"
	"sort"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/consistency"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/reports"
)

// Reports returns the read-only reporting queries.
func (s *Store) Reports() reports.Repository { return reportRepo{s} }

// Consistency returns the balance history used by the drift checker.
func (s *Store) Consistency() consistency.Repository { return consistencyRepo{s} }

type reportRepo struct{ s *Store }

func (r reportRepo) SaleRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]reports.SaleRow, error) {
	docs, err := r.s.Sales().List(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]reports.SaleRow, 0, len(docs))
	for _, doc := range docs {
		out = append(out, reports.SaleRow{
			SaleID:        doc.ID,
			CreatedAt:     doc.CreatedAt,
			TotalAmount:   doc.TotalAmount,
			PaidAmount:    doc.PaidAmount,
			PaymentMethod: doc.PaymentMethod,
		})
	}
	return out, nil
}

func (r reportRepo) SaleLineRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]reports.SaleLineRow, error) {
	docs, err := r.s.Sales().List(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	var out []reports.SaleLineRow
	err = r.s.read(ctx, func(st *state) error {
		for _, doc := range docs {
			for _, l := range doc.Lines {
				row := reports.SaleLineRow{
					SaleID:   doc.ID,
					ItemID:   l.ItemID,
					Quantity: l.Quantity,
					Amount:   l.Amount,
				}
				if it, ok := st.items[l.ItemID]; ok {
					row.ItemName = it.Name
					row.CostPrice = it.CostPrice
				}
				out = append(out, row)
			}
		}
		return nil
	})
	return out, err
}

func (r reportRepo) CustomerPaymentRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]reports.PaymentRow, error) {
	payments, err := r.s.Payments().List(ctx, tenantID, counterparty.KindCustomer, nil, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]reports.PaymentRow, 0, len(payments))
	for _, p := range payments {
		out = append(out, reports.PaymentRow{Amount: p.Amount, Method: p.Method, CreatedAt: p.CreatedAt})
	}
	return out, nil
}

func (r reportRepo) PositiveBalances(ctx context.Context, tenantID id.ID, kind counterparty.Kind) ([]reports.BalanceRow, error) {
	parties, err := r.s.Counterparties().List(ctx, tenantID, kind)
	if err != nil {
		return nil, err
	}
	var out []reports.BalanceRow
	for _, cp := range parties {
		if cp.Balance.IsPositive() {
			out = append(out, reports.BalanceRow{ID: cp.ID, Name: cp.Name, Phone: cp.Phone, Balance: cp.Balance})
		}
	}
	return out, nil
}

type consistencyRepo struct{ s *Store }

func (r consistencyRepo) Events(ctx context.Context, tenantID id.ID, kind counterparty.Kind) ([]consistency.Event, error) {
	var out []consistency.Event
	err := r.s.read(ctx, func(st *state) error {
		if kind == counterparty.KindCustomer {
			for _, doc := range st.sales {
				if doc.TenantID == tenantID && doc.CustomerID != nil && doc.CreditAmount().IsPositive() {
					out = append(out, consistency.Event{CounterpartyID: *doc.CustomerID, At: doc.CreatedAt, Kind: consistency.EventCredit, Amount: doc.CreditAmount()})
				}
			}
		} else {
			for _, doc := range st.purchases {
				if doc.TenantID == tenantID && doc.SupplierID != nil && doc.CreditAmount().IsPositive() {
					out = append(out, consistency.Event{CounterpartyID: *doc.SupplierID, At: doc.CreatedAt, Kind: consistency.EventCredit, Amount: doc.CreditAmount()})
				}
			}
		}
		for _, p := range st.payments {
			if p.TenantID == tenantID && p.Kind == kind {
				out = append(out, consistency.Event{CounterpartyID: p.CounterpartyID, At: p.CreatedAt, Kind: consistency.EventPayment, Amount: p.Amount})
			}
		}
		for _, ret := range st.returns {
			if ret.TenantID != tenantID || ret.Kind != kind || ret.CounterpartyID == nil || ret.Type == ledger.ReturnExchange {
				continue
			}
			out = append(out, consistency.Event{CounterpartyID: *ret.CounterpartyID, At: ret.CreatedAt, Kind: consistency.EventReturn, Amount: ret.Amount, ReturnType: ret.Type})
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, err
}
