package memory

import (
	"context"
	"sort"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/till"
)

// Till returns the shift and expense tables.
func (s *Store) Till() till.Repository { return tillRepo{s} }

type tillRepo struct{ s *Store }

func (r tillRepo) CreateShift(ctx context.Context, shift *till.CashRegister) error {
	return r.s.write(ctx, "cash_registers.Create", func(st *state) error {
		if openShift(st, shift.TenantID, shift.UserID) != nil {
			return apperror.NewShiftAlreadyOpen(shift.UserID)
		}
		c := *shift
		st.shifts = append(st.shifts, &c)
		return nil
	})
}

func (r tillRepo) GetOpenShift(ctx context.Context, tenantID id.ID, userID string, _ bool) (*till.CashRegister, error) {
	var out *till.CashRegister
	err := r.s.read(ctx, func(st *state) error {
		shift := openShift(st, tenantID, userID)
		if shift == nil {
			return apperror.NewNotFound("cash_register", userID)
		}
		c := *shift
		out = &c
		return nil
	})
	return out, err
}

func (r tillRepo) CloseShift(ctx context.Context, shift *till.CashRegister) error {
	return r.s.write(ctx, "cash_registers.Close", func(st *state) error {
		for i, cur := range st.shifts {
			if cur.ID == shift.ID && cur.TenantID == shift.TenantID {
				c := *shift
				st.shifts[i] = &c
				return nil
			}
		}
		return apperror.NewNotFound("cash_register", shift.ID.String())
	})
}

func (r tillRepo) ListShifts(ctx context.Context, tenantID id.ID, userID string, limit int) ([]*till.CashRegister, error) {
	var out []*till.CashRegister
	err := r.s.read(ctx, func(st *state) error {
		for _, shift := range st.shifts {
			if shift.TenantID == tenantID && shift.UserID == userID {
				c := *shift
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r tillRepo) CreateExpense(ctx context.Context, e *till.Expense) error {
	return r.s.write(ctx, "expenses.Create", func(st *state) error {
		c := *e
		st.expenses = append(st.expenses, &c)
		return nil
	})
}

func (r tillRepo) CashFlows(ctx context.Context, tenantID id.ID, from, to time.Time) (till.CashFlows, error) {
	flows := till.CashFlows{CashSales: types.Zero(), CashPayments: types.Zero(), Expenses: types.Zero()}
	err := r.s.read(ctx, func(st *state) error {
		for _, doc := range st.sales {
			if doc.TenantID == tenantID && doc.PaymentMethod == ledger.MethodCash && inRange(doc.CreatedAt, &from, &to) {
				flows.CashSales = flows.CashSales.Add(doc.PaidAmount)
			}
		}
		for _, p := range st.payments {
			if p.TenantID == tenantID && p.Kind == counterparty.KindCustomer && p.Method == ledger.MethodCash && inRange(p.CreatedAt, &from, &to) {
				flows.CashPayments = flows.CashPayments.Add(p.Amount)
			}
		}
		for _, e := range st.expenses {
			if e.TenantID == tenantID && inRange(e.CreatedAt, &from, &to) {
				flows.Expenses = flows.Expenses.Add(e.Amount)
			}
		}
		return nil
	})
	return flows, err
}

func openShift(st *state, tenantID id.ID, userID string) *till.CashRegister {
	for _, shift := range st.shifts {
		if shift.TenantID == tenantID && shift.UserID == userID && shift.Status == till.StatusOpen {
			return shift
		}
	}
	return nil
}
