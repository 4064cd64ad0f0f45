// Package register_repo provides the PostgreSQL cash register (till) repository.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/till"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

const (
	shiftTable   = "cash_registers"
	expenseTable = "expenses"
)

var (
	shiftCols   = postgres.Columns[till.CashRegister]()
	expenseCols = postgres.Columns[till.Expense]()
)

var _ till.Repository = (*TillRepo)(nil)

// TillRepo implements till.Repository. One OPEN shift per (tenant, user) is
// enforced by a partial unique index.
type TillRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewTillRepo creates a new till repository.
func NewTillRepo(txManager *postgres.TxManager) *TillRepo {
	return &TillRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *TillRepo) CreateShift(ctx context.Context, shift *till.CashRegister) error {
	sql, args, err := r.builder.
		Insert(shiftTable).
		SetMap(postgres.StructToMap(shift, shiftCols...)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if name, ok := postgres.UniqueViolation(err); ok && name == postgres.ConstraintOpenShift {
			return apperror.NewShiftAlreadyOpen(shift.UserID)
		}
		return fmt.Errorf("insert %s: %w", shiftTable, err)
	}
	return nil
}

func (r *TillRepo) GetOpenShift(ctx context.Context, tenantID id.ID, userID string, forUpdate bool) (*till.CashRegister, error) {
	q := r.builder.
		Select(shiftCols...).
		From(shiftTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "user_id": userID, "status": till.StatusOpen}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var shift till.CashRegister
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &shift, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("cash_register", userID)
		}
		return nil, fmt.Errorf("get open shift: %w", err)
	}
	return &shift, nil
}

func (r *TillRepo) CloseShift(ctx context.Context, shift *till.CashRegister) error {
	sql, args, err := r.builder.
		Update(shiftTable).
		SetMap(map[string]any{
			"status":        shift.Status,
			"closing_count": shift.ClosingCount,
			"expected_cash": shift.ExpectedCash,
			"variance":      shift.Variance,
			"note":          shift.Note,
			"closed_at":     shift.ClosedAt,
		}).
		Where(squirrel.Eq{"tenant_id": shift.TenantID, "id": shift.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", shiftTable, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("cash_register", shift.ID.String())
	}
	return nil
}

func (r *TillRepo) ListShifts(ctx context.Context, tenantID id.ID, userID string, limit int) ([]*till.CashRegister, error) {
	q := r.builder.
		Select(shiftCols...).
		From(shiftTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "user_id": userID}).
		OrderBy("opened_at DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*till.CashRegister
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return out, nil
}

func (r *TillRepo) CreateExpense(ctx context.Context, e *till.Expense) error {
	sql, args, err := r.builder.
		Insert(expenseTable).
		SetMap(postgres.StructToMap(e, expenseCols...)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", expenseTable, err)
	}
	return nil
}

func (r *TillRepo) CashFlows(ctx context.Context, tenantID id.ID, from, to time.Time) (till.CashFlows, error) {
	flows := till.CashFlows{}
	var err error

	flows.CashSales, err = r.sum(ctx, "paid_amount", "sales", squirrel.Eq{"tenant_id": tenantID, "payment_method": ledger.MethodCash}, from, to)
	if err != nil {
		return flows, err
	}
	flows.CashPayments, err = r.sum(ctx, "amount", "customer_payments", squirrel.Eq{"tenant_id": tenantID, "method": ledger.MethodCash}, from, to)
	if err != nil {
		return flows, err
	}
	flows.Expenses, err = r.sum(ctx, "amount", expenseTable, squirrel.Eq{"tenant_id": tenantID}, from, to)
	return flows, err
}

func (r *TillRepo) sum(ctx context.Context, col, table string, where squirrel.Eq, from, to time.Time) (types.Money, error) {
	sql, args, err := r.builder.
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", col)).
		From(table).
		Where(where).
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.LtOrEq{"created_at": to}).
		ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum %s.%s: %w", table, col, err)
	}
	return total, nil
}
