// Package report_repo provides the PostgreSQL read models behind reports and
// the balance consistency check.
package report_repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/consistency"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

var (
	_ reports.Repository     = (*ReportRepo)(nil)
	_ consistency.Repository = (*ReportRepo)(nil)
)

// ReportRepo implements reports.Repository and consistency.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func withRange(q squirrel.SelectBuilder, col string, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{col: *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{col: *to})
	}
	return q
}

func selectInto[T any](ctx context.Context, r *ReportRepo, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var out []T
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("report query: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) SaleRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]reports.SaleRow, error) {
	q := r.builder.
		Select("id", "created_at", "total_amount", "paid_amount", "payment_method").
		From("sales").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("created_at", "id")
	return selectInto[reports.SaleRow](ctx, r, withRange(q, "created_at", from, to))
}

func (r *ReportRepo) SaleLineRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]reports.SaleLineRow, error) {
	q := r.builder.
		Select(
			"l.sale_id",
			"l.item_id",
			"i.name AS item_name",
			"l.quantity",
			"l.amount",
			"i.cost_price",
		).
		From("sale_lines l").
		Join("sales s ON s.id = l.sale_id").
		Join("items i ON i.id = l.item_id").
		Where(squirrel.Eq{"s.tenant_id": tenantID}).
		OrderBy("s.created_at", "s.id", "l.line_no")
	return selectInto[reports.SaleLineRow](ctx, r, withRange(q, "s.created_at", from, to))
}

func (r *ReportRepo) CustomerPaymentRows(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]reports.PaymentRow, error) {
	q := r.builder.
		Select("amount", "method", "created_at").
		From("customer_payments").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("created_at", "id")
	return selectInto[reports.PaymentRow](ctx, r, withRange(q, "created_at", from, to))
}

func (r *ReportRepo) PositiveBalances(ctx context.Context, tenantID id.ID, kind counterparty.Kind) ([]reports.BalanceRow, error) {
	table := "customers"
	if kind == counterparty.KindSupplier {
		table = "suppliers"
	}
	q := r.builder.
		Select("id", "name", "phone", "balance").
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Gt{"balance": 0}).
		OrderBy("created_at", "id")
	return selectInto[reports.BalanceRow](ctx, r, q)
}

// Events collects credit remainders, payments and balance-affecting returns of
// every counterparty of kind, oldest first.
func (r *ReportRepo) Events(ctx context.Context, tenantID id.ID, kind counterparty.Kind) ([]consistency.Event, error) {
	docs, cpCol, payments, rets := "sales", "customer_id", "customer_payments", "customer_returns"
	if kind == counterparty.KindSupplier {
		docs, cpCol, payments, rets = "purchases", "supplier_id", "supplier_payments", "supplier_returns"
	}

	credits := r.builder.
		Select(
			cpCol+" AS counterparty_id",
			"created_at AS at",
			fmt.Sprintf("'%s' AS kind", consistency.EventCredit),
			"total_amount - paid_amount AS amount",
			"'' AS return_type",
		).
		From(docs).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.NotEq{cpCol: nil}).
		Where("total_amount > paid_amount")

	paid := r.builder.
		Select(
			"counterparty_id",
			"created_at AS at",
			fmt.Sprintf("'%s' AS kind", consistency.EventPayment),
			"amount",
			"'' AS return_type",
		).
		From(payments).
		Where(squirrel.Eq{"tenant_id": tenantID})

	returned := r.builder.
		Select(
			"counterparty_id",
			"created_at AS at",
			fmt.Sprintf("'%s' AS kind", consistency.EventReturn),
			"amount",
			"type AS return_type",
		).
		From(rets).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.NotEq{"counterparty_id": nil}).
		Where(squirrel.NotEq{"type": ledger.ReturnExchange})

	var out []consistency.Event
	for _, q := range []squirrel.SelectBuilder{credits, paid, returned} {
		rows, err := selectInto[consistency.Event](ctx, r, q)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

// Tenants returns every tenant that owns at least one customer or supplier.
func (r *ReportRepo) Tenants(ctx context.Context) ([]id.ID, error) {
	var out []id.ID
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out,
		`SELECT tenant_id FROM customers UNION SELECT tenant_id FROM suppliers ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return out, nil
}
