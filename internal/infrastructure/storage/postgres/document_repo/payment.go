package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

var _ payment.Repository = (*PaymentRepo)(nil)

var paymentCols = postgres.Columns[payment.Payment]()

// PaymentRepo implements payment.Repository over customer_payments and
// supplier_payments.
type PaymentRepo struct {
	txManager *postgres.TxManager
}

// NewPaymentRepo creates a new payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{txManager: txManager}
}

// PaymentTable returns the table holding payments of kind.
func PaymentTable(kind counterparty.Kind) (string, error) {
	switch kind {
	case counterparty.KindCustomer:
		return "customer_payments", nil
	case counterparty.KindSupplier:
		return "supplier_payments", nil
	}
	return "", apperror.NewValidation("invalid counterparty kind").WithDetail("value", string(kind))
}

func (r *PaymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	table, err := PaymentTable(p.Kind)
	if err != nil {
		return err
	}
	sql, args, err := builder().
		Insert(table).
		SetMap(postgres.StructToMap(p, paymentCols...)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *PaymentRepo) List(ctx context.Context, tenantID id.ID, kind counterparty.Kind, counterpartyID *id.ID, from, to *time.Time) ([]*payment.Payment, error) {
	table, err := PaymentTable(kind)
	if err != nil {
		return nil, err
	}
	q := builder().
		Select(paymentCols...).
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID})
	if counterpartyID != nil {
		q = q.Where(squirrel.Eq{"counterparty_id": *counterpartyID})
	}
	sql, args, err := withRange(q, "created_at", from, to).OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*payment.Payment
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	for _, p := range out {
		p.Kind = kind
	}
	return out, nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
