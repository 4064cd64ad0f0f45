package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/documents/returns"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

var _ returns.Repository = (*ReturnRepo)(nil)

var returnCols = postgres.Columns[returns.Return]()

// ReturnRepo implements returns.Repository. Customer returns reference a sale,
// supplier returns a purchase, both through document_id.
type ReturnRepo struct {
	txManager *postgres.TxManager
}

// NewReturnRepo creates a new return repository.
func NewReturnRepo(txManager *postgres.TxManager) *ReturnRepo {
	return &ReturnRepo{txManager: txManager}
}

// ReturnTable returns the table holding returns of kind.
func ReturnTable(kind counterparty.Kind) (string, error) {
	switch kind {
	case counterparty.KindCustomer:
		return "customer_returns", nil
	case counterparty.KindSupplier:
		return "supplier_returns", nil
	}
	return "", apperror.NewValidation("invalid counterparty kind").WithDetail("value", string(kind))
}

func (r *ReturnRepo) Create(ctx context.Context, ret *returns.Return) error {
	table, err := ReturnTable(ret.Kind)
	if err != nil {
		return err
	}
	sql, args, err := builder().
		Insert(table).
		SetMap(postgres.StructToMap(ret, returnCols...)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *ReturnRepo) ReturnedQuantity(ctx context.Context, tenantID id.ID, kind counterparty.Kind, documentID, itemID id.ID) (types.Quantity, error) {
	table, err := ReturnTable(kind)
	if err != nil {
		return types.Zero(), err
	}
	sql, args, err := builder().
		Select("COALESCE(SUM(quantity), 0)").
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID, "document_id": documentID, "item_id": itemID}).
		ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Quantity
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum returned quantity: %w", err)
	}
	return total, nil
}

func (r *ReturnRepo) count(ctx context.Context, tenantID id.ID, kind counterparty.Kind, documentID id.ID) (int, error) {
	table, err := ReturnTable(kind)
	if err != nil {
		return 0, err
	}
	sql, args, err := builder().
		Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID, "document_id": documentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var n int
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count returns: %w", err)
	}
	return n, nil
}

func (r *ReturnRepo) CountForSale(ctx context.Context, tenantID, saleID id.ID) (int, error) {
	return r.count(ctx, tenantID, counterparty.KindCustomer, saleID)
}

func (r *ReturnRepo) CountForPurchase(ctx context.Context, tenantID, purchaseID id.ID) (int, error) {
	return r.count(ctx, tenantID, counterparty.KindSupplier, purchaseID)
}

func (r *ReturnRepo) List(ctx context.Context, tenantID id.ID, kind counterparty.Kind, from, to *time.Time) ([]*returns.Return, error) {
	table, err := ReturnTable(kind)
	if err != nil {
		return nil, err
	}
	q := builder().
		Select(returnCols...).
		From(table).
		Where(squirrel.Eq{"tenant_id": tenantID})
	sql, args, err := withRange(q, "created_at", from, to).OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*returns.Return
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	for _, ret := range out {
		ret.Kind = kind
	}
	return out, nil
}
