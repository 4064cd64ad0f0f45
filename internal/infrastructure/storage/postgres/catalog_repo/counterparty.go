package catalog_repo

import (
	"context"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

var _ counterparty.Repository = (*CounterpartyRepo)(nil)

// CounterpartyRepo implements counterparty.Repository. Customers and suppliers
// share a row layout and live in separate tables.
type CounterpartyRepo struct {
	customers *BaseCatalogRepo[*counterparty.Counterparty]
	suppliers *BaseCatalogRepo[*counterparty.Counterparty]
}

// NewCounterpartyRepo creates a new counterparty repository.
func NewCounterpartyRepo(txManager *postgres.TxManager) *CounterpartyRepo {
	cols := postgres.Columns[counterparty.Counterparty]()
	return &CounterpartyRepo{
		customers: NewBaseCatalogRepo(txManager, "customers", "customer", cols, newCustomer),
		suppliers: NewBaseCatalogRepo(txManager, "suppliers", "supplier", cols, newSupplier),
	}
}

func newCustomer() *counterparty.Counterparty {
	return &counterparty.Counterparty{Kind: counterparty.KindCustomer}
}

func newSupplier() *counterparty.Counterparty {
	return &counterparty.Counterparty{Kind: counterparty.KindSupplier}
}

func (r *CounterpartyRepo) table(kind counterparty.Kind) (*BaseCatalogRepo[*counterparty.Counterparty], error) {
	switch kind {
	case counterparty.KindCustomer:
		return r.customers, nil
	case counterparty.KindSupplier:
		return r.suppliers, nil
	}
	return nil, apperror.NewValidation("invalid counterparty kind").WithDetail("value", string(kind))
}

func (r *CounterpartyRepo) Create(ctx context.Context, cp *counterparty.Counterparty) error {
	t, err := r.table(cp.Kind)
	if err != nil {
		return err
	}
	return t.insert(ctx, cp)
}

func (r *CounterpartyRepo) GetByID(ctx context.Context, tenantID id.ID, kind counterparty.Kind, cpID id.ID) (*counterparty.Counterparty, error) {
	t, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	return t.get(ctx, tenantID, cpID, false)
}

func (r *CounterpartyRepo) GetForUpdate(ctx context.Context, tenantID id.ID, kind counterparty.Kind, cpID id.ID) (*counterparty.Counterparty, error) {
	t, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	return t.get(ctx, tenantID, cpID, true)
}

func (r *CounterpartyRepo) SetBalance(ctx context.Context, tenantID id.ID, kind counterparty.Kind, cpID id.ID, balance types.Money) error {
	t, err := r.table(kind)
	if err != nil {
		return err
	}
	return t.updateColumns(ctx, tenantID, cpID, map[string]any{"balance": balance})
}

func (r *CounterpartyRepo) List(ctx context.Context, tenantID id.ID, kind counterparty.Kind) ([]*counterparty.Counterparty, error) {
	t, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	return t.list(ctx, tenantID, "created_at", "id")
}
