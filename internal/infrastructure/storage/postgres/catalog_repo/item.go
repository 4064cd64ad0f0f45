package catalog_repo

import (
	"context"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

const itemTable = "items"

var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo implements item.Repository over the items table.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			itemTable,
			"item",
			postgres.Columns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	return duplicateSKU(r.insert(ctx, it), it.SKU)
}

func (r *ItemRepo) UpdateDetails(ctx context.Context, it *item.Item) error {
	err := r.updateColumns(ctx, it.TenantID, it.ID, map[string]any{
		"name":          it.Name,
		"sku":           it.SKU,
		"cost_price":    it.CostPrice,
		"selling_price": it.SellingPrice,
	})
	return duplicateSKU(err, it.SKU)
}

func (r *ItemRepo) GetByID(ctx context.Context, tenantID, itemID id.ID) (*item.Item, error) {
	return r.get(ctx, tenantID, itemID, false)
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, tenantID, itemID id.ID) (*item.Item, error) {
	return r.get(ctx, tenantID, itemID, true)
}

func (r *ItemRepo) SetQuantity(ctx context.Context, tenantID, itemID id.ID, qty types.Quantity) error {
	return r.updateColumns(ctx, tenantID, itemID, map[string]any{"quantity": qty})
}

func (r *ItemRepo) List(ctx context.Context, tenantID id.ID) ([]*item.Item, error) {
	return r.list(ctx, tenantID, "name", "id")
}

func duplicateSKU(err error, sku string) error {
	if _, ok := postgres.UniqueViolation(err); ok {
		return apperror.NewDuplicate("item", "sku", sku)
	}
	return err
}
