package item

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

// Repository persists items. Every method filters by tenantID; an item of
// another tenant is reported as not found.
type Repository interface {
	Create(ctx context.Context, item *Item) error

	// UpdateDetails writes name, sku and prices. Quantity is left untouched.
	UpdateDetails(ctx context.Context, item *Item) error

	GetByID(ctx context.Context, tenantID, itemID id.ID) (*Item, error)

	// GetForUpdate reads the item and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, tenantID, itemID id.ID) (*Item, error)

	SetQuantity(ctx context.Context, tenantID, itemID id.ID, qty types.Quantity) error

	List(ctx context.Context, tenantID id.ID) ([]*Item, error)
}

// LockAll locks every item in ids in ascending id order and returns them keyed by id.
func LockAll(ctx context.Context, repo Repository, tenantID id.ID, ids []id.ID) (map[id.ID]*Item, error) {
	out := make(map[id.ID]*Item, len(ids))
	for _, itemID := range ids {
		it, err := repo.GetForUpdate(ctx, tenantID, itemID)
		if err != nil {
			return nil, err
		}
		out[itemID] = it
	}
	return out, nil
}

// Quantities extracts the current quantities of locked items.
func Quantities(items map[id.ID]*Item) map[id.ID]types.Quantity {
	out := make(map[id.ID]types.Quantity, len(items))
	for itemID, it := range items {
		out[itemID] = it.Quantity
	}
	return out
}

// SetQuantities writes resolved quantities in lock order.
func SetQuantities(ctx context.Context, repo Repository, tenantID id.ID, changes map[id.ID]types.Quantity) error {
	set := make(map[id.ID]struct{}, len(changes))
	for itemID := range changes {
		set[itemID] = struct{}{}
	}
	for _, itemID := range ledger.SortedIDs(set) {
		if err := repo.SetQuantity(ctx, tenantID, itemID, changes[itemID]); err != nil {
			return err
		}
	}
	return nil
}
