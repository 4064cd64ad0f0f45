package purchase_order

import (
	"context"

	"ledgerpos/internal/core/id"
)

// Repository persists purchase orders and their lines.
type Repository interface {
	Create(ctx context.Context, po *PurchaseOrder) error
	GetForUpdate(ctx context.Context, tenantID, poID id.ID) (*PurchaseOrder, error)
	GetByID(ctx context.Context, tenantID, poID id.ID) (*PurchaseOrder, error)

	// Update rewrites the header and replaces every line.
	Update(ctx context.Context, po *PurchaseOrder) error

	Delete(ctx context.Context, tenantID, poID id.ID) error
	List(ctx context.Context, tenantID id.ID, status *Status) ([]*PurchaseOrder, error)
}
