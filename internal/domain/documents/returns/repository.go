package returns

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
)

// Repository persists returns. Customer and supplier returns live in separate tables.
type Repository interface {
	Create(ctx context.Context, r *Return) error

	// ReturnedQuantity sums what was already returned of itemID against documentID.
	ReturnedQuantity(ctx context.Context, tenantID id.ID, kind counterparty.Kind, documentID, itemID id.ID) (types.Quantity, error)

	CountForSale(ctx context.Context, tenantID, saleID id.ID) (int, error)
	CountForPurchase(ctx context.Context, tenantID, purchaseID id.ID) (int, error)

	List(ctx context.Context, tenantID id.ID, kind counterparty.Kind, from, to *time.Time) ([]*Return, error)
}
