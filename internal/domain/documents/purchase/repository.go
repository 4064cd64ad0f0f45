package purchase

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
)

// Repository persists purchases and their lines. Every method filters by tenantID.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	GetForUpdate(ctx context.Context, tenantID, purchaseID id.ID) (*Purchase, error)
	GetByID(ctx context.Context, tenantID, purchaseID id.ID) (*Purchase, error)
	Update(ctx context.Context, p *Purchase) error
	Delete(ctx context.Context, tenantID, purchaseID id.ID) error
	List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]*Purchase, error)
}

// ReturnCounter reports whether supplier returns reference a purchase.
type ReturnCounter interface {
	CountForPurchase(ctx context.Context, tenantID, purchaseID id.ID) (int, error)
}
