package sale

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
)

// Repository persists sales and their lines. Every method filters by tenantID.
type Repository interface {
	// Create inserts the sale header and its lines.
	Create(ctx context.Context, s *Sale) error

	// GetForUpdate reads the sale with lines and locks its row.
	GetForUpdate(ctx context.Context, tenantID, saleID id.ID) (*Sale, error)

	GetByID(ctx context.Context, tenantID, saleID id.ID) (*Sale, error)

	// Update rewrites the header and replaces every line.
	Update(ctx context.Context, s *Sale) error

	// Delete removes the lines and the header.
	Delete(ctx context.Context, tenantID, saleID id.ID) error

	List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]*Sale, error)
}

// ReturnCounter reports whether returns reference a sale.
type ReturnCounter interface {
	CountForSale(ctx context.Context, tenantID, saleID id.ID) (int, error)
}
