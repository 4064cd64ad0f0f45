package payment

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
)

// Repository persists payments. Payments are never updated or deleted.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	List(ctx context.Context, tenantID id.ID, kind counterparty.Kind, counterpartyID *id.ID, from, to *time.Time) ([]*Payment, error)
}
