package counterparty

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/id"
	"ledgerpos/pkg/logger"
)

// Service manages customer and supplier catalog data.
// Balances are not writable here.
type Service struct {
	repo Repository
}

// NewService creates a new counterparty service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput is the payload for a new customer or supplier.
type CreateInput struct {
	Name  string
	Phone *string
	Email *string
}

// Create registers a customer or supplier with a zero balance.
func (s *Service) Create(ctx context.Context, tenantID id.ID, kind Kind, in CreateInput) (*Counterparty, error) {
	cp := New(tenantID, kind, in.Name)
	cp.Phone = in.Phone
	cp.Email = in.Email
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cp); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	logger.Info(ctx, "counterparty created", "kind", kind, "id", cp.ID, "tenant_id", tenantID)
	return cp, nil
}

// Get returns one counterparty.
func (s *Service) Get(ctx context.Context, tenantID id.ID, kind Kind, cpID id.ID) (*Counterparty, error) {
	return s.repo.GetByID(ctx, tenantID, kind, cpID)
}

// List returns all counterparties of a kind.
func (s *Service) List(ctx context.Context, tenantID id.ID, kind Kind) ([]*Counterparty, error) {
	return s.repo.List(ctx, tenantID, kind)
}
