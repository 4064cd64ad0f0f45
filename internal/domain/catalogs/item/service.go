package item

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/pkg/logger"
)

// Service manages item catalog data. It never changes a quantity after
// creation; stock moves only through sales, purchases and returns.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new item service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// CreateInput is the payload for a new item. OpeningQuantity seeds initial stock.
type CreateInput struct {
	Name            string
	SKU             string
	CostPrice       types.Money
	SellingPrice    types.Money
	OpeningQuantity types.Quantity
}

// Create registers a new item.
func (s *Service) Create(ctx context.Context, tenantID id.ID, in CreateInput) (*Item, error) {
	it := New(tenantID, in.Name, in.SKU, in.CostPrice, in.SellingPrice)
	it.Quantity = in.OpeningQuantity
	if err := it.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	logger.Info(ctx, "item created", "item_id", it.ID, "tenant_id", tenantID)
	return it, nil
}

// UpdateInput changes descriptive fields and prices.
type UpdateInput struct {
	Name         string
	SKU          string
	CostPrice    types.Money
	SellingPrice types.Money
}

// Update edits an item's descriptive fields.
func (s *Service) Update(ctx context.Context, tenantID, itemID id.ID, in UpdateInput) (*Item, error) {
	var out *Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetForUpdate(ctx, tenantID, itemID)
		if err != nil {
			return err
		}
		it.Name = in.Name
		it.SKU = in.SKU
		it.CostPrice = in.CostPrice
		it.SellingPrice = in.SellingPrice
		if err := it.Validate(); err != nil {
			return err
		}
		if err := s.repo.UpdateDetails(ctx, it); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		out = it
		return nil
	})
	return out, err
}

// Get returns one item.
func (s *Service) Get(ctx context.Context, tenantID, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, tenantID, itemID)
}

// List returns all items of a tenant.
func (s *Service) List(ctx context.Context, tenantID id.ID) ([]*Item, error) {
	if id.IsNil(tenantID) {
		return nil, apperror.NewValidation("tenant is required")
	}
	return s.repo.List(ctx, tenantID)
}
