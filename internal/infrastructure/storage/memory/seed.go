package memory

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
)

// SeedItem stores an item with the given stock and prices, bypassing the
// catalog service. Prices and quantity are decimal strings.
func (s *Store) SeedItem(tenantID id.ID, name, qty, cost, price string) *item.Item {
	it := item.New(tenantID, name, "", types.MustMoney(cost), types.MustMoney(price))
	it.Quantity = types.MustQuantity(qty)
	if err := s.Items().Create(context.Background(), it); err != nil {
		panic(err)
	}
	return it
}

// SeedCounterparty stores a customer or supplier with an opening balance.
func (s *Store) SeedCounterparty(tenantID id.ID, kind counterparty.Kind, name, balance string) *counterparty.Counterparty {
	cp := counterparty.New(tenantID, kind, name)
	cp.Balance = types.MustMoney(balance)
	if err := s.Counterparties().Create(context.Background(), cp); err != nil {
		panic(err)
	}
	return cp
}

// Quantity reads the stored stock of an item, or zero when it is missing.
func (s *Store) Quantity(itemID id.ID) types.Quantity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.data.items[itemID]; ok {
		return it.Quantity
	}
	return types.Zero()
}

// Balance reads the stored balance of a counterparty, or zero when it is missing.
func (s *Store) Balance(kind counterparty.Kind, cpID id.ID) types.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cp, ok := s.data.counterparties[kind][cpID]; ok {
		return cp.Balance
	}
	return types.Zero()
}
