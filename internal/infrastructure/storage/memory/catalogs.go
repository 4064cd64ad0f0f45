package memory

import (
	"context"
	"sort"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
)

// Items returns the item table.
func (s *Store) Items() item.Repository { return itemRepo{s} }

// Counterparties returns the customer and supplier tables.
func (s *Store) Counterparties() counterparty.Repository { return counterpartyRepo{s} }

type itemRepo struct{ s *Store }

func (r itemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.s.write(ctx, "items.Create", func(st *state) error {
		for _, other := range st.items {
			if it.SKU != "" && other.TenantID == it.TenantID && other.SKU == it.SKU {
				return apperror.NewDuplicate("item", "sku", it.SKU)
			}
		}
		c := *it
		st.items[it.ID] = &c
		return nil
	})
}

func (r itemRepo) UpdateDetails(ctx context.Context, it *item.Item) error {
	return r.s.write(ctx, "items.UpdateDetails", func(st *state) error {
		cur, err := getItem(st, it.TenantID, it.ID)
		if err != nil {
			return err
		}
		c := *cur
		c.Name = it.Name
		c.SKU = it.SKU
		c.CostPrice = it.CostPrice
		c.SellingPrice = it.SellingPrice
		c.UpdatedAt = time.Now().UTC()
		st.items[it.ID] = &c
		return nil
	})
}

func (r itemRepo) GetByID(ctx context.Context, tenantID, itemID id.ID) (*item.Item, error) {
	var out *item.Item
	err := r.s.read(ctx, func(st *state) error {
		it, err := getItem(st, tenantID, itemID)
		if err != nil {
			return err
		}
		c := *it
		out = &c
		return nil
	})
	return out, err
}

func (r itemRepo) GetForUpdate(ctx context.Context, tenantID, itemID id.ID) (*item.Item, error) {
	if err := r.s.fault("items.GetForUpdate"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, tenantID, itemID)
}

func (r itemRepo) SetQuantity(ctx context.Context, tenantID, itemID id.ID, qty types.Quantity) error {
	return r.s.write(ctx, "items.SetQuantity", func(st *state) error {
		cur, err := getItem(st, tenantID, itemID)
		if err != nil {
			return err
		}
		c := *cur
		c.Quantity = qty
		c.UpdatedAt = time.Now().UTC()
		st.items[itemID] = &c
		return nil
	})
}

func (r itemRepo) List(ctx context.Context, tenantID id.ID) ([]*item.Item, error) {
	var out []*item.Item
	err := r.s.read(ctx, func(st *state) error {
		for _, it := range st.items {
			if it.TenantID == tenantID {
				c := *it
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func getItem(st *state, tenantID, itemID id.ID) (*item.Item, error) {
	it, ok := st.items[itemID]
	if !ok || it.TenantID != tenantID {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return it, nil
}

type counterpartyRepo struct{ s *Store }

func (r counterpartyRepo) Create(ctx context.Context, cp *counterparty.Counterparty) error {
	return r.s.write(ctx, table(cp.Kind)+".Create", func(st *state) error {
		c := *cp
		st.counterparties[cp.Kind][cp.ID] = &c
		return nil
	})
}

func (r counterpartyRepo) GetByID(ctx context.Context, tenantID id.ID, kind counterparty.Kind, cpID id.ID) (*counterparty.Counterparty, error) {
	var out *counterparty.Counterparty
	err := r.s.read(ctx, func(st *state) error {
		cp, err := getCounterparty(st, tenantID, kind, cpID)
		if err != nil {
			return err
		}
		c := *cp
		out = &c
		return nil
	})
	return out, err
}

func (r counterpartyRepo) GetForUpdate(ctx context.Context, tenantID id.ID, kind counterparty.Kind, cpID id.ID) (*counterparty.Counterparty, error) {
	if err := r.s.fault(table(kind) + ".GetForUpdate"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, tenantID, kind, cpID)
}

func (r counterpartyRepo) SetBalance(ctx context.Context, tenantID id.ID, kind counterparty.Kind, cpID id.ID, balance types.Money) error {
	return r.s.write(ctx, table(kind)+".SetBalance", func(st *state) error {
		cur, err := getCounterparty(st, tenantID, kind, cpID)
		if err != nil {
			return err
		}
		c := *cur
		c.Balance = balance
		c.UpdatedAt = time.Now().UTC()
		st.counterparties[kind][cpID] = &c
		return nil
	})
}

func (r counterpartyRepo) List(ctx context.Context, tenantID id.ID, kind counterparty.Kind) ([]*counterparty.Counterparty, error) {
	var out []*counterparty.Counterparty
	err := r.s.read(ctx, func(st *state) error {
		for _, cp := range st.counterparties[kind] {
			if cp.TenantID == tenantID {
				c := *cp
				out = append(out, &c)
			}
		}
		return nil
	})
	sortCounterparties(out)
	return out, err
}

func getCounterparty(st *state, tenantID id.ID, kind counterparty.Kind, cpID id.ID) (*counterparty.Counterparty, error) {
	cp, ok := st.counterparties[kind][cpID]
	if !ok || cp.TenantID != tenantID {
		return nil, apperror.NewNotFound(kind.Entity(), cpID.String())
	}
	return cp, nil
}

func sortCounterparties(list []*counterparty.Counterparty) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}

// table names the fault-injection prefix of a counterparty kind.
func table(kind counterparty.Kind) string {
	return string(kind) + "s"
}
