package memory

import (
	"context"
	"sort"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/purchase_order"
	"ledgerpos/internal/domain/documents/returns"
	"ledgerpos/internal/domain/documents/sale"
)

// Sales returns the sale table.
func (s *Store) Sales() sale.Repository { return saleRepo{s} }

// Purchases returns the purchase table.
func (s *Store) Purchases() purchase.Repository { return purchaseRepo{s} }

// PurchaseOrders returns the purchase order table.
func (s *Store) PurchaseOrders() purchase_order.Repository { return orderRepo{s} }

// Payments returns the customer and supplier payment tables.
func (s *Store) Payments() payment.Repository { return paymentRepo{s} }

// Returns returns the customer and supplier return tables.
func (s *Store) Returns() returns.Repository { return returnRepo{s} }

// sale

type saleRepo struct{ s *Store }

func copySale(doc *sale.Sale) *sale.Sale {
	c := *doc
	c.Lines = append([]sale.Line(nil), doc.Lines...)
	return &c
}

func (r saleRepo) Create(ctx context.Context, doc *sale.Sale) error {
	return r.s.write(ctx, "sales.Create", func(st *state) error {
		st.sales[doc.ID] = copySale(doc)
		return nil
	})
}

func (r saleRepo) get(ctx context.Context, op string, tenantID, saleID id.ID) (*sale.Sale, error) {
	var out *sale.Sale
	err := r.s.write(ctx, op, func(st *state) error {
		doc, ok := st.sales[saleID]
		if !ok || doc.TenantID != tenantID {
			return apperror.NewNotFound("sale", saleID.String())
		}
		out = copySale(doc)
		return nil
	})
	return out, err
}

func (r saleRepo) GetForUpdate(ctx context.Context, tenantID, saleID id.ID) (*sale.Sale, error) {
	return r.get(ctx, "sales.GetForUpdate", tenantID, saleID)
}

func (r saleRepo) GetByID(ctx context.Context, tenantID, saleID id.ID) (*sale.Sale, error) {
	return r.get(ctx, "sales.GetByID", tenantID, saleID)
}

func (r saleRepo) Update(ctx context.Context, doc *sale.Sale) error {
	return r.s.write(ctx, "sales.Update", func(st *state) error {
		cur, ok := st.sales[doc.ID]
		if !ok || cur.TenantID != doc.TenantID {
			return apperror.NewNotFound("sale", doc.ID.String())
		}
		st.sales[doc.ID] = copySale(doc)
		return nil
	})
}

func (r saleRepo) Delete(ctx context.Context, tenantID, saleID id.ID) error {
	return r.s.write(ctx, "sales.Delete", func(st *state) error {
		cur, ok := st.sales[saleID]
		if !ok || cur.TenantID != tenantID {
			return apperror.NewNotFound("sale", saleID.String())
		}
		delete(st.sales, saleID)
		return nil
	})
}

func (r saleRepo) List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]*sale.Sale, error) {
	var out []*sale.Sale
	err := r.s.read(ctx, func(st *state) error {
		for _, doc := range st.sales {
			if doc.TenantID == tenantID && inRange(doc.CreatedAt, from, to) {
				out = append(out, copySale(doc))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return createdBefore(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, err
}

// purchase

type purchaseRepo struct{ s *Store }

func copyPurchase(doc *purchase.Purchase) *purchase.Purchase {
	c := *doc
	c.Lines = append([]purchase.Line(nil), doc.Lines...)
	return &c
}

func (r purchaseRepo) Create(ctx context.Context, doc *purchase.Purchase) error {
	return r.s.write(ctx, "purchases.Create", func(st *state) error {
		st.purchases[doc.ID] = copyPurchase(doc)
		return nil
	})
}

func (r purchaseRepo) get(ctx context.Context, op string, tenantID, purchaseID id.ID) (*purchase.Purchase, error) {
	var out *purchase.Purchase
	err := r.s.write(ctx, op, func(st *state) error {
		doc, ok := st.purchases[purchaseID]
		if !ok || doc.TenantID != tenantID {
			return apperror.NewNotFound("purchase", purchaseID.String())
		}
		out = copyPurchase(doc)
		return nil
	})
	return out, err
}

func (r purchaseRepo) GetForUpdate(ctx context.Context, tenantID, purchaseID id.ID) (*purchase.Purchase, error) {
	return r.get(ctx, "purchases.GetForUpdate", tenantID, purchaseID)
}

func (r purchaseRepo) GetByID(ctx context.Context, tenantID, purchaseID id.ID) (*purchase.Purchase, error) {
	return r.get(ctx, "purchases.GetByID", tenantID, purchaseID)
}

func (r purchaseRepo) Update(ctx context.Context, doc *purchase.Purchase) error {
	return r.s.write(ctx, "purchases.Update", func(st *state) error {
		cur, ok := st.purchases[doc.ID]
		if !ok || cur.TenantID != doc.TenantID {
			return apperror.NewNotFound("purchase", doc.ID.String())
		}
		st.purchases[doc.ID] = copyPurchase(doc)
		return nil
	})
}

func (r purchaseRepo) Delete(ctx context.Context, tenantID, purchaseID id.ID) error {
	return r.s.write(ctx, "purchases.Delete", func(st *state) error {
		cur, ok := st.purchases[purchaseID]
		if !ok || cur.TenantID != tenantID {
			return apperror.NewNotFound("purchase", purchaseID.String())
		}
		delete(st.purchases, purchaseID)
		return nil
	})
}

func (r purchaseRepo) List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]*purchase.Purchase, error) {
	var out []*purchase.Purchase
	err := r.s.read(ctx, func(st *state) error {
		for _, doc := range st.purchases {
			if doc.TenantID == tenantID && inRange(doc.CreatedAt, from, to) {
				out = append(out, copyPurchase(doc))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return createdBefore(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, err
}

// purchase order

type orderRepo struct{ s *Store }

func copyOrder(po *purchase_order.PurchaseOrder) *purchase_order.PurchaseOrder {
	c := *po
	c.Lines = append([]purchase_order.Line(nil), po.Lines...)
	return &c
}

func (r orderRepo) Create(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	return r.s.write(ctx, "purchase_orders.Create", func(st *state) error {
		st.orders[po.ID] = copyOrder(po)
		return nil
	})
}

func (r orderRepo) get(ctx context.Context, op string, tenantID, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	var out *purchase_order.PurchaseOrder
	err := r.s.write(ctx, op, func(st *state) error {
		po, ok := st.orders[poID]
		if !ok || po.TenantID != tenantID {
			return apperror.NewNotFound("purchase_order", poID.String())
		}
		out = copyOrder(po)
		return nil
	})
	return out, err
}

func (r orderRepo) GetForUpdate(ctx context.Context, tenantID, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.get(ctx, "purchase_orders.GetForUpdate", tenantID, poID)
}

func (r orderRepo) GetByID(ctx context.Context, tenantID, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.get(ctx, "purchase_orders.GetByID", tenantID, poID)
}

func (r orderRepo) Update(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	return r.s.write(ctx, "purchase_orders.Update", func(st *state) error {
		cur, ok := st.orders[po.ID]
		if !ok || cur.TenantID != po.TenantID {
			return apperror.NewNotFound("purchase_order", po.ID.String())
		}
		st.orders[po.ID] = copyOrder(po)
		return nil
	})
}

func (r orderRepo) Delete(ctx context.Context, tenantID, poID id.ID) error {
	return r.s.write(ctx, "purchase_orders.Delete", func(st *state) error {
		cur, ok := st.orders[poID]
		if !ok || cur.TenantID != tenantID {
			return apperror.NewNotFound("purchase_order", poID.String())
		}
		delete(st.orders, poID)
		return nil
	})
}

func (r orderRepo) List(ctx context.Context, tenantID id.ID, status *purchase_order.Status) ([]*purchase_order.PurchaseOrder, error) {
	var out []*purchase_order.PurchaseOrder
	err := r.s.read(ctx, func(st *state) error {
		for _, po := range st.orders {
			if po.TenantID != tenantID || (status != nil && po.Status != *status) {
				continue
			}
			out = append(out, copyOrder(po))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return createdBefore(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, err
}

// payment

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	return r.s.write(ctx, table(p.Kind)+".CreatePayment", func(st *state) error {
		c := *p
		st.payments = append(st.payments, &c)
		return nil
	})
}

func (r paymentRepo) List(ctx context.Context, tenantID id.ID, kind counterparty.Kind, counterpartyID *id.ID, from, to *time.Time) ([]*payment.Payment, error) {
	var out []*payment.Payment
	err := r.s.read(ctx, func(st *state) error {
		for _, p := range st.payments {
			if p.TenantID != tenantID || p.Kind != kind || !inRange(p.CreatedAt, from, to) {
				continue
			}
			if counterpartyID != nil && p.CounterpartyID != *counterpartyID {
				continue
			}
			c := *p
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// return

type returnRepo struct{ s *Store }

func (r returnRepo) Create(ctx context.Context, ret *returns.Return) error {
	return r.s.write(ctx, table(ret.Kind)+".CreateReturn", func(st *state) error {
		c := *ret
		st.returns = append(st.returns, &c)
		return nil
	})
}

func (r returnRepo) ReturnedQuantity(ctx context.Context, tenantID id.ID, kind counterparty.Kind, documentID, itemID id.ID) (types.Quantity, error) {
	total := types.Zero()
	err := r.s.read(ctx, func(st *state) error {
		for _, ret := range st.returns {
			if ret.TenantID == tenantID && ret.Kind == kind && ret.DocumentID == documentID && ret.ItemID == itemID {
				total = total.Add(ret.Quantity)
			}
		}
		return nil
	})
	return total, err
}

func (r returnRepo) count(ctx context.Context, tenantID id.ID, kind counterparty.Kind, documentID id.ID) (int, error) {
	n := 0
	err := r.s.read(ctx, func(st *state) error {
		for _, ret := range st.returns {
			if ret.TenantID == tenantID && ret.Kind == kind && ret.DocumentID == documentID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r returnRepo) CountForSale(ctx context.Context, tenantID, saleID id.ID) (int, error) {
	return r.count(ctx, tenantID, counterparty.KindCustomer, saleID)
}

func (r returnRepo) CountForPurchase(ctx context.Context, tenantID, purchaseID id.ID) (int, error) {
	return r.count(ctx, tenantID, counterparty.KindSupplier, purchaseID)
}

func (r returnRepo) List(ctx context.Context, tenantID id.ID, kind counterparty.Kind, from, to *time.Time) ([]*returns.Return, error) {
	var out []*returns.Return
	err := r.s.read(ctx, func(st *state) error {
		for _, ret := range st.returns {
			if ret.TenantID == tenantID && ret.Kind == kind && inRange(ret.CreatedAt, from, to) {
				c := *ret
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func createdBefore(a, b time.Time, aID, bID id.ID) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return aID.String() < bID.String()
}
