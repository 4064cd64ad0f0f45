package purchase_order_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/purchase"
	po "ledgerpos/internal/domain/documents/purchase_order"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/infrastructure/storage/memory"
)

const buyer = "buyer-1"

type env struct {
	store     *memory.Store
	orders    *po.Service
	purchases *purchase.Service
	tenant    id.ID
	item      *item.Item
	supplier  *counterparty.Counterparty
}

func newEnv() *env {
	store := memory.New()
	purchases := purchase.NewService(purchase.Deps{
		TxManager: store,
		Purchases: store.Purchases(),
		Items:     store.Items(),
		Suppliers: store.Counterparties(),
		Returns:   store.Returns(),
		Numerator: store,
		Audit:     store,
	})
	tenant := id.New()
	return &env{
		store: store,
		orders: po.NewService(po.Deps{
			TxManager: store,
			Orders:    store.PurchaseOrders(),
			Items:     store.Items(),
			Suppliers: store.Counterparties(),
			Purchases: purchases,
			Numerator: store,
			Audit:     store,
		}),
		purchases: purchases,
		tenant:    tenant,
		item:      store.SeedItem(tenant, "Sugar", "1", "30", "45"),
		supplier:  store.SeedCounterparty(tenant, counterparty.KindSupplier, "Sweet Co", "0"),
	}
}

func (e *env) draft(t *testing.T) *po.PurchaseOrder {
	t.Helper()
	o, err := e.orders.Create(context.Background(), e.tenant, buyer, po.Input{
		SupplierID: &e.supplier.ID,
		Items:      []documents.LineInput{{ItemID: e.item.ID, Quantity: types.MustQuantity("10")}},
	})
	require.NoError(t, err)
	return o
}

func TestCreate_DraftHasNoEffect(t *testing.T) {
	e := newEnv()
	o := e.draft(t)

	assert.Equal(t, po.StatusDraft, o.Status)
	assert.Equal(t, fmt.Sprintf("PO-%d-00001", o.CreatedAt.Year()), o.Number)
	assert.True(t, o.TotalAmount.Equal(types.MustMoney("300")))
	assert.True(t, e.store.Quantity(e.item.ID).Equal(types.MustQuantity("1")))
	assert.True(t, e.store.Balance(counterparty.KindSupplier, e.supplier.ID).IsZero())
}

func TestConvert_RunsPurchaseAndMarksReceived(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	o := e.draft(t)
	_, err := e.orders.MarkSent(ctx, e.tenant, o.ID, buyer)
	require.NoError(t, err)

	res, err := e.orders.Convert(ctx, e.tenant, o.ID, buyer, types.MustMoney("100"), ledger.MethodBank)
	require.NoError(t, err)

	got, err := e.orders.Get(ctx, e.tenant, o.ID)
	require.NoError(t, err)
	assert.Equal(t, po.StatusReceived, got.Status)
	require.NotNil(t, got.PurchaseID)
	assert.Equal(t, res.PurchaseID, *got.PurchaseID)
	assert.NotNil(t, got.ReceivedAt)

	p, err := e.purchases.Get(ctx, e.tenant, res.PurchaseID)
	require.NoError(t, err)
	require.NotNil(t, p.PurchaseOrderID)
	assert.Equal(t, o.ID, *p.PurchaseOrderID)
	assert.Equal(t, ledger.MethodBank, p.PaymentMethod)

	assert.True(t, e.store.Quantity(e.item.ID).Equal(types.MustQuantity("11")))
	assert.True(t, e.store.Balance(counterparty.KindSupplier, e.supplier.ID).Equal(types.MustMoney("200")))

	_, err = e.orders.Convert(ctx, e.tenant, o.ID, buyer, types.Zero(), ledger.MethodCash)
	assert.True(t, apperror.HasCode(err, apperror.CodeState))
}

func TestConvert_IsAtomic(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	o := e.draft(t)
	e.store.FailOn("purchase_orders.Update", errors.New("lost connection"))

	_, err := e.orders.Convert(ctx, e.tenant, o.ID, buyer, types.MustMoney("300"), ledger.MethodCash)
	require.Error(t, err)

	assert.True(t, e.store.Quantity(e.item.ID).Equal(types.MustQuantity("1")))
	list, _ := e.purchases.List(ctx, e.tenant, nil, nil)
	assert.Empty(t, list)

	e.store.FailOn("purchase_orders.Update", nil)
	got, _ := e.orders.Get(ctx, e.tenant, o.ID)
	assert.Equal(t, po.StatusDraft, got.Status)
}

func TestTransitions(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	cancelled := e.draft(t)
	_, err := e.orders.Cancel(ctx, e.tenant, cancelled.ID, buyer)
	require.NoError(t, err)

	_, err = e.orders.MarkSent(ctx, e.tenant, cancelled.ID, buyer)
	assert.True(t, apperror.HasCode(err, apperror.CodeState))
	_, err = e.orders.Convert(ctx, e.tenant, cancelled.ID, buyer, types.Zero(), ledger.MethodCash)
	assert.True(t, apperror.HasCode(err, apperror.CodeState))
	_, err = e.orders.Update(ctx, e.tenant, cancelled.ID, buyer, po.Input{
		Items: []documents.LineInput{{ItemID: e.item.ID, Quantity: types.MustQuantity("1")}},
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeState))

	sent := e.draft(t)
	_, err = e.orders.MarkSent(ctx, e.tenant, sent.ID, buyer)
	require.NoError(t, err)
	_, err = e.orders.MarkSent(ctx, e.tenant, sent.ID, buyer)
	assert.True(t, apperror.HasCode(err, apperror.CodeState))
	assert.True(t, apperror.HasCode(e.orders.Delete(ctx, e.tenant, sent.ID, buyer), apperror.CodeState))
}

func TestUpdateAndDeleteDraft(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	o := e.draft(t)
	cost := types.MustMoney("28")

	updated, err := e.orders.Update(ctx, e.tenant, o.ID, buyer, po.Input{
		SupplierID: &e.supplier.ID,
		Items:      []documents.LineInput{{ItemID: e.item.ID, Quantity: types.MustQuantity("5"), Price: &cost}},
		Note:       "price agreed by phone",
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(types.MustMoney("140")))

	require.NoError(t, e.orders.Delete(ctx, e.tenant, o.ID, buyer))
	_, err = e.orders.Get(ctx, e.tenant, o.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestConvert_RequiresSupplier(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	o, err := e.orders.Create(ctx, e.tenant, buyer, po.Input{
		Items: []documents.LineInput{{ItemID: e.item.ID, Quantity: types.MustQuantity("2")}},
	})
	require.NoError(t, err)

	_, err = e.orders.Convert(ctx, e.tenant, o.ID, buyer, types.MustMoney("60"), ledger.MethodCash)
	assert.True(t, apperror.IsValidation(err))
}
