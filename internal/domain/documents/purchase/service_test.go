package purchase_test

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
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/infrastructure/storage/memory"
)

const clerk = "clerk-1"

type env struct {
	store     *memory.Store
	purchases *purchase.Service
	sales     *sale.Service
	payments  *payment.Service
	tenant    id.ID
}

func newEnv() *env {
	store := memory.New()
	return &env{
		store: store,
		purchases: purchase.NewService(purchase.Deps{
			TxManager: store,
			Purchases: store.Purchases(),
			Items:     store.Items(),
			Suppliers: store.Counterparties(),
			Returns:   store.Returns(),
			Numerator: store,
			Audit:     store,
		}),
		sales: sale.NewService(sale.Deps{
			TxManager: store,
			Sales:     store.Sales(),
			Items:     store.Items(),
			Customers: store.Counterparties(),
			Returns:   store.Returns(),
			Numerator: store,
		}),
		payments: payment.NewService(store, store.Payments(), store.Counterparties()),
		tenant:   id.New(),
	}
}

func qty(s string) types.Quantity { return types.MustQuantity(s) }

func line(itemID id.ID, q, cost string) documents.LineInput {
	c := types.MustMoney(cost)
	return documents.LineInput{ItemID: itemID, Quantity: qty(q), Price: &c}
}

func TestCreate_CreditPurchase(t *testing.T) {
	e := newEnv()
	it := e.store.SeedItem(e.tenant, "Flour", "2", "40", "55")
	sup := e.store.SeedCounterparty(e.tenant, counterparty.KindSupplier, "Mill Ltd", "0")

	p, err := e.purchases.Create(context.Background(), e.tenant, clerk, purchase.Input{
		SupplierID: &sup.ID,
		Items:      []documents.LineInput{line(it.ID, "10", "40")},
		PaidAmount: types.MustMoney("150"),
	})
	require.NoError(t, err)

	assert.Equal(t, ledger.PaymentTypeCredit, p.PaymentType)
	assert.Equal(t, fmt.Sprintf("P-%d-00001", p.CreatedAt.Year()), p.Number)
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("12")))
	assert.True(t, e.store.Balance(counterparty.KindSupplier, sup.ID).Equal(types.MustMoney("250")))
}

func TestCreate_CreditWithoutSupplier(t *testing.T) {
	e := newEnv()
	it := e.store.SeedItem(e.tenant, "Flour", "2", "40", "55")

	_, err := e.purchases.Create(context.Background(), e.tenant, clerk, purchase.Input{
		Items:      []documents.LineInput{line(it.ID, "10", "40")},
		PaidAmount: types.MustMoney("0"),
	})
	assert.True(t, apperror.IsValidation(err))
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("2")))
}

func TestVoid_RestoresStockAndBalance(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Flour", "2", "40", "55")
	sup := e.store.SeedCounterparty(e.tenant, counterparty.KindSupplier, "Mill Ltd", "30")

	p, err := e.purchases.Create(ctx, e.tenant, clerk, purchase.Input{
		SupplierID: &sup.ID,
		Items:      []documents.LineInput{line(it.ID, "10", "40")},
		PaidAmount: types.MustMoney("100"),
	})
	require.NoError(t, err)

	res, err := e.purchases.Void(ctx, e.tenant, p.ID, clerk)
	require.NoError(t, err)
	assert.Equal(t, p.ID, res.PurchaseID)
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("2")))
	assert.True(t, e.store.Balance(counterparty.KindSupplier, sup.ID).Equal(types.MustMoney("30")))

	_, err = e.purchases.Void(ctx, e.tenant, p.ID, clerk)
	assert.True(t, apperror.IsNotFound(err))
}

func TestVoid_CannotVoidWhenStockWasSold(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Flour", "0", "40", "55")

	p, err := e.purchases.Create(ctx, e.tenant, clerk, purchase.Input{
		Items:      []documents.LineInput{line(it.ID, "10", "40")},
		PaidAmount: types.MustMoney("400"),
	})
	require.NoError(t, err)
	_, err = e.sales.Create(ctx, e.tenant, clerk, sale.Input{
		Items:      []documents.LineInput{line(it.ID, "3", "55")},
		PaidAmount: types.MustMoney("165"),
	})
	require.NoError(t, err)

	_, err = e.purchases.Void(ctx, e.tenant, p.ID, clerk)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCannotVoid, appErr.Code)
	assert.Equal(t, "3", appErr.Details["shortfall"])
	assert.Equal(t, "7", appErr.Details["current"])
	assert.Equal(t, "10", appErr.Details["received"])

	assert.True(t, e.store.Quantity(it.ID).Equal(qty("7")))
	_, err = e.purchases.Get(ctx, e.tenant, p.ID)
	assert.NoError(t, err)
}

func TestEdit_CannotDropBelowSoldQuantity(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Flour", "0", "40", "55")

	p, err := e.purchases.Create(ctx, e.tenant, clerk, purchase.Input{
		Items:      []documents.LineInput{line(it.ID, "10", "40")},
		PaidAmount: types.MustMoney("400"),
	})
	require.NoError(t, err)
	_, err = e.sales.Create(ctx, e.tenant, clerk, sale.Input{
		Items:      []documents.LineInput{line(it.ID, "6", "55")},
		PaidAmount: types.MustMoney("330"),
	})
	require.NoError(t, err)

	_, err = e.purchases.Edit(ctx, e.tenant, p.ID, clerk, purchase.Input{
		Items:      []documents.LineInput{line(it.ID, "5", "40")},
		PaidAmount: types.MustMoney("200"),
	})
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("4")))

	edited, err := e.purchases.Edit(ctx, e.tenant, p.ID, clerk, purchase.Input{
		Items:      []documents.LineInput{line(it.ID, "8", "40")},
		PaidAmount: types.MustMoney("320"),
	})
	require.NoError(t, err)
	assert.True(t, edited.TotalAmount.Equal(types.MustMoney("320")))
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("2")))
}

func TestEdit_SupplierNetBalance(t *testing.T) {
	tests := []struct {
		name        string
		paid        string
		editLines   string
		editPaid    string
		wantBalance string
	}{
		{name: "paid off, unchanged edit", paid: "300", editLines: "10", editPaid: "100", wantBalance: "0"},
		{name: "partly paid, unchanged edit", paid: "50", editLines: "10", editPaid: "100", wantBalance: "250"},
		{name: "partly paid, fewer units", paid: "50", editLines: "8", editPaid: "100", wantBalance: "170"},
		{name: "paid off, more units", paid: "300", editLines: "12", editPaid: "100", wantBalance: "80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			ctx := context.Background()
			it := e.store.SeedItem(e.tenant, "Flour", "0", "40", "55")
			sup := e.store.SeedCounterparty(e.tenant, counterparty.KindSupplier, "Mill Ltd", "0")

			p, err := e.purchases.Create(ctx, e.tenant, clerk, purchase.Input{
				SupplierID: &sup.ID,
				Items:      []documents.LineInput{line(it.ID, "10", "40")},
				PaidAmount: types.MustMoney("100"),
			})
			require.NoError(t, err)
			_, err = e.payments.RecordSupplierPayment(ctx, e.tenant, clerk, payment.Input{CounterpartyID: sup.ID, Amount: types.MustMoney(tt.paid)})
			require.NoError(t, err)

			_, err = e.purchases.Edit(ctx, e.tenant, p.ID, clerk, purchase.Input{
				SupplierID: &sup.ID,
				Items:      []documents.LineInput{line(it.ID, tt.editLines, "40")},
				PaidAmount: types.MustMoney(tt.editPaid),
			})
			require.NoError(t, err)

			got := e.store.Balance(counterparty.KindSupplier, sup.ID)
			assert.True(t, got.Equal(types.MustMoney(tt.wantBalance)), "balance %s", got)
			assert.True(t, e.store.Quantity(it.ID).Equal(qty(tt.editLines)))
		})
	}
}

func TestAtomicity_FailedWriteLeavesNoTrace(t *testing.T) {
	tests := []struct {
		name string
		op   string
		run  func(e *env, itemID, supID id.ID, existing *purchase.Purchase) error
	}{
		{
			name: "create, supplier balance write",
			op:   "suppliers.SetBalance",
			run: func(e *env, itemID, supID id.ID, _ *purchase.Purchase) error {
				_, err := e.purchases.Create(context.Background(), e.tenant, clerk, purchase.Input{
					SupplierID: &supID,
					Items:      []documents.LineInput{line(itemID, "3", "40")},
					PaidAmount: types.MustMoney("0"),
				})
				return err
			},
		},
		{
			name: "edit, stock write",
			op:   "items.SetQuantity",
			run: func(e *env, itemID, supID id.ID, existing *purchase.Purchase) error {
				_, err := e.purchases.Edit(context.Background(), e.tenant, existing.ID, clerk, purchase.Input{
					SupplierID: &supID,
					Items:      []documents.LineInput{line(itemID, "4", "40")},
					PaidAmount: types.MustMoney("0"),
				})
				return err
			},
		},
		{
			name: "edit, supplier balance write",
			op:   "suppliers.SetBalance",
			run: func(e *env, itemID, supID id.ID, existing *purchase.Purchase) error {
				_, err := e.purchases.Edit(context.Background(), e.tenant, existing.ID, clerk, purchase.Input{
					SupplierID: &supID,
					Items:      []documents.LineInput{line(itemID, "4", "40")},
					PaidAmount: types.MustMoney("0"),
				})
				return err
			},
		},
		{
			name: "void, supplier balance write",
			op:   "suppliers.SetBalance",
			run: func(e *env, _, _ id.ID, existing *purchase.Purchase) error {
				_, err := e.purchases.Void(context.Background(), e.tenant, existing.ID, clerk)
				return err
			},
		},
		{
			name: "void, stock write",
			op:   "items.SetQuantity",
			run: func(e *env, _, _ id.ID, existing *purchase.Purchase) error {
				_, err := e.purchases.Void(context.Background(), e.tenant, existing.ID, clerk)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			ctx := context.Background()
			it := e.store.SeedItem(e.tenant, "Flour", "2", "40", "55")
			sup := e.store.SeedCounterparty(e.tenant, counterparty.KindSupplier, "Mill Ltd", "0")

			existing, err := e.purchases.Create(ctx, e.tenant, clerk, purchase.Input{
				SupplierID: &sup.ID,
				Items:      []documents.LineInput{line(it.ID, "10", "40")},
				PaidAmount: types.MustMoney("100"),
			})
			require.NoError(t, err)
			before, err := e.purchases.List(ctx, e.tenant, nil, nil)
			require.NoError(t, err)

			e.store.FailOn(tt.op, errors.New("connection reset"))
			require.Error(t, tt.run(e, it.ID, sup.ID, existing))
			e.store.FailOn(tt.op, nil)

			assert.True(t, e.store.Quantity(it.ID).Equal(qty("12")))
			assert.True(t, e.store.Balance(counterparty.KindSupplier, sup.ID).Equal(types.MustMoney("300")))
			after, err := e.purchases.List(ctx, e.tenant, nil, nil)
			require.NoError(t, err)
			require.Len(t, after, len(before))
			assert.True(t, after[0].TotalAmount.Equal(types.MustMoney("400")))
		})
	}
}
