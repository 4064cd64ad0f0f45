package returns_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/returns"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/infrastructure/storage/memory"
)

const user = "u1"

type env struct {
	store     *memory.Store
	sales     *sale.Service
	purchases *purchase.Service
	payments  *payment.Service
	returns   *returns.Service
	tenant    id.ID
}

func newEnv() *env {
	store := memory.New()
	return &env{
		store: store,
		sales: sale.NewService(sale.Deps{
			TxManager: store,
			Sales:     store.Sales(),
			Items:     store.Items(),
			Customers: store.Counterparties(),
			Returns:   store.Returns(),
			Numerator: store,
		}),
		purchases: purchase.NewService(purchase.Deps{
			TxManager: store,
			Purchases: store.Purchases(),
			Items:     store.Items(),
			Suppliers: store.Counterparties(),
			Returns:   store.Returns(),
			Numerator: store,
		}),
		payments: payment.NewService(store, store.Payments(), store.Counterparties()),
		returns: returns.NewService(returns.Deps{
			TxManager:      store,
			Returns:        store.Returns(),
			Sales:          store.Sales(),
			Purchases:      store.Purchases(),
			Items:          store.Items(),
			Counterparties: store.Counterparties(),
		}),
		tenant: id.New(),
	}
}

func money(s string) types.Money { return types.MustMoney(s) }
func qty(s string) types.Quantity { return types.MustQuantity(s) }

// creditSale sells 4 x 100 to c with 100 paid, leaving 300 owed.
func (e *env) creditSale(t *testing.T, it *item.Item, c *counterparty.Counterparty) *sale.Sale {
	t.Helper()
	price := money("100")
	var cust *id.ID
	if c != nil {
		cust = &c.ID
	}
	paid := money("100")
	if c == nil {
		paid = money("400")
	}
	s, err := e.sales.Create(context.Background(), e.tenant, user, sale.Input{
		CustomerID: cust,
		Items:      []documents.LineInput{{ItemID: it.ID, Quantity: qty("4"), Price: &price}},
		PaidAmount: paid,
	})
	require.NoError(t, err)
	return s
}

func TestCustomerReturn_CashIsClampedToBalance(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
	c := e.store.SeedCounterparty(e.tenant, counterparty.KindCustomer, "Ama", "0")
	s := e.creditSale(t, it, c)
	_, err := e.payments.RecordCustomerPayment(ctx, e.tenant, user, payment.Input{CounterpartyID: c.ID, Amount: money("250")})
	require.NoError(t, err)

	r, err := e.returns.ProcessCustomerReturn(ctx, e.tenant, user, returns.Input{
		DocumentID: s.ID,
		ItemID:     it.ID,
		Quantity:   qty("2"),
		Type:       ledger.ReturnCash,
		Amount:     money("200"),
	})
	require.NoError(t, err)

	assert.True(t, r.Applied.Equal(money("50")))
	assert.True(t, e.store.Balance(counterparty.KindCustomer, c.ID).IsZero())
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("8")))
}

func TestCustomerReturn_CreditMayGoNegative(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
	c := e.store.SeedCounterparty(e.tenant, counterparty.KindCustomer, "Ama", "0")
	s := e.creditSale(t, it, c)
	_, err := e.payments.RecordCustomerPayment(ctx, e.tenant, user, payment.Input{CounterpartyID: c.ID, Amount: money("300")})
	require.NoError(t, err)

	_, err = e.returns.ProcessCustomerReturn(ctx, e.tenant, user, returns.Input{
		DocumentID: s.ID, ItemID: it.ID, Quantity: qty("1"), Type: ledger.ReturnCredit, Amount: money("100"),
	})
	require.NoError(t, err)
	assert.True(t, e.store.Balance(counterparty.KindCustomer, c.ID).Equal(money("-100")))
}

func TestCustomerReturn_ExchangeMovesStockOnly(t *testing.T) {
	e := newEnv()
	it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
	c := e.store.SeedCounterparty(e.tenant, counterparty.KindCustomer, "Ama", "0")
	s := e.creditSale(t, it, c)

	r, err := e.returns.ProcessCustomerReturn(context.Background(), e.tenant, user, returns.Input{
		DocumentID: s.ID, ItemID: it.ID, Quantity: qty("1"), Type: ledger.ReturnExchange,
	})
	require.NoError(t, err)
	assert.True(t, r.Applied.IsZero())
	assert.True(t, e.store.Balance(counterparty.KindCustomer, c.ID).Equal(money("300")))
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("7")))
}

func TestCustomerReturn_CumulativeQuantityLimit(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
	s := e.creditSale(t, it, nil)

	in := returns.Input{DocumentID: s.ID, ItemID: it.ID, Quantity: qty("3"), Type: ledger.ReturnCash, Amount: money("300")}
	_, err := e.returns.ProcessCustomerReturn(ctx, e.tenant, user, in)
	require.NoError(t, err)

	in.Quantity, in.Amount = qty("2"), money("200")
	_, err = e.returns.ProcessCustomerReturn(ctx, e.tenant, user, in)
	assert.True(t, apperror.HasCode(err, apperror.CodeOverLimit), "got %v", err)
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("9")))
}

func TestCustomerReturn_AmountCap(t *testing.T) {
	e := newEnv()
	it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
	s := e.creditSale(t, it, nil)

	_, err := e.returns.ProcessCustomerReturn(context.Background(), e.tenant, user, returns.Input{
		DocumentID: s.ID, ItemID: it.ID, Quantity: qty("1"), Type: ledger.ReturnCash, Amount: money("100.01"),
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOverLimit, appErr.Code)
	assert.Equal(t, "amount", appErr.Details["field"])
}

func TestCustomerReturn_ItemNotOnSale(t *testing.T) {
	e := newEnv()
	it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
	other := e.store.SeedItem(e.tenant, "Oil", "10", "20", "30")
	s := e.creditSale(t, it, nil)

	_, err := e.returns.ProcessCustomerReturn(context.Background(), e.tenant, user, returns.Input{
		DocumentID: s.ID, ItemID: other.ID, Quantity: qty("1"), Type: ledger.ReturnExchange,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestCustomerReturn_CreditOnWalkInSale(t *testing.T) {
	e := newEnv()
	it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
	s := e.creditSale(t, it, nil)

	_, err := e.returns.ProcessCustomerReturn(context.Background(), e.tenant, user, returns.Input{
		DocumentID: s.ID, ItemID: it.ID, Quantity: qty("1"), Type: ledger.ReturnCredit, Amount: money("100"),
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestSaleWithReturnsCannotBeEditedOrVoided(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
	s := e.creditSale(t, it, nil)
	_, err := e.returns.ProcessCustomerReturn(ctx, e.tenant, user, returns.Input{
		DocumentID: s.ID, ItemID: it.ID, Quantity: qty("1"), Type: ledger.ReturnCash, Amount: money("100"),
	})
	require.NoError(t, err)

	_, err = e.sales.Void(ctx, e.tenant, s.ID, user)
	assert.True(t, apperror.HasCode(err, apperror.CodeState))

	price := money("100")
	_, err = e.sales.Edit(ctx, e.tenant, s.ID, user, sale.Input{
		Items:      []documents.LineInput{{ItemID: it.ID, Quantity: qty("1"), Price: &price}},
		PaidAmount: money("100"),
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeState))
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("7")))
}

func TestSupplierReturn(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Flour", "0", "40", "55")
	sup := e.store.SeedCounterparty(e.tenant, counterparty.KindSupplier, "Mill Ltd", "0")
	cost := money("40")
	p, err := e.purchases.Create(ctx, e.tenant, user, purchase.Input{
		SupplierID: &sup.ID,
		Items:      []documents.LineInput{{ItemID: it.ID, Quantity: qty("10"), Price: &cost}},
		PaidAmount: money("0"),
	})
	require.NoError(t, err)

	_, err = e.returns.ProcessSupplierReturn(ctx, e.tenant, user, returns.Input{
		DocumentID: p.ID, ItemID: it.ID, Quantity: qty("4"), Type: ledger.ReturnCredit, Amount: money("160"),
	})
	require.NoError(t, err)

	assert.True(t, e.store.Quantity(it.ID).Equal(qty("6")))
	assert.True(t, e.store.Balance(counterparty.KindSupplier, sup.ID).Equal(money("240")))
}

func TestSupplierReturn_InsufficientStock(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Flour", "0", "40", "55")
	cost := money("40")
	p, err := e.purchases.Create(ctx, e.tenant, user, purchase.Input{
		Items:      []documents.LineInput{{ItemID: it.ID, Quantity: qty("5"), Price: &cost}},
		PaidAmount: money("200"),
	})
	require.NoError(t, err)
	price := money("55")
	_, err = e.sales.Create(ctx, e.tenant, user, sale.Input{
		Items:      []documents.LineInput{{ItemID: it.ID, Quantity: qty("4"), Price: &price}},
		PaidAmount: money("220"),
	})
	require.NoError(t, err)

	_, err = e.returns.ProcessSupplierReturn(ctx, e.tenant, user, returns.Input{
		DocumentID: p.ID, ItemID: it.ID, Quantity: qty("2"), Type: ledger.ReturnExchange,
	})
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.True(t, e.store.Quantity(it.ID).Equal(qty("1")))
}

func TestCustomerReturn_RollsBackOnFailedWrite(t *testing.T) {
	for _, op := range []string{"items.SetQuantity", "customers.SetBalance"} {
		t.Run(op, func(t *testing.T) {
			e := newEnv()
			ctx := context.Background()
			it := e.store.SeedItem(e.tenant, "Rice", "10", "60", "100")
			c := e.store.SeedCounterparty(e.tenant, counterparty.KindCustomer, "Ama", "0")
			s := e.creditSale(t, it, c)

			e.store.FailOn(op, errors.New("connection reset"))
			_, err := e.returns.ProcessCustomerReturn(ctx, e.tenant, user, returns.Input{
				DocumentID: s.ID,
				ItemID:     it.ID,
				Quantity:   qty("2"),
				Type:       ledger.ReturnCredit,
				Amount:     money("200"),
			})
			require.Error(t, err)
			e.store.FailOn(op, nil)

			assert.True(t, e.store.Quantity(it.ID).Equal(qty("6")))
			assert.True(t, e.store.Balance(counterparty.KindCustomer, c.ID).Equal(money("300")))
			list, err := e.returns.List(ctx, e.tenant, counterparty.KindCustomer, nil, nil)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestSupplierReturn_RollsBackOnFailedWrite(t *testing.T) {
	for _, op := range []string{"items.SetQuantity", "suppliers.SetBalance"} {
		t.Run(op, func(t *testing.T) {
			e := newEnv()
			ctx := context.Background()
			it := e.store.SeedItem(e.tenant, "Flour", "0", "40", "55")
			sup := e.store.SeedCounterparty(e.tenant, counterparty.KindSupplier, "Mill Ltd", "0")
			cost := money("40")
			p, err := e.purchases.Create(ctx, e.tenant, user, purchase.Input{
				SupplierID: &sup.ID,
				Items:      []documents.LineInput{{ItemID: it.ID, Quantity: qty("10"), Price: &cost}},
				PaidAmount: money("100"),
			})
			require.NoError(t, err)

			e.store.FailOn(op, errors.New("connection reset"))
			_, err = e.returns.ProcessSupplierReturn(ctx, e.tenant, user, returns.Input{
				DocumentID: p.ID,
				ItemID:     it.ID,
				Quantity:   qty("3"),
				Type:       ledger.ReturnCredit,
				Amount:     money("120"),
			})
			require.Error(t, err)
			e.store.FailOn(op, nil)

			assert.True(t, e.store.Quantity(it.ID).Equal(qty("10")))
			assert.True(t, e.store.Balance(counterparty.KindSupplier, sup.ID).Equal(money("300")))
			list, err := e.returns.List(ctx, e.tenant, counterparty.KindSupplier, nil, nil)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}
