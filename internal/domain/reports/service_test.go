package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/infrastructure/storage/memory"
)

type env struct {
	store    *memory.Store
	sales    *sale.Service
	payments *payment.Service
	reports  *reports.Service
	tenant   id.ID
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
		payments: payment.NewService(store, store.Payments(), store.Counterparties()),
		reports:  reports.NewService(store.Reports(), time.UTC, 7),
		tenant:   id.New(),
	}
}

func money(s string) types.Money { return types.MustMoney(s) }

func (e *env) sell(t *testing.T, customer *id.ID, paid string, method ledger.PaymentMethod, lines ...documents.LineInput) {
	t.Helper()
	_, err := e.sales.Create(context.Background(), e.tenant, "u1", sale.Input{
		CustomerID:    customer,
		Items:         lines,
		PaidAmount:    money(paid),
		PaymentMethod: method,
	})
	require.NoError(t, err)
}

func line(itemID id.ID, qty, price string) documents.LineInput {
	p := money(price)
	return documents.LineInput{ItemID: itemID, Quantity: types.MustQuantity(qty), Price: &p}
}

func TestDailyRevenue_ZeroFilled(t *testing.T) {
	e := newEnv()
	it := e.store.SeedItem(e.tenant, "Rice", "100", "60", "100")
	e.sell(t, nil, "200", "", line(it.ID, "2", "100"))
	e.sell(t, nil, "100", "", line(it.ID, "1", "100"))

	now := time.Now().UTC()
	days, err := e.reports.DailyRevenue(context.Background(), e.tenant, now, 0)
	require.NoError(t, err)

	require.Len(t, days, 7)
	last := days[6]
	assert.Equal(t, now.Format(time.DateOnly), last.Date)
	assert.True(t, last.Revenue.Equal(money("300")))
	assert.Equal(t, 2, last.Count)
	for _, d := range days[:6] {
		assert.True(t, d.Revenue.IsZero())
		assert.Zero(t, d.Count)
	}
}

func TestPaymentMethodTotals(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Rice", "100", "60", "100")
	c := e.store.SeedCounterparty(e.tenant, counterparty.KindCustomer, "Ama", "0")
	e.sell(t, nil, "100", ledger.MethodCash, line(it.ID, "1", "100"))
	e.sell(t, &c.ID, "50", ledger.MethodMomo, line(it.ID, "2", "100"))
	_, err := e.payments.RecordCustomerPayment(ctx, e.tenant, "u1", payment.Input{CounterpartyID: c.ID, Amount: money("30"), Method: ledger.MethodMomo})
	require.NoError(t, err)

	totals, err := e.reports.PaymentMethodTotals(ctx, e.tenant, reports.DateRange{})
	require.NoError(t, err)

	require.Len(t, totals, 3)
	assert.Equal(t, ledger.MethodCash, totals[0].Method)
	assert.True(t, totals[0].Total.Equal(money("100")))
	assert.Equal(t, ledger.MethodMomo, totals[1].Method)
	assert.True(t, totals[1].Sales.Equal(money("50")))
	assert.True(t, totals[1].Payments.Equal(money("30")))
	assert.True(t, totals[1].Total.Equal(money("80")))
	assert.True(t, totals[2].Total.IsZero())
}

func TestTopItems_StableTies(t *testing.T) {
	e := newEnv()
	rice := e.store.SeedItem(e.tenant, "Rice", "100", "60", "100")
	oil := e.store.SeedItem(e.tenant, "Oil", "100", "20", "50")
	salt := e.store.SeedItem(e.tenant, "Salt", "100", "5", "10")
	e.sell(t, nil, "110", "", line(oil.ID, "2", "50"), line(salt.ID, "1", "10"))
	e.sell(t, nil, "100", "", line(rice.ID, "1", "100"))

	top, err := e.reports.TopItems(context.Background(), e.tenant, reports.DateRange{}, 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, oil.ID, top[0].ItemID)
	assert.Equal(t, rice.ID, top[1].ItemID)
	assert.Equal(t, "Oil", top[0].Name)
}

func TestDebtors(t *testing.T) {
	e := newEnv()
	e.store.SeedCounterparty(e.tenant, counterparty.KindCustomer, "Ama", "40")
	e.store.SeedCounterparty(e.tenant, counterparty.KindCustomer, "Kofi", "0")
	e.store.SeedCounterparty(e.tenant, counterparty.KindCustomer, "Esi", "90")
	e.store.SeedCounterparty(id.New(), counterparty.KindCustomer, "Other tenant", "500")

	list, err := e.reports.Debtors(context.Background(), e.tenant)
	require.NoError(t, err)

	require.Len(t, list.Rows, 2)
	assert.Equal(t, "Esi", list.Rows[0].Name)
	assert.True(t, list.Total.Equal(money("130")))
}

func TestProfit(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	it := e.store.SeedItem(e.tenant, "Rice", "100", "60", "100")
	e.sell(t, nil, "300", "", line(it.ID, "3", "100"))

	_, err := e.reports.Profit(ctx, e.tenant, reports.DateRange{}, false)
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))

	p, err := e.reports.Profit(ctx, e.tenant, reports.DateRange{}, true)
	require.NoError(t, err)
	assert.True(t, p.Revenue.Equal(money("300")))
	assert.True(t, p.Cost.Equal(money("180")))
	assert.True(t, p.GrossProfit.Equal(money("120")))
	assert.True(t, p.Margin.Equal(money("40")))
	assert.Equal(t, 1, p.SaleCount)
}

func TestProfit_EmptyRangeHasZeroMargin(t *testing.T) {
	e := newEnv()
	p, err := e.reports.Profit(context.Background(), e.tenant, reports.DateRange{}, true)
	require.NoError(t, err)
	assert.True(t, p.Margin.IsZero())
}

func TestDateRange_Validate(t *testing.T) {
	e := newEnv()
	from := time.Now()
	to := from.Add(-time.Hour)
	_, err := e.reports.TopItems(context.Background(), e.tenant, reports.DateRange{From: &from, To: &to}, 5)
	assert.True(t, apperror.IsValidation(err))
}
