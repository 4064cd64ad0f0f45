package till_test

import (
	"context"
	"testing"

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
	"ledgerpos/internal/domain/till"
	"ledgerpos/internal/infrastructure/storage/memory"
)

const cashier = "cashier-1"

func money(s string) types.Money { return types.MustMoney(s) }

func setup() (*memory.Store, *till.Service, *sale.Service, id.ID) {
	store := memory.New()
	sales := sale.NewService(sale.Deps{
		TxManager: store,
		Sales:     store.Sales(),
		Items:     store.Items(),
		Customers: store.Counterparties(),
		Returns:   store.Returns(),
		Numerator: store,
	})
	return store, till.NewService(store, store.Till()), sales, id.New()
}

func TestRunningTotals_ExpectedCash(t *testing.T) {
	store, svc, sales, tenant := setup()
	ctx := context.Background()
	it := store.SeedItem(tenant, "Rice", "10", "60", "100")

	_, err := svc.Open(ctx, tenant, cashier, money("500"))
	require.NoError(t, err)

	price := money("100")
	_, err = sales.Create(ctx, tenant, cashier, sale.Input{
		Items:      []documents.LineInput{{ItemID: it.ID, Quantity: types.MustQuantity("3"), Price: &price}},
		PaidAmount: money("300"),
	})
	require.NoError(t, err)
	_, err = svc.RecordExpense(ctx, tenant, cashier, money("50"), "", "")
	require.NoError(t, err)

	totals, err := svc.RunningTotals(ctx, tenant, cashier)
	require.NoError(t, err)
	require.NotNil(t, totals)
	assert.True(t, totals.ExpectedCash.Equal(money("750")), "got %s", totals.ExpectedCash)
	assert.True(t, totals.CashIn.Equal(money("300")))
	assert.True(t, totals.CashOut.Equal(money("50")))
}

func TestRunningTotals_IgnoresNonCashMethods(t *testing.T) {
	store, svc, sales, tenant := setup()
	ctx := context.Background()
	it := store.SeedItem(tenant, "Rice", "10", "60", "100")
	c := store.SeedCounterparty(tenant, counterparty.KindCustomer, "Ama", "100")
	payments := payment.NewService(store, store.Payments(), store.Counterparties())

	_, err := svc.Open(ctx, tenant, cashier, money("0"))
	require.NoError(t, err)

	price := money("100")
	_, err = sales.Create(ctx, tenant, cashier, sale.Input{
		Items:         []documents.LineInput{{ItemID: it.ID, Quantity: types.MustQuantity("1"), Price: &price}},
		PaidAmount:    money("100"),
		PaymentMethod: ledger.MethodMomo,
	})
	require.NoError(t, err)
	_, err = payments.RecordCustomerPayment(ctx, tenant, cashier, payment.Input{CounterpartyID: c.ID, Amount: money("40")})
	require.NoError(t, err)

	totals, err := svc.RunningTotals(ctx, tenant, cashier)
	require.NoError(t, err)
	assert.True(t, totals.ExpectedCash.Equal(money("40")))
}

func TestRunningTotals_NoOpenShift(t *testing.T) {
	_, svc, _, tenant := setup()

	totals, err := svc.RunningTotals(context.Background(), tenant, cashier)
	require.NoError(t, err)
	assert.Nil(t, totals)
}

func TestOpen_SecondShiftRejected(t *testing.T) {
	_, svc, _, tenant := setup()
	ctx := context.Background()

	_, err := svc.Open(ctx, tenant, cashier, money("100"))
	require.NoError(t, err)
	_, err = svc.Open(ctx, tenant, cashier, money("100"))
	assert.True(t, apperror.HasCode(err, apperror.CodeShiftAlreadyOpen))

	_, err = svc.Open(ctx, tenant, "cashier-2", money("100"))
	assert.NoError(t, err)
}

func TestClose_RecordsVariance(t *testing.T) {
	_, svc, _, tenant := setup()
	ctx := context.Background()

	_, err := svc.Open(ctx, tenant, cashier, money("200"))
	require.NoError(t, err)
	_, err = svc.RecordExpense(ctx, tenant, cashier, money("20"), "transport", "taxi")
	require.NoError(t, err)

	note := "short by 5"
	shift, err := svc.Close(ctx, tenant, cashier, money("175"), &note)
	require.NoError(t, err)

	assert.Equal(t, till.StatusClosed, shift.Status)
	assert.True(t, shift.ExpectedCash.Equal(money("180")))
	assert.True(t, shift.Variance.Equal(money("-5")))
	assert.NotNil(t, shift.ClosedAt)

	_, err = svc.Close(ctx, tenant, cashier, money("0"), nil)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Open(ctx, tenant, cashier, money("0"))
	assert.NoError(t, err)

	history, err := svc.History(ctx, tenant, cashier, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRecordExpense_Validation(t *testing.T) {
	_, svc, _, tenant := setup()

	_, err := svc.RecordExpense(context.Background(), tenant, cashier, money("0"), "general", "")
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.RecordExpense(context.Background(), tenant, "", money("1"), "general", "")
	assert.True(t, apperror.IsValidation(err))
}
