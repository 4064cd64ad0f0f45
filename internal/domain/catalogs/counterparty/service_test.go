package counterparty_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/infrastructure/storage/memory"
)

func TestCounterpartyService_CreateStartsAtZero(t *testing.T) {
	st := memory.New()
	svc := counterparty.NewService(st.Counterparties())
	tenant := id.New()

	cp, err := svc.Create(context.Background(), tenant, counterparty.KindCustomer, counterparty.CreateInput{Name: "Rahim"})

	require.NoError(t, err)
	assert.Equal(t, counterparty.KindCustomer, cp.Kind)
	assert.True(t, cp.Balance.IsZero())
}

func TestCounterpartyService_InvalidEmail(t *testing.T) {
	svc := counterparty.NewService(memory.New().Counterparties())
	email := "not-an-email"

	_, err := svc.Create(context.Background(), id.New(), counterparty.KindSupplier, counterparty.CreateInput{
		Name:  "Wholesale Ltd",
		Email: &email,
	})

	assert.True(t, apperror.IsValidation(err))
}

func TestCounterpartyService_KindsAreSeparate(t *testing.T) {
	st := memory.New()
	svc := counterparty.NewService(st.Counterparties())
	tenant := id.New()
	ctx := context.Background()

	cust, err := svc.Create(ctx, tenant, counterparty.KindCustomer, counterparty.CreateInput{Name: "Rahim"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, tenant, counterparty.KindSupplier, cust.ID)
	assert.True(t, apperror.IsNotFound(err))

	suppliers, err := svc.List(ctx, tenant, counterparty.KindSupplier)
	require.NoError(t, err)
	assert.Empty(t, suppliers)
}
