package item_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/infrastructure/storage/memory"
)

func newItemService() (*item.Service, *memory.Store) {
	st := memory.New()
	return item.NewService(st.Items(), st), st
}

func TestItemService_Create(t *testing.T) {
	svc, st := newItemService()
	tenant := id.New()

	it, err := svc.Create(context.Background(), tenant, item.CreateInput{
		Name:            "  Lentils 1kg ",
		SKU:             "LEN-1",
		CostPrice:       types.MustMoney("90"),
		SellingPrice:    types.MustMoney("110"),
		OpeningQuantity: types.MustQuantity("12"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Lentils 1kg", it.Name)
	assert.True(t, types.MustQuantity("12").Equal(st.Quantity(it.ID)))
}

func TestItemService_CreateRejectsInvalid(t *testing.T) {
	svc, _ := newItemService()
	tenant := id.New()

	tests := []struct {
		name string
		in   item.CreateInput
	}{
		{"empty name", item.CreateInput{Name: " "}},
		{"negative cost", item.CreateInput{Name: "Salt", CostPrice: types.MustMoney("-1")}},
		{"negative opening stock", item.CreateInput{Name: "Salt", OpeningQuantity: types.MustQuantity("-2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tenant, tt.in)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
}

func TestItemService_DuplicateSKU(t *testing.T) {
	svc, _ := newItemService()
	tenant := id.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, tenant, item.CreateInput{Name: "Tea", SKU: "T-1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tenant, item.CreateInput{Name: "Green tea", SKU: "T-1"})
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	_, err = svc.Create(ctx, id.New(), item.CreateInput{Name: "Tea", SKU: "T-1"})
	assert.NoError(t, err, "sku is unique per tenant only")
}

func TestItemService_UpdateKeepsQuantity(t *testing.T) {
	svc, st := newItemService()
	tenant := id.New()
	seeded := st.SeedItem(tenant, "Sugar", "7", "50", "60")

	updated, err := svc.Update(context.Background(), tenant, seeded.ID, item.UpdateInput{
		Name:         "Sugar 1kg",
		CostPrice:    types.MustMoney("55"),
		SellingPrice: types.MustMoney("65"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Sugar 1kg", updated.Name)
	assert.True(t, types.MustQuantity("7").Equal(st.Quantity(seeded.ID)))

	got, err := svc.Get(context.Background(), tenant, seeded.ID)
	require.NoError(t, err)
	assert.True(t, types.MustMoney("55").Equal(got.CostPrice))
}

func TestItemService_ForeignTenantIsNotFound(t *testing.T) {
	svc, st := newItemService()
	seeded := st.SeedItem(id.New(), "Milk", "1", "1", "2")

	_, err := svc.Get(context.Background(), id.New(), seeded.ID)
	assert.True(t, apperror.IsNotFound(err))
}
