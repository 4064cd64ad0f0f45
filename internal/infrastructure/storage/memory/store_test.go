package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/numerator"
	"ledgerpos/internal/core/types"
)

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	s := New()
	tenant := id.New()
	it := s.SeedItem(tenant, "Soap", "10", "5", "8")
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Items().SetQuantity(ctx, tenant, it.ID, types.MustQuantity("3")))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, s.Quantity(it.ID).Equal(types.MustQuantity("10")))
}

func TestRunInTransaction_RestoresOnPanic(t *testing.T) {
	s := New()
	tenant := id.New()
	it := s.SeedItem(tenant, "Soap", "10", "5", "8")
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = s.RunInTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, s.Items().SetQuantity(ctx, tenant, it.ID, types.MustQuantity("3")))
			panic("boom")
		})
	})
	assert.True(t, s.Quantity(it.ID).Equal(types.MustQuantity("10")))

	// The store lock is released, so the next transaction commits.
	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.Items().SetQuantity(ctx, tenant, it.ID, types.MustQuantity("7"))
	})
	require.NoError(t, err)
	assert.True(t, s.Quantity(it.ID).Equal(types.MustQuantity("7")))
}

func TestRunInTransaction_NestedReusesOuter(t *testing.T) {
	s := New()
	tenant := id.New()
	it := s.SeedItem(tenant, "Soap", "10", "5", "8")
	ctx := context.Background()

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.Items().SetQuantity(ctx, tenant, it.ID, types.MustQuantity("7"))
		}); err != nil {
			return err
		}
		return errors.New("outer fails")
	})

	require.Error(t, err)
	assert.True(t, s.Quantity(it.ID).Equal(types.MustQuantity("10")), "inner write must roll back with the outer transaction")
}

func TestFailOn(t *testing.T) {
	s := New()
	tenant := id.New()
	it := s.SeedItem(tenant, "Soap", "10", "5", "8")
	ctx := context.Background()

	s.FailOn("items.SetQuantity", errors.New("disk full"))
	assert.Error(t, s.Items().SetQuantity(ctx, tenant, it.ID, types.Zero()))

	s.FailOn("items.SetQuantity", nil)
	assert.NoError(t, s.Items().SetQuantity(ctx, tenant, it.ID, types.Zero()))
}

func TestItems_TenantIsolation(t *testing.T) {
	s := New()
	it := s.SeedItem(id.New(), "Soap", "10", "5", "8")

	_, err := s.Items().GetByID(context.Background(), id.New(), it.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestItems_ReturnsCopies(t *testing.T) {
	s := New()
	tenant := id.New()
	it := s.SeedItem(tenant, "Soap", "10", "5", "8")

	got, err := s.Items().GetByID(context.Background(), tenant, it.ID)
	require.NoError(t, err)
	got.Quantity = types.MustQuantity("999")

	assert.True(t, s.Quantity(it.ID).Equal(types.MustQuantity("10")))
}

func TestNext_PerTenantSequence(t *testing.T) {
	s := New()
	ctx := context.Background()
	cfg := numerator.DefaultConfig(numerator.PrefixSale)
	period := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	a, b := id.New(), id.New()

	n1, err := s.Next(ctx, a, cfg, period)
	require.NoError(t, err)
	n2, _ := s.Next(ctx, a, cfg, period)
	n3, _ := s.Next(ctx, b, cfg, period)

	assert.Equal(t, "S-2026-00001", n1)
	assert.Equal(t, "S-2026-00002", n2)
	assert.Equal(t, "S-2026-00001", n3)
}
