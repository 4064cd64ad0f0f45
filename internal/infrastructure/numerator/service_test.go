package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/id"
	corenumerator "ledgerpos/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = m.val
	}
	return nil
}

// mockQuerier simulates one sys_sequences counter per (tenant, key).
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return &mockRow{err: m.err}
	}
	key := args[0].(id.ID).String() + "/" + args[1].(string)
	m.values[key]++
	return &mockRow{val: m.values[key]}
}

func TestNext_PerTenantAndYear(t *testing.T) {
	q := &mockQuerier{values: map[string]int64{}}
	svc := NewWithQuerier(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig(corenumerator.PrefixSale)
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tenantA, tenantB := id.New(), id.New()

	num, err := svc.Next(ctx, tenantA, cfg, jan)
	require.NoError(t, err)
	assert.Equal(t, "S-2026-00001", num)

	num, err = svc.Next(ctx, tenantA, cfg, jan)
	require.NoError(t, err)
	assert.Equal(t, "S-2026-00002", num)

	num, err = svc.Next(ctx, tenantB, cfg, jan)
	require.NoError(t, err)
	assert.Equal(t, "S-2026-00001", num)

	num, err = svc.Next(ctx, tenantA, cfg, jan.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "S-2027-00001", num)
}

func TestNext_Concurrent(t *testing.T) {
	q := &mockQuerier{values: map[string]int64{}}
	svc := NewWithQuerier(q)
	cfg := corenumerator.DefaultConfig(corenumerator.PrefixPurchase)
	tenantID := id.New()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[string]bool{}
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.Next(context.Background(), tenantID, cfg, now)
			assert.NoError(t, err)
			mu.Lock()
			seen[num] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}

func TestNext_Error(t *testing.T) {
	svc := NewWithQuerier(&mockQuerier{err: errors.New("connection reset")})
	_, err := svc.Next(context.Background(), id.New(), corenumerator.DefaultConfig("PO"), time.Now())
	assert.ErrorContains(t, err, "connection reset")
}
