// Package numerator provides the PostgreSQL implementation of document
// auto-numbering. It implements core/numerator.Generator.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"ledgerpos/internal/core/id"
	corenumerator "ledgerpos/internal/core/numerator"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// Querier is the subset of pgx used for sequence allocation.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service allocates numbers from sys_sequences with UPSERT + RETURNING.
// The row lock taken by the upsert is held until the surrounding transaction
// ends, so a rolled-back document releases its number.
type Service struct {
	querier func(ctx context.Context) Querier
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator that runs on the transaction in ctx.
func New(txManager *postgres.TxManager) *Service {
	return &Service{
		querier: func(ctx context.Context) Querier { return txManager.GetQuerier(ctx) },
	}
}

// NewWithQuerier creates a numerator over a fixed querier.
func NewWithQuerier(q Querier) *Service {
	return &Service{
		querier: func(context.Context) Querier { return q },
	}
}

const nextSQL = `
	INSERT INTO sys_sequences (tenant_id, sequence_key, current_value)
	VALUES ($1, $2, 1)
	ON CONFLICT (tenant_id, sequence_key) DO UPDATE SET current_value = sys_sequences.current_value + 1
	RETURNING current_value`

// Next returns the next formatted number, e.g. S-2026-00001.
func (s *Service) Next(ctx context.Context, tenantID id.ID, cfg corenumerator.Config, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	var num int64
	if err := s.querier(ctx).QueryRow(ctx, nextSQL, tenantID, cfg.Key(period)).Scan(&num); err != nil {
		return "", fmt.Errorf("next number: %w", err)
	}
	return cfg.Format(period, num), nil
}
