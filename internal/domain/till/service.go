package till

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/pkg/logger"
)

// Service runs the shift state machine NONE → OPEN → CLOSED per user.
type Service struct {
	txManager tx.Manager
	repo      Repository
	now       func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new till service.
func NewService(txManager tx.Manager, repo Repository, opts ...Option) *Service {
	s := &Service{txManager: txManager, repo: repo, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open starts a shift with openingFloat in the drawer.
func (s *Service) Open(ctx context.Context, tenantID id.ID, userID string, openingFloat types.Money) (*CashRegister, error) {
	if err := validateSession(tenantID, userID); err != nil {
		return nil, err
	}
	if openingFloat.IsNegative() {
		return nil, apperror.NewValidation("opening float must not be negative").WithDetail("field", "openingFloat")
	}

	var out *CashRegister
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetOpenShift(ctx, tenantID, userID, true)
		switch {
		case err == nil:
			return apperror.NewShiftAlreadyOpen(userID)
		case !apperror.IsNotFound(err):
			return err
		}

		shift := &CashRegister{
			TenantEntity: entity.NewTenantEntity(tenantID),
			UserID:       userID,
			Status:       StatusOpen,
			OpeningFloat: openingFloat,
			OpenedAt:     s.now().UTC(),
		}
		if err := s.repo.CreateShift(ctx, shift); err != nil {
			return err
		}
		out = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "shift opened", "shift_id", out.ID, "user_id", userID, "opening_float", openingFloat.String())
	return out, nil
}

// RunningTotals recomputes the open shift's expected cash over [openedAt, now].
// Returns nil when the user has no open shift.
func (s *Service) RunningTotals(ctx context.Context, tenantID id.ID, userID string) (*RunningTotals, error) {
	if err := validateSession(tenantID, userID); err != nil {
		return nil, err
	}
	shift, err := s.repo.GetOpenShift(ctx, tenantID, userID, false)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	flows, err := s.repo.CashFlows(ctx, tenantID, shift.OpenedAt, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("cash flows: %w", err)
	}
	return &RunningTotals{
		ShiftID:      shift.ID.String(),
		OpeningFloat: shift.OpeningFloat,
		CashIn:       flows.CashSales.Add(flows.CashPayments),
		CashOut:      flows.Expenses,
		ExpectedCash: ExpectedCash(shift.OpeningFloat, flows),
		OpenedAt:     shift.OpenedAt,
	}, nil
}

// Close counts the drawer. Variance = closingCount − expectedCash and is
// informational only.
func (s *Service) Close(ctx context.Context, tenantID id.ID, userID string, closingCount types.Money, note *string) (*CashRegister, error) {
	if err := validateSession(tenantID, userID); err != nil {
		return nil, err
	}
	if closingCount.IsNegative() {
		return nil, apperror.NewValidation("closing count must not be negative").WithDetail("field", "closingCount")
	}

	var out *CashRegister
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		shift, err := s.repo.GetOpenShift(ctx, tenantID, userID, true)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		flows, err := s.repo.CashFlows(ctx, tenantID, shift.OpenedAt, now)
		if err != nil {
			return fmt.Errorf("cash flows: %w", err)
		}
		expected := ExpectedCash(shift.OpeningFloat, flows)
		variance := closingCount.Sub(expected)

		shift.Status = StatusClosed
		shift.ClosingCount = &closingCount
		shift.ExpectedCash = &expected
		shift.Variance = &variance
		shift.Note = note
		shift.ClosedAt = &now
		if err := s.repo.CloseShift(ctx, shift); err != nil {
			return fmt.Errorf("close shift: %w", err)
		}
		out = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "shift closed",
		"shift_id", out.ID,
		"user_id", userID,
		"expected", out.ExpectedCash.String(),
		"variance", out.Variance.String())
	return out, nil
}

// RecordExpense takes cash out of the drawer.
func (s *Service) RecordExpense(ctx context.Context, tenantID id.ID, userID string, amount types.Money, category, note string) (*Expense, error) {
	if err := validateSession(tenantID, userID); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = "general"
	}

	e := &Expense{
		TenantEntity: entity.NewTenantEntity(tenantID),
		UserID:       userID,
		Amount:       amount,
		Category:     category,
		Note:         note,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	logger.Info(ctx, "expense recorded", "expense_id", e.ID, "amount", amount.String(), "category", category)
	return e, nil
}

// History lists the user's most recent shifts.
func (s *Service) History(ctx context.Context, tenantID id.ID, userID string, limit int) ([]*CashRegister, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListShifts(ctx, tenantID, userID, limit)
}

func validateSession(tenantID id.ID, userID string) error {
	if id.IsNil(tenantID) {
		return apperror.NewValidation("tenant is required")
	}
	if userID == "" {
		return apperror.NewValidation("user is required")
	}
	return nil
}
