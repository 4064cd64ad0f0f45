package payment

import (
	"context"
	"fmt"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/pkg/logger"
)

// Input is the payload of a payment.
type Input struct {
	CounterpartyID id.ID
	Amount         types.Money
	Method         ledger.PaymentMethod
	Note           string
}

func (in Input) validate() error {
	if id.IsNil(in.CounterpartyID) {
		return apperror.NewValidation("counterparty is required").WithDetail("field", "counterpartyId")
	}
	if !in.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	if in.Method != "" && !in.Method.Valid() {
		return apperror.NewValidation("invalid payment method").
			WithDetail("field", "method").
			WithDetail("value", string(in.Method))
	}
	return nil
}

// Service records payments.
type Service struct {
	txManager      tx.Manager
	repo           Repository
	counterparties counterparty.Repository
}

// NewService creates a new payment service.
func NewService(txManager tx.Manager, repo Repository, counterparties counterparty.Repository) *Service {
	return &Service{txManager: txManager, repo: repo, counterparties: counterparties}
}

// RecordCustomerPayment lowers a customer's receivable, clamped at zero.
func (s *Service) RecordCustomerPayment(ctx context.Context, tenantID id.ID, userID string, in Input) (*Payment, error) {
	return s.record(ctx, tenantID, userID, counterparty.KindCustomer, in)
}

// RecordSupplierPayment lowers a supplier payable, clamped at zero.
func (s *Service) RecordSupplierPayment(ctx context.Context, tenantID id.ID, userID string, in Input) (*Payment, error) {
	return s.record(ctx, tenantID, userID, counterparty.KindSupplier, in)
}

// List returns payments of one kind, optionally for one counterparty.
func (s *Service) List(ctx context.Context, tenantID id.ID, kind counterparty.Kind, counterpartyID *id.ID, from, to *time.Time) ([]*Payment, error) {
	return s.repo.List(ctx, tenantID, kind, counterpartyID, from, to)
}

func (s *Service) record(ctx context.Context, tenantID id.ID, userID string, kind counterparty.Kind, in Input) (*Payment, error) {
	if id.IsNil(tenantID) {
		return nil, apperror.NewValidation("tenant is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *Payment
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cp, err := s.counterparties.GetForUpdate(ctx, tenantID, kind, in.CounterpartyID)
		if err != nil {
			return err
		}
		next, applied := ledger.DecreaseBalanceClamped(cp.Balance, in.Amount)

		p := &Payment{
			TenantEntity:   entity.NewTenantEntity(tenantID),
			Kind:           kind,
			CounterpartyID: cp.ID,
			Amount:         in.Amount,
			Applied:        applied,
			Method:         in.Method.OrDefault(),
			Note:           in.Note,
			CreatedBy:      userID,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if err := s.counterparties.SetBalance(ctx, tenantID, kind, cp.ID, next); err != nil {
			return fmt.Errorf("update %s balance: %w", kind, err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Applied.LessThan(out.Amount) {
		logger.Warn(ctx, "payment exceeded balance",
			"kind", kind,
			"counterparty_id", out.CounterpartyID,
			"amount", out.Amount.String(),
			"applied", out.Applied.String())
	}
	logger.Info(ctx, "payment recorded",
		"payment_id", out.ID,
		"kind", kind,
		"tenant_id", tenantID,
		"amount", out.Amount.String())
	return out, nil
}
