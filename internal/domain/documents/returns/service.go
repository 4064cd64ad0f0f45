package returns

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
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/pkg/logger"
)

// Input is the payload of a return. DocumentID is a sale or purchase id.
type Input struct {
	DocumentID id.ID
	ItemID     id.ID
	Quantity   types.Quantity
	Type       ledger.ReturnType
	Amount     types.Money
	Reason     string
}

func (in Input) validate() error {
	if id.IsNil(in.DocumentID) {
		return apperror.NewValidation("document is required").WithDetail("field", "documentId")
	}
	if id.IsNil(in.ItemID) {
		return apperror.NewValidation("item is required").WithDetail("field", "itemId")
	}
	if !in.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").WithDetail("field", "quantity")
	}
	if !in.Type.Valid() {
		return apperror.NewValidation("type must be CASH, CREDIT or EXCHANGE").
			WithDetail("field", "type").
			WithDetail("value", string(in.Type))
	}
	if in.Amount.IsNegative() {
		return apperror.NewValidation("amount must not be negative").WithDetail("field", "amount")
	}
	return nil
}

// Deps are the collaborators of Service.
type Deps struct {
	TxManager      tx.Manager
	Returns        Repository
	Sales          sale.Repository
	Purchases      purchase.Repository
	Items          item.Repository
	Counterparties counterparty.Repository
}

// Service processes returns.
type Service struct {
	txManager      tx.Manager
	repo           Repository
	sales          sale.Repository
	purchases      purchase.Repository
	items          item.Repository
	counterparties counterparty.Repository
}

// NewService creates a new return service.
func NewService(d Deps) *Service {
	return &Service{
		txManager:      d.TxManager,
		repo:           d.Returns,
		sales:          d.Sales,
		purchases:      d.Purchases,
		items:          d.Items,
		counterparties: d.Counterparties,
	}
}

// source is the part of a sale or purchase a return is checked against.
type source struct {
	documentID     id.ID
	counterpartyID *id.ID
	quantity       types.Quantity
	amount         types.Money
}

// ProcessCustomerReturn takes goods back from a customer: stock increases and,
// for CASH and CREDIT returns, the customer's balance decreases.
func (s *Service) ProcessCustomerReturn(ctx context.Context, tenantID id.ID, userID string, in Input) (*Return, error) {
	return s.process(ctx, tenantID, userID, counterparty.KindCustomer, in)
}

// ProcessSupplierReturn sends goods back to a supplier: stock decreases
// (failing on insufficient stock) and the supplier balance decreases.
func (s *Service) ProcessSupplierReturn(ctx context.Context, tenantID id.ID, userID string, in Input) (*Return, error) {
	return s.process(ctx, tenantID, userID, counterparty.KindSupplier, in)
}

// List returns the returns of one kind in [from, to].
func (s *Service) List(ctx context.Context, tenantID id.ID, kind counterparty.Kind, from, to *time.Time) ([]*Return, error) {
	return s.repo.List(ctx, tenantID, kind, from, to)
}

func (s *Service) process(ctx context.Context, tenantID id.ID, userID string, kind counterparty.Kind, in Input) (*Return, error) {
	if id.IsNil(tenantID) {
		return nil, apperror.NewValidation("tenant is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *Return
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		src, err := s.loadSource(ctx, tenantID, kind, in)
		if err != nil {
			return err
		}
		if src.quantity.IsZero() {
			return apperror.NewValidation("item is not part of the referenced document").
				WithDetail("field", "itemId").
				WithDetail("document_id", in.DocumentID.String())
		}

		returned, err := s.repo.ReturnedQuantity(ctx, tenantID, kind, in.DocumentID, in.ItemID)
		if err != nil {
			return fmt.Errorf("returned quantity: %w", err)
		}
		if remaining := src.quantity.Sub(returned); in.Quantity.GreaterThan(remaining) {
			return apperror.NewOverLimit("quantity", in.Quantity, remaining).
				WithDetail("transacted", src.quantity.String()).
				WithDetail("already_returned", returned.String())
		}
		maxAmount := types.RoundMoney(src.amount.Mul(in.Quantity).Div(src.quantity))
		if in.Amount.GreaterThan(maxAmount) {
			return apperror.NewOverLimit("amount", in.Amount, maxAmount)
		}
		if in.Type == ledger.ReturnCredit && src.counterpartyID == nil {
			return apperror.NewValidation("a CREDIT return requires a document with a " + kind.Entity()).
				WithDetail("field", "type")
		}

		// Lock order: counterparty first, then the item.
		var cp *counterparty.Counterparty
		if src.counterpartyID != nil && in.Type != ledger.ReturnExchange {
			cp, err = s.counterparties.GetForUpdate(ctx, tenantID, kind, *src.counterpartyID)
			if err != nil {
				return err
			}
		}
		it, err := s.items.GetForUpdate(ctx, tenantID, in.ItemID)
		if err != nil {
			return err
		}

		delta := in.Quantity
		if kind == counterparty.KindSupplier {
			delta = delta.Neg()
		}
		nextQty, err := ledger.ApplyStockDelta(it.ID, it.Quantity, delta)
		if err != nil {
			return err
		}

		r := &Return{
			TenantEntity:   entity.NewTenantEntity(tenantID),
			Kind:           kind,
			DocumentID:     src.documentID,
			CounterpartyID: src.counterpartyID,
			ItemID:         in.ItemID,
			Quantity:       in.Quantity,
			Type:           in.Type,
			Amount:         in.Amount,
			Applied:        types.Zero(),
			Reason:         in.Reason,
			CreatedBy:      userID,
			CreatedAt:      time.Now().UTC(),
		}
		var nextBalance types.Money
		if cp != nil {
			nextBalance, r.Applied = ledger.ApplyReturnToBalance(in.Type, cp.Balance, in.Amount)
		}

		if err := s.repo.Create(ctx, r); err != nil {
			return fmt.Errorf("create return: %w", err)
		}
		if err := s.items.SetQuantity(ctx, tenantID, it.ID, nextQty); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if cp != nil {
			if err := s.counterparties.SetBalance(ctx, tenantID, kind, cp.ID, nextBalance); err != nil {
				return fmt.Errorf("update %s balance: %w", kind, err)
			}
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "return processed",
		"return_id", out.ID,
		"kind", kind,
		"type", out.Type,
		"tenant_id", tenantID,
		"quantity", out.Quantity.String(),
		"applied", out.Applied.String())
	return out, nil
}

// loadSource locks the referenced document and sums its lines for the item.
func (s *Service) loadSource(ctx context.Context, tenantID id.ID, kind counterparty.Kind, in Input) (source, error) {
	src := source{documentID: in.DocumentID, quantity: types.Zero(), amount: types.Zero()}
	if kind == counterparty.KindCustomer {
		doc, err := s.sales.GetForUpdate(ctx, tenantID, in.DocumentID)
		if err != nil {
			return src, err
		}
		src.counterpartyID = doc.CustomerID
		for _, l := range doc.Lines {
			if l.ItemID == in.ItemID {
				src.quantity = src.quantity.Add(l.Quantity)
				src.amount = src.amount.Add(l.Amount)
			}
		}
		return src, nil
	}

	doc, err := s.purchases.GetForUpdate(ctx, tenantID, in.DocumentID)
	if err != nil {
		return src, err
	}
	src.counterpartyID = doc.SupplierID
	for _, l := range doc.Lines {
		if l.ItemID == in.ItemID {
			src.quantity = src.quantity.Add(l.Quantity)
			src.amount = src.amount.Add(l.Amount)
		}
	}
	return src, nil
}
