package purchase

import (
	"context"
	"fmt"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/numerator"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/pkg/logger"
)

// Input is the payload of create and edit.
type Input struct {
	SupplierID    *id.ID
	Items         []documents.LineInput
	PaidAmount    types.Money
	PaymentMethod ledger.PaymentMethod

	// PurchaseOrderID is set when the purchase comes from a converted order.
	PurchaseOrderID *id.ID
}

func (in Input) validate() error {
	if err := documents.ValidateLines(in.Items); err != nil {
		return err
	}
	if err := documents.ValidatePaid(in.PaidAmount); err != nil {
		return err
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		return apperror.NewValidation("invalid payment method").
			WithDetail("field", "paymentMethod").
			WithDetail("value", string(in.PaymentMethod))
	}
	return nil
}

// Deps are the collaborators of Service.
type Deps struct {
	TxManager tx.Manager
	Purchases Repository
	Items     item.Repository
	Suppliers counterparty.Repository
	Returns   ReturnCounter
	Numerator numerator.Generator
	Audit     audit.Recorder
}

// Service runs the purchase procedures.
type Service struct {
	txManager tx.Manager
	repo      Repository
	items     item.Repository
	suppliers counterparty.Repository
	returns   ReturnCounter
	numerator numerator.Generator
	audit     audit.Recorder
}

// NewService creates a new purchase service.
func NewService(d Deps) *Service {
	rec := d.Audit
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Service{
		txManager: d.TxManager,
		repo:      d.Purchases,
		items:     d.Items,
		suppliers: d.Suppliers,
		returns:   d.Returns,
		numerator: d.Numerator,
		audit:     rec,
	}
}

// Create records a purchase: stock of every line increases, and any unpaid
// remainder is added to the supplier's balance.
func (s *Service) Create(ctx context.Context, tenantID id.ID, userID string, in Input) (*Purchase, error) {
	if id.IsNil(tenantID) {
		return nil, apperror.NewValidation("tenant is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *Purchase
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc := &Purchase{BaseDocument: entity.NewBaseDocument(tenantID, userID)}

		suppliers := counterparty.NewBalances(counterparty.KindSupplier)
		if _, err := suppliers.Lock(ctx, s.suppliers, tenantID, in.SupplierID); err != nil {
			return err
		}
		ids := documents.IDSet{}
		ids.AddLines(in.Items)
		items, err := item.LockAll(ctx, s.items, tenantID, ids.Sorted())
		if err != nil {
			return err
		}

		proj := ledger.NewStockProjection(item.Quantities(items))
		if err := apply(doc, in, items, proj, suppliers); err != nil {
			return err
		}
		changes, err := proj.Resolve()
		if err != nil {
			return err
		}

		doc.Number, err = s.numerator.Next(ctx, tenantID, numerator.DefaultConfig(numerator.PrefixPurchase), doc.CreatedAt)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		if err := item.SetQuantities(ctx, s.items, tenantID, changes); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := suppliers.Flush(ctx, s.suppliers, tenantID); err != nil {
			return fmt.Errorf("update supplier balance: %w", err)
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase created",
		"purchase_id", out.ID,
		"number", out.Number,
		"tenant_id", tenantID,
		"total", out.TotalAmount.String(),
		"credit", out.CreditAmount().String())
	return out, nil
}

// Edit replaces a purchase in place. Reversal may drive an item's projected
// stock below zero temporarily (goods sold on since receipt); only the
// composed result with the new lines applied must be non-negative.
func (s *Service) Edit(ctx context.Context, tenantID, purchaseID id.ID, userID string, in Input) (*Purchase, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *Purchase
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, tenantID, purchaseID)
		if err != nil {
			return err
		}
		if err := s.ensureNoReturns(ctx, doc, "edit"); err != nil {
			return err
		}
		before := snapshot(doc)
		in.PurchaseOrderID = doc.PurchaseOrderID

		suppliers := counterparty.NewBalances(counterparty.KindSupplier)
		for _, cpID := range documents.SortedOptional(doc.SupplierID, in.SupplierID) {
			if _, err := suppliers.Lock(ctx, s.suppliers, tenantID, cpID); err != nil {
				return err
			}
		}
		ids := documents.IDSet{}
		for _, l := range doc.Lines {
			ids.Add(l.ItemID)
		}
		ids.AddLines(in.Items)
		items, err := item.LockAll(ctx, s.items, tenantID, ids.Sorted())
		if err != nil {
			return err
		}

		proj := ledger.NewStockProjection(item.Quantities(items))
		reverse(doc, proj, suppliers)
		if err := apply(doc, in, items, proj, suppliers); err != nil {
			return err
		}
		changes, err := proj.Resolve()
		if err != nil {
			return err
		}

		doc.Touch(userID)
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update purchase: %w", err)
		}
		if err := item.SetQuantities(ctx, s.items, tenantID, changes); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := suppliers.Flush(ctx, s.suppliers, tenantID); err != nil {
			return fmt.Errorf("update supplier balance: %w", err)
		}
		if err := s.audit.Record(ctx, audit.Entry{
			TenantID:   tenantID,
			EntityType: "purchase",
			EntityID:   doc.ID,
			Action:     audit.ActionEdit,
			UserID:     userID,
			Before:     before,
			After:      doc,
		}); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase edited",
		"purchase_id", out.ID,
		"tenant_id", tenantID,
		"total", out.TotalAmount.String())
	return out, nil
}

// Void reverses a purchase and deletes it. Every item must still hold enough
// stock to give the received quantity back; otherwise CANNOT_VOID names the
// first short item and the shortfall, and nothing is changed.
func (s *Service) Void(ctx context.Context, tenantID, purchaseID id.ID, userID string) (*VoidResult, error) {
	var out *VoidResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, tenantID, purchaseID)
		if err != nil {
			return err
		}
		if err := s.ensureNoReturns(ctx, doc, "void"); err != nil {
			return err
		}

		suppliers := counterparty.NewBalances(counterparty.KindSupplier)
		if _, err := suppliers.Lock(ctx, s.suppliers, tenantID, doc.SupplierID); err != nil {
			return err
		}
		order, received := doc.QuantityByItem()
		ids := documents.IDSet{}
		for _, itemID := range order {
			ids.Add(itemID)
		}
		items, err := item.LockAll(ctx, s.items, tenantID, ids.Sorted())
		if err != nil {
			return err
		}

		for _, itemID := range order {
			current := items[itemID].Quantity
			if current.LessThan(received[itemID]) {
				return apperror.NewCannotVoid(itemID.String(), received[itemID].Sub(current)).
					WithDetail("current", current.String()).
					WithDetail("received", received[itemID].String())
			}
		}

		proj := ledger.NewStockProjection(item.Quantities(items))
		reverse(doc, proj, suppliers)
		changes, err := proj.Resolve()
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, tenantID, purchaseID); err != nil {
			return fmt.Errorf("delete purchase: %w", err)
		}
		if err := item.SetQuantities(ctx, s.items, tenantID, changes); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := suppliers.Flush(ctx, s.suppliers, tenantID); err != nil {
			return fmt.Errorf("update supplier balance: %w", err)
		}
		if err := s.audit.Record(ctx, audit.Entry{
			TenantID:   tenantID,
			EntityType: "purchase",
			EntityID:   doc.ID,
			Action:     audit.ActionVoid,
			UserID:     userID,
			Before:     doc,
		}); err != nil {
			return fmt.Errorf("audit: %w", err)
		}

		out = &VoidResult{
			PurchaseID:        doc.ID,
			VoidedAmount:      doc.TotalAmount,
			ReversedItemCount: len(doc.Lines),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase voided",
		"purchase_id", purchaseID,
		"tenant_id", tenantID,
		"voided_amount", out.VoidedAmount.String())
	return out, nil
}

// Get returns a purchase with its lines.
func (s *Service) Get(ctx context.Context, tenantID, purchaseID id.ID) (*Purchase, error) {
	return s.repo.GetByID(ctx, tenantID, purchaseID)
}

// List returns purchases created in [from, to]. Nil bounds are open.
func (s *Service) List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]*Purchase, error) {
	return s.repo.List(ctx, tenantID, from, to)
}

func (s *Service) ensureNoReturns(ctx context.Context, doc *Purchase, op string) error {
	if s.returns == nil {
		return nil
	}
	n, err := s.returns.CountForPurchase(ctx, doc.TenantID, doc.ID)
	if err != nil {
		return fmt.Errorf("count returns: %w", err)
	}
	if n > 0 {
		return apperror.NewBusinessRule(apperror.CodeState, fmt.Sprintf("cannot %s a purchase that has returns", op)).
			WithDetail("purchase_id", doc.ID.String()).
			WithDetail("returns", n)
	}
	return nil
}

func apply(doc *Purchase, in Input, items map[id.ID]*item.Item, proj *ledger.StockProjection, suppliers *counterparty.Balances) error {
	lines := make([]Line, 0, len(in.Items))
	total := types.Zero()
	for i, l := range in.Items {
		cost := items[l.ItemID].CostPrice
		if l.Price != nil {
			cost = *l.Price
		}
		amount := types.RoundMoney(cost.Mul(l.Quantity))
		lines = append(lines, Line{
			PurchaseID: doc.ID,
			LineNo:     i + 1,
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			CostPrice:  cost,
			Amount:     amount,
		})
		total = total.Add(amount)
	}

	credit, err := ledger.ComputeCreditAmount(total, in.PaidAmount)
	if err != nil {
		return err
	}
	if credit.IsPositive() && in.SupplierID == nil {
		return apperror.NewValidation("supplier is required for a credit purchase").
			WithDetail("field", "supplierId").
			WithDetail("credit", credit.String())
	}

	doc.SupplierID = in.SupplierID
	doc.PurchaseOrderID = in.PurchaseOrderID
	doc.Lines = lines
	doc.TotalAmount = total
	doc.PaidAmount = in.PaidAmount
	doc.PaymentType = ledger.PaymentTypeFor(credit)
	doc.PaymentMethod = in.PaymentMethod.OrDefault()

	for _, l := range lines {
		proj.Add(l.ItemID, l.Quantity)
	}
	if credit.IsPositive() {
		suppliers.Adjust(*in.SupplierID, credit)
	}
	return nil
}

// reverse undoes doc on the projection and the balances.
func reverse(doc *Purchase, proj *ledger.StockProjection, suppliers *counterparty.Balances) {
	for _, l := range doc.Lines {
		proj.Add(l.ItemID, l.Quantity.Neg())
	}
	if credit := doc.CreditAmount(); credit.IsPositive() && doc.SupplierID != nil {
		suppliers.Adjust(*doc.SupplierID, credit.Neg())
	}
}

func snapshot(doc *Purchase) *Purchase {
	c := *doc
	c.Lines = append([]Line(nil), doc.Lines...)
	return &c
}
