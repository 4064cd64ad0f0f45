package purchase_order

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
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/pkg/logger"
)

// PurchaseCreator runs the full create-purchase procedure.
type PurchaseCreator interface {
	Create(ctx context.Context, tenantID id.ID, userID string, in purchase.Input) (*purchase.Purchase, error)
}

// Input is the payload of create and update.
type Input struct {
	SupplierID *id.ID
	Items      []documents.LineInput
	Note       string
}

// ConvertResult identifies the purchase created from an order.
type ConvertResult struct {
	PurchaseOrderID id.ID `json:"purchaseOrderId"`
	PurchaseID      id.ID `json:"purchaseId"`
}

// Deps are the collaborators of Service.
type Deps struct {
	TxManager tx.Manager
	Orders    Repository
	Items     item.Repository
	Suppliers counterparty.Repository
	Purchases PurchaseCreator
	Numerator numerator.Generator
	Audit     audit.Recorder
}

// Service manages the purchase order lifecycle.
type Service struct {
	txManager tx.Manager
	repo      Repository
	items     item.Repository
	suppliers counterparty.Repository
	purchases PurchaseCreator
	numerator numerator.Generator
	audit     audit.Recorder
}

// NewService creates a new purchase order service.
func NewService(d Deps) *Service {
	rec := d.Audit
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Service{
		txManager: d.TxManager,
		repo:      d.Orders,
		items:     d.Items,
		suppliers: d.Suppliers,
		purchases: d.Purchases,
		numerator: d.Numerator,
		audit:     rec,
	}
}

// Create stores a new DRAFT order. It has no stock or balance effect.
func (s *Service) Create(ctx context.Context, tenantID id.ID, userID string, in Input) (*PurchaseOrder, error) {
	if id.IsNil(tenantID) {
		return nil, apperror.NewValidation("tenant is required")
	}
	if err := documents.ValidateLines(in.Items); err != nil {
		return nil, err
	}

	var out *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po := &PurchaseOrder{
			BaseDocument: entity.NewBaseDocument(tenantID, userID),
			Status:       StatusDraft,
		}
		if err := s.fill(ctx, po, in); err != nil {
			return err
		}

		var err error
		po.Number, err = s.numerator.Next(ctx, tenantID, numerator.DefaultConfig(numerator.PrefixPurchaseOrder), po.CreatedAt)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		if err := s.repo.Create(ctx, po); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		out = po
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order created", "po_id", out.ID, "number", out.Number, "tenant_id", tenantID)
	return out, nil
}

// Update replaces supplier, lines and note of a DRAFT or SENT order.
func (s *Service) Update(ctx context.Context, tenantID, poID id.ID, userID string, in Input) (*PurchaseOrder, error) {
	if err := documents.ValidateLines(in.Items); err != nil {
		return nil, err
	}

	var out *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, tenantID, poID)
		if err != nil {
			return err
		}
		if err := po.CanModify(); err != nil {
			return err
		}
		if err := s.fill(ctx, po, in); err != nil {
			return err
		}
		po.Touch(userID)
		if err := s.repo.Update(ctx, po); err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}
		out = po
		return nil
	})
	return out, err
}

// MarkSent moves a DRAFT order to SENT.
func (s *Service) MarkSent(ctx context.Context, tenantID, poID id.ID, userID string) (*PurchaseOrder, error) {
	return s.transition(ctx, tenantID, poID, userID, StatusSent)
}

// Cancel moves a DRAFT or SENT order to CANCELLED.
func (s *Service) Cancel(ctx context.Context, tenantID, poID id.ID, userID string) (*PurchaseOrder, error) {
	return s.transition(ctx, tenantID, poID, userID, StatusCancelled)
}

// Delete removes an order that is still DRAFT.
func (s *Service) Delete(ctx context.Context, tenantID, poID id.ID, userID string) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, tenantID, poID)
		if err != nil {
			return err
		}
		if po.Status != StatusDraft {
			return apperror.NewState("purchase order", string(po.Status), "deleted")
		}
		if err := s.repo.Delete(ctx, tenantID, poID); err != nil {
			return fmt.Errorf("delete purchase order: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			TenantID:   tenantID,
			EntityType: "purchase_order",
			EntityID:   po.ID,
			Action:     audit.ActionDelete,
			UserID:     userID,
			Before:     po,
		})
	})
}

// Convert receives a DRAFT or SENT order: the full create-purchase procedure
// runs in the same transaction and the order becomes RECEIVED.
func (s *Service) Convert(ctx context.Context, tenantID, poID id.ID, userID string, paidAmount types.Money, method ledger.PaymentMethod) (*ConvertResult, error) {
	var out *ConvertResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, tenantID, poID)
		if err != nil {
			return err
		}
		if po.Status.IsTerminal() {
			return apperror.NewState("purchase order", string(po.Status), string(StatusReceived))
		}
		if po.SupplierID == nil {
			return apperror.NewValidation("purchase order has no supplier").WithDetail("field", "supplierId")
		}
		before := *po

		lines := make([]documents.LineInput, 0, len(po.Lines))
		for _, l := range po.Lines {
			cost := l.CostPrice
			lines = append(lines, documents.LineInput{ItemID: l.ItemID, Quantity: l.Quantity, Price: &cost})
		}
		p, err := s.purchases.Create(ctx, tenantID, userID, purchase.Input{
			SupplierID:      po.SupplierID,
			Items:           lines,
			PaidAmount:      paidAmount,
			PaymentMethod:   method,
			PurchaseOrderID: &po.ID,
		})
		if err != nil {
			return err
		}

		if err := po.TransitionTo(StatusReceived); err != nil {
			return err
		}
		now := time.Now().UTC()
		po.PurchaseID = &p.ID
		po.ReceivedAt = &now
		po.Touch(userID)
		if err := s.repo.Update(ctx, po); err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}
		if err := s.audit.Record(ctx, audit.Entry{
			TenantID:   tenantID,
			EntityType: "purchase_order",
			EntityID:   po.ID,
			Action:     audit.ActionConvert,
			UserID:     userID,
			Before:     before,
			After:      po,
		}); err != nil {
			return fmt.Errorf("audit: %w", err)
		}
		out = &ConvertResult{PurchaseOrderID: po.ID, PurchaseID: p.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order converted",
		"po_id", out.PurchaseOrderID,
		"purchase_id", out.PurchaseID,
		"tenant_id", tenantID)
	return out, nil
}

// Get returns one order with lines.
func (s *Service) Get(ctx context.Context, tenantID, poID id.ID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, tenantID, poID)
}

// List returns orders, optionally filtered by status.
func (s *Service) List(ctx context.Context, tenantID id.ID, status *Status) ([]*PurchaseOrder, error) {
	return s.repo.List(ctx, tenantID, status)
}

func (s *Service) transition(ctx context.Context, tenantID, poID id.ID, userID string, next Status) (*PurchaseOrder, error) {
	var out *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, tenantID, poID)
		if err != nil {
			return err
		}
		from := po.Status
		if err := po.TransitionTo(next); err != nil {
			return err
		}
		po.Touch(userID)
		if err := s.repo.Update(ctx, po); err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}
		if next == StatusCancelled {
			if err := s.audit.Record(ctx, audit.Entry{
				TenantID:   tenantID,
				EntityType: "purchase_order",
				EntityID:   po.ID,
				Action:     audit.ActionCancel,
				UserID:     userID,
				Before:     map[string]any{"status": from},
				After:      map[string]any{"status": next},
			}); err != nil {
				return fmt.Errorf("audit: %w", err)
			}
		}
		out = po
		return nil
	})
	return out, err
}

// fill validates references and rebuilds lines and total.
func (s *Service) fill(ctx context.Context, po *PurchaseOrder, in Input) error {
	if in.SupplierID != nil {
		if _, err := s.suppliers.GetByID(ctx, po.TenantID, counterparty.KindSupplier, *in.SupplierID); err != nil {
			return err
		}
	}
	lines := make([]Line, 0, len(in.Items))
	total := types.Zero()
	for i, l := range in.Items {
		it, err := s.items.GetByID(ctx, po.TenantID, l.ItemID)
		if err != nil {
			return err
		}
		cost := it.CostPrice
		if l.Price != nil {
			cost = *l.Price
		}
		amount := types.RoundMoney(cost.Mul(l.Quantity))
		lines = append(lines, Line{
			OrderID:   po.ID,
			LineNo:    i + 1,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			CostPrice: cost,
			Amount:    amount,
		})
		total = total.Add(amount)
	}
	po.SupplierID = in.SupplierID
	po.Lines = lines
	po.TotalAmount = total
	po.Note = in.Note
	return nil
}
