package sale

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
	CustomerID    *id.ID
	Items         []documents.LineInput
	PaidAmount    types.Money
	PaymentMethod ledger.PaymentMethod
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
	Sales     Repository
	Items     item.Repository
	Customers counterparty.Repository
	Returns   ReturnCounter
	Numerator numerator.Generator
	Audit     audit.Recorder
}

// Service runs the sale procedures.
type Service struct {
	txManager tx.Manager
	repo      Repository
	items     item.Repository
	customers counterparty.Repository
	returns   ReturnCounter
	numerator numerator.Generator
	audit     audit.Recorder
}

// NewService creates a new sale service.
func NewService(d Deps) *Service {
	rec := d.Audit
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Service{
		txManager: d.TxManager,
		repo:      d.Sales,
		items:     d.Items,
		customers: d.Customers,
		returns:   d.Returns,
		numerator: d.Numerator,
		audit:     rec,
	}
}

// Create records a sale: stock of every line decreases, and any unpaid
// remainder is added to the customer's balance.
func (s *Service) Create(ctx context.Context, tenantID id.ID, userID string, in Input) (*Sale, error) {
	if id.IsNil(tenantID) {
		return nil, apperror.NewValidation("tenant is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc := &Sale{BaseDocument: entity.NewBaseDocument(tenantID, userID)}

		customers := counterparty.NewBalances(counterparty.KindCustomer)
		if _, err := customers.Lock(ctx, s.customers, tenantID, in.CustomerID); err != nil {
			return err
		}
		ids := documents.IDSet{}
		ids.AddLines(in.Items)
		items, err := item.LockAll(ctx, s.items, tenantID, ids.Sorted())
		if err != nil {
			return err
		}

		proj := ledger.NewStockProjection(item.Quantities(items))
		if err := apply(doc, in, items, proj, customers); err != nil {
			return err
		}
		changes, err := proj.Resolve()
		if err != nil {
			return err
		}

		doc.Number, err = s.numerator.Next(ctx, tenantID, numerator.DefaultConfig(numerator.PrefixSale), doc.CreatedAt)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := item.SetQuantities(ctx, s.items, tenantID, changes); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := customers.Flush(ctx, s.customers, tenantID); err != nil {
			return fmt.Errorf("update customer balance: %w", err)
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"sale_id", out.ID,
		"number", out.Number,
		"tenant_id", tenantID,
		"total", out.TotalAmount.String(),
		"credit", out.CreditAmount().String())
	return out, nil
}

// Edit replaces a sale in place. The old sale is fully reversed and the new
// one fully applied on the same projection, even for unchanged lines; only
// the composed result is validated.
func (s *Service) Edit(ctx context.Context, tenantID, saleID id.ID, userID string, in Input) (*Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if err := s.ensureNoReturns(ctx, doc, "edit"); err != nil {
			return err
		}
		before := snapshot(doc)

		customers := counterparty.NewBalances(counterparty.KindCustomer)
		for _, cpID := range documents.SortedOptional(doc.CustomerID, in.CustomerID) {
			if _, err := customers.Lock(ctx, s.customers, tenantID, cpID); err != nil {
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
		reverse(doc, proj, customers)
		if err := apply(doc, in, items, proj, customers); err != nil {
			return err
		}
		changes, err := proj.Resolve()
		if err != nil {
			return err
		}

		doc.Touch(userID)
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		if err := item.SetQuantities(ctx, s.items, tenantID, changes); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := customers.Flush(ctx, s.customers, tenantID); err != nil {
			return fmt.Errorf("update customer balance: %w", err)
		}
		if err := s.audit.Record(ctx, audit.Entry{
			TenantID:   tenantID,
			EntityType: "sale",
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

	logger.Info(ctx, "sale edited",
		"sale_id", out.ID,
		"tenant_id", tenantID,
		"total", out.TotalAmount.String(),
		"credit", out.CreditAmount().String())
	return out, nil
}

// Void reverses every effect of a sale and deletes it. Voiding a sale that
// no longer exists returns NOT_FOUND, so a repeated void changes nothing.
func (s *Service) Void(ctx context.Context, tenantID, saleID id.ID, userID string) (*VoidResult, error) {
	var out *VoidResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if err := s.ensureNoReturns(ctx, doc, "void"); err != nil {
			return err
		}

		customers := counterparty.NewBalances(counterparty.KindCustomer)
		if _, err := customers.Lock(ctx, s.customers, tenantID, doc.CustomerID); err != nil {
			return err
		}
		ids := documents.IDSet{}
		for _, l := range doc.Lines {
			ids.Add(l.ItemID)
		}
		items, err := item.LockAll(ctx, s.items, tenantID, ids.Sorted())
		if err != nil {
			return err
		}

		proj := ledger.NewStockProjection(item.Quantities(items))
		reverse(doc, proj, customers)
		changes, err := proj.Resolve()
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, tenantID, saleID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}
		if err := item.SetQuantities(ctx, s.items, tenantID, changes); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := customers.Flush(ctx, s.customers, tenantID); err != nil {
			return fmt.Errorf("update customer balance: %w", err)
		}
		if err := s.audit.Record(ctx, audit.Entry{
			TenantID:   tenantID,
			EntityType: "sale",
			EntityID:   doc.ID,
			Action:     audit.ActionVoid,
			UserID:     userID,
			Before:     doc,
		}); err != nil {
			return fmt.Errorf("audit: %w", err)
		}

		out = &VoidResult{
			SaleID:            doc.ID,
			VoidedAmount:      doc.TotalAmount,
			ReversedItemCount: len(doc.Lines),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale voided",
		"sale_id", saleID,
		"tenant_id", tenantID,
		"voided_amount", out.VoidedAmount.String())
	return out, nil
}

// Get returns a sale with its lines.
func (s *Service) Get(ctx context.Context, tenantID, saleID id.ID) (*Sale, error) {
	return s.repo.GetByID(ctx, tenantID, saleID)
}

// List returns sales created in [from, to]. Nil bounds are open.
func (s *Service) List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]*Sale, error) {
	return s.repo.List(ctx, tenantID, from, to)
}

func (s *Service) ensureNoReturns(ctx context.Context, doc *Sale, op string) error {
	if s.returns == nil {
		return nil
	}
	n, err := s.returns.CountForSale(ctx, doc.TenantID, doc.ID)
	if err != nil {
		return fmt.Errorf("count returns: %w", err)
	}
	if n > 0 {
		return apperror.NewBusinessRule(apperror.CodeState, fmt.Sprintf("cannot %s a sale that has returns", op)).
			WithDetail("sale_id", doc.ID.String()).
			WithDetail("returns", n)
	}
	return nil
}

// apply writes the effects of in onto doc, the projection and the balances.
func apply(doc *Sale, in Input, items map[id.ID]*item.Item, proj *ledger.StockProjection, customers *counterparty.Balances) error {
	lines := make([]Line, 0, len(in.Items))
	total := types.Zero()
	for i, l := range in.Items {
		price := items[l.ItemID].SellingPrice
		if l.Price != nil {
			price = *l.Price
		}
		amount := types.RoundMoney(price.Mul(l.Quantity))
		lines = append(lines, Line{
			SaleID:   doc.ID,
			LineNo:   i + 1,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Price:    price,
			Amount:   amount,
		})
		total = total.Add(amount)
	}

	credit, err := ledger.ComputeCreditAmount(total, in.PaidAmount)
	if err != nil {
		return err
	}
	if credit.IsPositive() && in.CustomerID == nil {
		return apperror.NewValidation("customer is required for a credit sale").
			WithDetail("field", "customerId").
			WithDetail("credit", credit.String())
	}

	doc.CustomerID = in.CustomerID
	doc.Lines = lines
	doc.TotalAmount = total
	doc.PaidAmount = in.PaidAmount
	doc.PaymentType = ledger.PaymentTypeFor(credit)
	doc.PaymentMethod = in.PaymentMethod.OrDefault()

	for _, l := range lines {
		proj.Add(l.ItemID, l.Quantity.Neg())
	}
	if credit.IsPositive() {
		customers.Adjust(*in.CustomerID, credit)
	}
	return nil
}

// reverse undoes the effects of doc on the projection and the balances.
// Only the net balance change is clamped, on Flush.
func reverse(doc *Sale, proj *ledger.StockProjection, customers *counterparty.Balances) {
	for _, l := range doc.Lines {
		proj.Add(l.ItemID, l.Quantity)
	}
	if credit := doc.CreditAmount(); credit.IsPositive() && doc.CustomerID != nil {
		customers.Adjust(*doc.CustomerID, credit.Neg())
	}
}

func snapshot(doc *Sale) *Sale {
	c := *doc
	c.Lines = append([]Line(nil), doc.Lines...)
	return &c
}
