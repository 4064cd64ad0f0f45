// Package store assembles the PostgreSQL repositories behind one value with
// the same accessors as the in-memory store.
package store

import (
	"context"
	"fmt"
	"time"

	"ledgerpos/internal/core/id"
	corenumerator "ledgerpos/internal/core/numerator"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/domain/consistency"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/purchase_order"
	"ledgerpos/internal/domain/documents/returns"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/domain/till"
	"ledgerpos/internal/infrastructure/numerator"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/internal/infrastructure/storage/postgres/catalog_repo"
	"ledgerpos/internal/infrastructure/storage/postgres/document_repo"
	"ledgerpos/internal/infrastructure/storage/postgres/register_repo"
	"ledgerpos/internal/infrastructure/storage/postgres/report_repo"
)

// Store is the PostgreSQL storage of the engine.
type Store struct {
	*postgres.TxManager

	items          *catalog_repo.ItemRepo
	counterparties *catalog_repo.CounterpartyRepo
	sales          *document_repo.SaleRepo
	purchases      *document_repo.PurchaseRepo
	orders         *document_repo.PurchaseOrderRepo
	payments       *document_repo.PaymentRepo
	returns        *document_repo.ReturnRepo
	till           *register_repo.TillRepo
	reports        *report_repo.ReportRepo
	numerator      *numerator.Service
	audit          *postgres.AuditLog
}

// New wires every repository to one transaction manager.
func New(pool *postgres.Pool, opts postgres.TxOptions) (*Store, error) {
	txm := postgres.NewTxManager(pool, opts)
	auditLog, err := postgres.NewAuditLog(txm)
	if err != nil {
		return nil, fmt.Errorf("audit log: %w", err)
	}
	return &Store{
		TxManager:      txm,
		items:          catalog_repo.NewItemRepo(txm),
		counterparties: catalog_repo.NewCounterpartyRepo(txm),
		sales:          document_repo.NewSaleRepo(txm),
		purchases:      document_repo.NewPurchaseRepo(txm),
		orders:         document_repo.NewPurchaseOrderRepo(txm),
		payments:       document_repo.NewPaymentRepo(txm),
		returns:        document_repo.NewReturnRepo(txm),
		till:           register_repo.NewTillRepo(txm),
		reports:        report_repo.NewReportRepo(txm),
		numerator:      numerator.New(txm),
		audit:          auditLog,
	}, nil
}

func (s *Store) Items() item.Repository { return s.items }
func (s *Store) Counterparties() counterparty.Repository { return s.counterparties }
func (s *Store) Sales() sale.Repository { return s.sales }
func (s *Store) Purchases() purchase.Repository { return s.purchases }
func (s *Store) PurchaseOrders() purchase_order.Repository { return s.orders }
func (s *Store) Payments() payment.Repository { return s.payments }
func (s *Store) Returns() returns.Repository { return s.returns }
func (s *Store) Till() till.Repository { return s.till }
func (s *Store) Reports() reports.Repository { return s.reports }
func (s *Store) Consistency() consistency.Repository { return s.reports }
func (s *Store) AuditLog() *postgres.AuditLog { return s.audit }

// Tenants lists the tenants that own counterparties.
func (s *Store) Tenants(ctx context.Context) ([]id.ID, error) { return s.reports.Tenants(ctx) }

// Next allocates a document number inside the transaction in ctx.
func (s *Store) Next(ctx context.Context, tenantID id.ID, cfg corenumerator.Config, period time.Time) (string, error) {
	return s.numerator.Next(ctx, tenantID, cfg, period)
}

// Record appends an audit entry inside the transaction in ctx.
func (s *Store) Record(ctx context.Context, entry audit.Entry) error {
	return s.audit.Record(ctx, entry)
}
