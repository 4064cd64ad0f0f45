package document_repo

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

var _ sale.Repository = (*SaleRepo)(nil)

// SaleRepo implements sale.Repository over sales and sale_lines.
type SaleRepo struct {
	base *BaseDocumentRepo[*sale.Sale, sale.Line]
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		base: NewBaseDocumentRepo(txManager, DocumentTable[*sale.Sale, sale.Line]{
			Table:      "sales",
			Entity:     "sale",
			HeaderCols: postgres.Columns[sale.Sale](),
			LinesTable: "sale_lines",
			ForeignKey: "sale_id",
			LineCols:   postgres.Columns[sale.Line](),
			New:        func() *sale.Sale { return &sale.Sale{} },
			HeaderID:   func(s *sale.Sale) id.ID { return s.ID },
			Lines:      func(s *sale.Sale) *[]sale.Line { return &s.Lines },
			LineOwner:  func(l sale.Line) id.ID { return l.SaleID },
		}),
	}
}

func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	return r.base.Create(ctx, s)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, tenantID, saleID id.ID) (*sale.Sale, error) {
	return r.base.Get(ctx, tenantID, saleID, true)
}

func (r *SaleRepo) GetByID(ctx context.Context, tenantID, saleID id.ID) (*sale.Sale, error) {
	return r.base.Get(ctx, tenantID, saleID, false)
}

func (r *SaleRepo) Update(ctx context.Context, s *sale.Sale) error {
	return r.base.Update(ctx, s.TenantID, s)
}

func (r *SaleRepo) Delete(ctx context.Context, tenantID, saleID id.ID) error {
	return r.base.Delete(ctx, tenantID, saleID)
}

func (r *SaleRepo) List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]*sale.Sale, error) {
	return r.base.List(ctx, tenantID, from, to)
}
