package document_repo

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo implements purchase.Repository over purchases and purchase_lines.
type PurchaseRepo struct {
	base *BaseDocumentRepo[*purchase.Purchase, purchase.Line]
}

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		base: NewBaseDocumentRepo(txManager, DocumentTable[*purchase.Purchase, purchase.Line]{
			Table:      "purchases",
			Entity:     "purchase",
			HeaderCols: postgres.Columns[purchase.Purchase](),
			LinesTable: "purchase_lines",
			ForeignKey: "purchase_id",
			LineCols:   postgres.Columns[purchase.Line](),
			New:        func() *purchase.Purchase { return &purchase.Purchase{} },
			HeaderID:   func(p *purchase.Purchase) id.ID { return p.ID },
			Lines:      func(p *purchase.Purchase) *[]purchase.Line { return &p.Lines },
			LineOwner:  func(l purchase.Line) id.ID { return l.PurchaseID },
		}),
	}
}

func (r *PurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	return r.base.Create(ctx, p)
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, tenantID, purchaseID id.ID) (*purchase.Purchase, error) {
	return r.base.Get(ctx, tenantID, purchaseID, true)
}

func (r *PurchaseRepo) GetByID(ctx context.Context, tenantID, purchaseID id.ID) (*purchase.Purchase, error) {
	return r.base.Get(ctx, tenantID, purchaseID, false)
}

func (r *PurchaseRepo) Update(ctx context.Context, p *purchase.Purchase) error {
	return r.base.Update(ctx, p.TenantID, p)
}

func (r *PurchaseRepo) Delete(ctx context.Context, tenantID, purchaseID id.ID) error {
	return r.base.Delete(ctx, tenantID, purchaseID)
}

func (r *PurchaseRepo) List(ctx context.Context, tenantID id.ID, from, to *time.Time) ([]*purchase.Purchase, error) {
	return r.base.List(ctx, tenantID, from, to)
}
