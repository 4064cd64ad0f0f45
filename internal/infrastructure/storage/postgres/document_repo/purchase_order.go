package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/documents/purchase_order"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

var _ purchase_order.Repository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implements purchase_order.Repository.
type PurchaseOrderRepo struct {
	base *BaseDocumentRepo[*purchase_order.PurchaseOrder, purchase_order.Line]
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		base: NewBaseDocumentRepo(txManager, DocumentTable[*purchase_order.PurchaseOrder, purchase_order.Line]{
			Table:      "purchase_orders",
			Entity:     "purchase_order",
			HeaderCols: postgres.Columns[purchase_order.PurchaseOrder](),
			LinesTable: "purchase_order_lines",
			ForeignKey: "order_id",
			LineCols:   postgres.Columns[purchase_order.Line](),
			New:        func() *purchase_order.PurchaseOrder { return &purchase_order.PurchaseOrder{} },
			HeaderID:   func(po *purchase_order.PurchaseOrder) id.ID { return po.ID },
			Lines:      func(po *purchase_order.PurchaseOrder) *[]purchase_order.Line { return &po.Lines },
			LineOwner:  func(l purchase_order.Line) id.ID { return l.OrderID },
		}),
	}
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	return r.base.Create(ctx, po)
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, tenantID, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.base.Get(ctx, tenantID, poID, true)
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, tenantID, poID id.ID) (*purchase_order.PurchaseOrder, error) {
	return r.base.Get(ctx, tenantID, poID, false)
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, po *purchase_order.PurchaseOrder) error {
	return r.base.Update(ctx, po.TenantID, po)
}

func (r *PurchaseOrderRepo) Delete(ctx context.Context, tenantID, poID id.ID) error {
	return r.base.Delete(ctx, tenantID, poID)
}

func (r *PurchaseOrderRepo) List(ctx context.Context, tenantID id.ID, status *purchase_order.Status) ([]*purchase_order.PurchaseOrder, error) {
	q := r.base.baseSelect(tenantID)
	if status != nil {
		q = q.Where(squirrel.Eq{"status": *status})
	}
	return r.base.list(ctx, q)
}
