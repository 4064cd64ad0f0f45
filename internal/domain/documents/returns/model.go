// Package returns processes customer returns against sales and supplier
// returns against purchases.
package returns

import (
	"time"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/ledger"
)

// Return is an immutable partial reversal of one line item of a sale
// (customer return) or purchase (supplier return).
type Return struct {
	entity.TenantEntity

	Kind counterparty.Kind `db:"-" json:"kind"`

	// DocumentID is the sale id for customer returns, the purchase id for supplier returns.
	DocumentID     id.ID  `db:"document_id" json:"documentId"`
	CounterpartyID *id.ID `db:"counterparty_id" json:"counterpartyId,omitempty"`

	ItemID   id.ID             `db:"item_id" json:"itemId"`
	Quantity types.Quantity    `db:"quantity" json:"quantity"`
	Type     ledger.ReturnType `db:"type" json:"type"`
	Amount   types.Money       `db:"amount" json:"amount"`

	// Applied is the balance decrement actually made (clamped for CASH, zero for EXCHANGE).
	Applied types.Money `db:"applied" json:"applied"`

	Reason    string    `db:"reason" json:"reason,omitempty"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
