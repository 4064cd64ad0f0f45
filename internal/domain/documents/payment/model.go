// Package payment records customer and supplier payments against balances.
package payment

import (
	"time"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/ledger"
)

// Payment is an immutable money movement settling a balance.
// Amount is what changed hands; Applied is how much the balance actually
// dropped, which is smaller when the payment overpaid the balance.
type Payment struct {
	entity.TenantEntity

	Kind           counterparty.Kind    `db:"-" json:"kind"`
	CounterpartyID id.ID                `db:"counterparty_id" json:"counterpartyId"`
	Amount         types.Money          `db:"amount" json:"amount"`
	Applied        types.Money          `db:"applied" json:"applied"`
	Method         ledger.PaymentMethod `db:"method" json:"method"`
	Note           string               `db:"note" json:"note,omitempty"`
	CreatedBy      string               `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt      time.Time            `db:"created_at" json:"createdAt"`
}
