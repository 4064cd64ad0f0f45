// Package counterparty provides the Customer and Supplier catalogs.
// A customer balance is a receivable, a supplier balance a payable; both are
// cached aggregates changed only by document services.
package counterparty

import (
	"regexp"
	"strings"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Kind separates customers from suppliers. They are stored in different tables.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindSupplier Kind = "supplier"
)

// Entity returns the name used in NOT_FOUND errors.
func (k Kind) Entity() string {
	if k == KindSupplier {
		return "supplier"
	}
	return "customer"
}

// Counterparty is a customer or a supplier.
type Counterparty struct {
	entity.TenantEntity

	Kind  Kind    `db:"-" json:"kind"`
	Name  string  `db:"name" json:"name"`
	Phone *string `db:"phone" json:"phone,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`

	// Balance is what the customer owes us, or what we owe the supplier.
	Balance types.Money `db:"balance" json:"balance"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a counterparty with a zero balance.
func New(tenantID id.ID, kind Kind, name string) *Counterparty {
	now := time.Now().UTC()
	return &Counterparty{
		TenantEntity: entity.NewTenantEntity(tenantID),
		Kind:         kind,
		Name:         strings.TrimSpace(name),
		Balance:      types.Zero(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks catalog invariants.
func (c *Counterparty) Validate() error {
	if c.Kind != KindCustomer && c.Kind != KindSupplier {
		return apperror.NewValidation("invalid counterparty kind").
			WithDetail("field", "kind").
			WithDetail("value", string(c.Kind))
	}
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").WithDetail("field", "email")
	}
	return nil
}
