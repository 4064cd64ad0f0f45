// Package item provides the Item catalog: the stocked goods whose quantity is
// the shared counter every sale, purchase and return moves.
package item

import (
	"strings"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// Item is a stocked product of one tenant.
type Item struct {
	entity.TenantEntity

	Name string `db:"name" json:"name"`
	SKU  string `db:"sku" json:"sku,omitempty"`

	// Quantity is only ever written by document services inside a transaction.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	CostPrice    types.Money `db:"cost_price" json:"costPrice"`
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates an Item with zero stock.
func New(tenantID id.ID, name, sku string, costPrice, sellingPrice types.Money) *Item {
	now := time.Now().UTC()
	return &Item{
		TenantEntity: entity.NewTenantEntity(tenantID),
		Name:         strings.TrimSpace(name),
		SKU:          strings.TrimSpace(sku),
		Quantity:     types.Zero(),
		CostPrice:    costPrice,
		SellingPrice: sellingPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks catalog invariants.
func (i *Item) Validate() error {
	if i.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if i.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price must not be negative").WithDetail("field", "costPrice")
	}
	if i.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price must not be negative").WithDetail("field", "sellingPrice")
	}
	if i.Quantity.IsNegative() {
		return apperror.NewValidation("quantity must not be negative").WithDetail("field", "quantity")
	}
	return nil
}
