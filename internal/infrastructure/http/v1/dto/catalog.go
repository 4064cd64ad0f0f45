package dto

import (
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
)

// ItemRequest is the body of create and update item. OpeningQuantity is only
// read on create.
type ItemRequest struct {
	Name            string         `json:"name" binding:"required"`
	SKU             string         `json:"sku,omitempty"`
	CostPrice       types.Money    `json:"costPrice"`
	SellingPrice    types.Money    `json:"sellingPrice"`
	OpeningQuantity types.Quantity `json:"openingQuantity"`
}

// ToCreateInput converts the request to the domain create input.
func (r ItemRequest) ToCreateInput() item.CreateInput {
	return item.CreateInput{
		Name:            r.Name,
		SKU:             r.SKU,
		CostPrice:       r.CostPrice,
		SellingPrice:    r.SellingPrice,
		OpeningQuantity: r.OpeningQuantity,
	}
}

// ToUpdateInput converts the request to the domain update input.
func (r ItemRequest) ToUpdateInput() item.UpdateInput {
	return item.UpdateInput{
		Name:         r.Name,
		SKU:          r.SKU,
		CostPrice:    r.CostPrice,
		SellingPrice: r.SellingPrice,
	}
}

// CounterpartyRequest is the body of create customer and create supplier.
type CounterpartyRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ToInput converts the request to the domain input.
func (r CounterpartyRequest) ToInput() counterparty.CreateInput {
	return counterparty.CreateInput{Name: r.Name, Phone: r.Phone, Email: r.Email}
}
