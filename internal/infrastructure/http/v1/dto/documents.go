package dto

import (
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/purchase_order"
	"ledgerpos/internal/domain/documents/returns"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/ledger"
)

// LineRequest is one requested document line. Price is optional and falls
// back to the item's selling (or cost) price.
type LineRequest struct {
	ItemID   id.ID          `json:"itemId"`
	Quantity types.Quantity `json:"quantity"`
	Price    *types.Money   `json:"price,omitempty"`
}

func toLines(in []LineRequest) []documents.LineInput {
	out := make([]documents.LineInput, 0, len(in))
	for _, l := range in {
		out = append(out, documents.LineInput{ItemID: l.ItemID, Quantity: l.Quantity, Price: l.Price})
	}
	return out
}

// SaleRequest is the body of create and edit sale.
type SaleRequest struct {
	CustomerID    *id.ID               `json:"customerId,omitempty"`
	Items         []LineRequest        `json:"items"`
	PaidAmount    types.Money          `json:"paidAmount"`
	PaymentMethod ledger.PaymentMethod `json:"paymentMethod,omitempty"`
}

// ToInput converts the request to the domain input.
func (r SaleRequest) ToInput() sale.Input {
	return sale.Input{
		CustomerID:    r.CustomerID,
		Items:         toLines(r.Items),
		PaidAmount:    r.PaidAmount,
		PaymentMethod: r.PaymentMethod,
	}
}

// PurchaseRequest is the body of create and edit purchase.
type PurchaseRequest struct {
	SupplierID    *id.ID               `json:"supplierId,omitempty"`
	Items         []LineRequest        `json:"items"`
	PaidAmount    types.Money          `json:"paidAmount"`
	PaymentMethod ledger.PaymentMethod `json:"paymentMethod,omitempty"`
}

// ToInput converts the request to the domain input.
func (r PurchaseRequest) ToInput() purchase.Input {
	return purchase.Input{
		SupplierID:    r.SupplierID,
		Items:         toLines(r.Items),
		PaidAmount:    r.PaidAmount,
		PaymentMethod: r.PaymentMethod,
	}
}

// PurchaseOrderRequest is the body of create and update purchase order.
type PurchaseOrderRequest struct {
	SupplierID *id.ID        `json:"supplierId,omitempty"`
	Items      []LineRequest `json:"items"`
	Note       string        `json:"note,omitempty"`
}

// ToInput converts the request to the domain input.
func (r PurchaseOrderRequest) ToInput() purchase_order.Input {
	return purchase_order.Input{
		SupplierID: r.SupplierID,
		Items:      toLines(r.Items),
		Note:       r.Note,
	}
}

// ConvertRequest is the body of purchase order conversion.
type ConvertRequest struct {
	PaidAmount    types.Money          `json:"paidAmount"`
	PaymentMethod ledger.PaymentMethod `json:"paymentMethod,omitempty"`
}

// PaymentRequest is the body of customer and supplier payments.
type PaymentRequest struct {
	CounterpartyID id.ID                `json:"counterpartyId"`
	Amount         types.Money          `json:"amount"`
	Method         ledger.PaymentMethod `json:"method,omitempty"`
	Note           string               `json:"note,omitempty"`
}

// ToInput converts the request to the domain input.
func (r PaymentRequest) ToInput() payment.Input {
	return payment.Input{
		CounterpartyID: r.CounterpartyID,
		Amount:         r.Amount,
		Method:         r.Method,
		Note:           r.Note,
	}
}

// ReturnRequest is the body of customer and supplier returns. DocumentID is
// the sale (customer) or purchase (supplier).
type ReturnRequest struct {
	DocumentID id.ID             `json:"documentId"`
	ItemID     id.ID             `json:"itemId"`
	Quantity   types.Quantity    `json:"quantity"`
	Type       ledger.ReturnType `json:"type"`
	Amount     types.Money       `json:"amount"`
	Reason     string            `json:"reason,omitempty"`
}

// ToInput converts the request to the domain input.
func (r ReturnRequest) ToInput() returns.Input {
	return returns.Input{
		DocumentID: r.DocumentID,
		ItemID:     r.ItemID,
		Quantity:   r.Quantity,
		Type:       r.Type,
		Amount:     r.Amount,
		Reason:     r.Reason,
	}
}
