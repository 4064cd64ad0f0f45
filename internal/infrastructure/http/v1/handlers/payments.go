package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/documents/payment"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// PaymentHandler handles customer and supplier payments.
type PaymentHandler struct {
	*BaseHandler
	service *payment.Service
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(base *BaseHandler, service *payment.Service) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, service: service}
}

// CreateCustomer handles POST /payments/customers.
func (h *PaymentHandler) CreateCustomer(c *gin.Context) {
	h.create(c, h.service.RecordCustomerPayment)
}

// CreateSupplier handles POST /payments/suppliers.
func (h *PaymentHandler) CreateSupplier(c *gin.Context) {
	h.create(c, h.service.RecordSupplierPayment)
}

func (h *PaymentHandler) create(c *gin.Context, record func(context.Context, id.ID, string, payment.Input) (*payment.Payment, error)) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := record(c.Request.Context(), tenantID, userID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// ListCustomers handles GET /payments/customers.
func (h *PaymentHandler) ListCustomers(c *gin.Context) {
	h.list(c, counterparty.KindCustomer)
}

// ListSuppliers handles GET /payments/suppliers.
func (h *PaymentHandler) ListSuppliers(c *gin.Context) {
	h.list(c, counterparty.KindSupplier)
}

func (h *PaymentHandler) list(c *gin.Context, kind counterparty.Kind) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	rng, ok := h.DateRange(c)
	if !ok {
		return
	}
	var cpID *id.ID
	if raw := c.Query("counterpartyId"); raw != "" {
		parsed, err := id.ParseOptional(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "counterpartyId"))
			return
		}
		cpID = parsed
	}

	payments, err := h.service.List(c.Request.Context(), tenantID, kind, cpID, rng.From, rng.To)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(payments))
}
