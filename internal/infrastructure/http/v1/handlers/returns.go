package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/documents/returns"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// ReturnHandler handles customer and supplier returns.
type ReturnHandler struct {
	*BaseHandler
	service *returns.Service
}

// NewReturnHandler creates a new return handler.
func NewReturnHandler(base *BaseHandler, service *returns.Service) *ReturnHandler {
	return &ReturnHandler{BaseHandler: base, service: service}
}

// CreateCustomer handles POST /returns/customers.
func (h *ReturnHandler) CreateCustomer(c *gin.Context) {
	h.create(c, h.service.ProcessCustomerReturn)
}

// CreateSupplier handles POST /returns/suppliers.
func (h *ReturnHandler) CreateSupplier(c *gin.Context) {
	h.create(c, h.service.ProcessSupplierReturn)
}

func (h *ReturnHandler) create(c *gin.Context, process func(context.Context, id.ID, string, returns.Input) (*returns.Return, error)) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ret, err := process(c.Request.Context(), tenantID, userID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, ret)
}

// ListCustomers handles GET /returns/customers.
func (h *ReturnHandler) ListCustomers(c *gin.Context) {
	h.list(c, counterparty.KindCustomer)
}

// ListSuppliers handles GET /returns/suppliers.
func (h *ReturnHandler) ListSuppliers(c *gin.Context) {
	h.list(c, counterparty.KindSupplier)
}

func (h *ReturnHandler) list(c *gin.Context, kind counterparty.Kind) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	rng, ok := h.DateRange(c)
	if !ok {
		return
	}

	rets, err := h.service.List(c.Request.Context(), tenantID, kind, rng.From, rng.To)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(rets))
}
