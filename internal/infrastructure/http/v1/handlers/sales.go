package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles sale requests.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Create(c.Request.Context(), tenantID, userID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Get(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	rng, ok := h.DateRange(c)
	if !ok {
		return
	}

	docs, err := h.service.List(c.Request.Context(), tenantID, rng.From, rng.To)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(docs))
}

// Update handles PUT /sales/:id.
func (h *SaleHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Edit(c.Request.Context(), tenantID, saleID, userID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /sales/:id by voiding the sale.
func (h *SaleHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.Void(c.Request.Context(), tenantID, saleID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}
