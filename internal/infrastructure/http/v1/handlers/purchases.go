package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles purchase requests.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

// Create handles POST /purchases.
func (h *PurchaseHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.PurchaseRequest
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

// Get handles GET /purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Get(c.Request.Context(), tenantID, purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// List handles GET /purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
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

// Update handles PUT /purchases/:id.
func (h *PurchaseHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.PurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Edit(c.Request.Context(), tenantID, purchaseID, userID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /purchases/:id by voiding the purchase.
func (h *PurchaseHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.Void(c.Request.Context(), tenantID, purchaseID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}
