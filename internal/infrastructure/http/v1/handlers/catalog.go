package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/item"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles item catalog requests.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// Create handles POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.Create(c.Request.Context(), tenantID, req.ToCreateInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, it)
}

// Update handles PUT /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.Update(c.Request.Context(), tenantID, itemID, req.ToUpdateInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	it, err := h.service.Get(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// List handles GET /items.
func (h *ItemHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// CounterpartyHandler handles the customer or supplier catalog.
type CounterpartyHandler struct {
	*BaseHandler
	service *counterparty.Service
	kind    counterparty.Kind
}

// NewCounterpartyHandler creates a handler bound to one kind.
func NewCounterpartyHandler(base *BaseHandler, service *counterparty.Service, kind counterparty.Kind) *CounterpartyHandler {
	return &CounterpartyHandler{BaseHandler: base, service: service, kind: kind}
}

// Create handles POST /customers and POST /suppliers.
func (h *CounterpartyHandler) Create(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.CounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp, err := h.service.Create(c.Request.Context(), tenantID, h.kind, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cp)
}

// Get handles GET /customers/:id and GET /suppliers/:id.
func (h *CounterpartyHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	cpID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	cp, err := h.service.Get(c.Request.Context(), tenantID, h.kind, cpID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cp)
}

// List handles GET /customers and GET /suppliers.
func (h *CounterpartyHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), tenantID, h.kind)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}
