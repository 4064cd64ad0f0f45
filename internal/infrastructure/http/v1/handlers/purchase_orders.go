package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	po "ledgerpos/internal/domain/documents/purchase_order"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderHandler handles purchase order requests.
type PurchaseOrderHandler struct {
	*BaseHandler
	service *po.Service
}

// NewPurchaseOrderHandler creates a new purchase order handler.
func NewPurchaseOrderHandler(base *BaseHandler, service *po.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{BaseHandler: base, service: service}
}

// Create handles POST /purchase-orders.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.PurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Create(c.Request.Context(), tenantID, userID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, order)
}

// Get handles GET /purchase-orders/:id.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.Get(c.Request.Context(), tenantID, poID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// List handles GET /purchase-orders?status=.
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	var status *po.Status
	if raw := c.Query("status"); raw != "" {
		s := po.Status(raw)
		status = &s
	}

	orders, err := h.service.List(c.Request.Context(), tenantID, status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(orders))
}

// Update handles PUT /purchase-orders/:id.
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.PurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Update(c.Request.Context(), tenantID, poID, userID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// Send handles POST /purchase-orders/:id/send.
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	h.transition(c, h.service.MarkSent)
}

// Cancel handles POST /purchase-orders/:id/cancel.
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

type transitionFunc func(ctx context.Context, tenantID, poID id.ID, userID string) (*po.PurchaseOrder, error)

func (h *PurchaseOrderHandler) transition(c *gin.Context, fn transitionFunc) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), tenantID, poID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// Delete handles DELETE /purchase-orders/:id. Only drafts can be deleted.
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, poID, userID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Convert handles POST /purchase-orders/:id/convert.
func (h *PurchaseOrderHandler) Convert(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ConvertRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Convert(c.Request.Context(), tenantID, poID, userID, req.PaidAmount, req.PaymentMethod)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, res)
}
