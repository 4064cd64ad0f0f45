package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/domain/till"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// TillHandler handles the caller's cash register shift.
type TillHandler struct {
	*BaseHandler
	service *till.Service
}

// NewTillHandler creates a new till handler.
func NewTillHandler(base *BaseHandler, service *till.Service) *TillHandler {
	return &TillHandler{BaseHandler: base, service: service}
}

// Open handles POST /till/open.
func (h *TillHandler) Open(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.OpenShiftRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shift, err := h.service.Open(c.Request.Context(), tenantID, userID, req.OpeningFloat)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, shift)
}

// Current handles GET /till/current. Without an open shift it answers 204.
func (h *TillHandler) Current(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}

	totals, err := h.service.RunningTotals(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if totals == nil {
		h.NoContent(c)
		return
	}
	h.OK(c, totals)
}

// Close handles POST /till/close.
func (h *TillHandler) Close(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.CloseShiftRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shift, err := h.service.Close(c.Request.Context(), tenantID, userID, req.ClosingCount, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, shift)
}

// History handles GET /till/history?limit=.
func (h *TillHandler) History(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}

	shifts, err := h.service.History(c.Request.Context(), tenantID, userID, h.ParseIntQuery(c, "limit", 20))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(shifts))
}

// RecordExpense handles POST /till/expenses.
func (h *TillHandler) RecordExpense(c *gin.Context) {
	tenantID, userID, ok := h.Session(c)
	if !ok {
		return
	}
	var req dto.ExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.service.RecordExpense(c.Request.Context(), tenantID, userID, req.Amount, req.Category, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, e)
}
