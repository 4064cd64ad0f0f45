package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	appctx "ledgerpos/internal/core/context"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/consistency"
	"ledgerpos/internal/domain/reports"
)

// ReportsHandler handles report requests.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
	checker *consistency.Checker
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service, checker *consistency.Checker) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service, checker: checker}
}

// DailyRevenue handles GET /reports/daily-revenue?days=.
func (h *ReportsHandler) DailyRevenue(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}

	rows, err := h.service.DailyRevenue(c.Request.Context(), tenantID, time.Now(), h.ParseIntQuery(c, "days", 0))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// PaymentMethods handles GET /reports/payment-methods?from=&to=.
func (h *ReportsHandler) PaymentMethods(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	rng, ok := h.DateRange(c)
	if !ok {
		return
	}

	rows, err := h.service.PaymentMethodTotals(c.Request.Context(), tenantID, rng)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// TopItems handles GET /reports/top-items?limit=&from=&to=.
func (h *ReportsHandler) TopItems(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	rng, ok := h.DateRange(c)
	if !ok {
		return
	}

	rows, err := h.service.TopItems(c.Request.Context(), tenantID, rng, h.ParseIntQuery(c, "limit", 10))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// Debtors handles GET /reports/debtors.
func (h *ReportsHandler) Debtors(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}

	list, err := h.service.Debtors(c.Request.Context(), tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, list)
}

// Creditors handles GET /reports/creditors.
func (h *ReportsHandler) Creditors(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}

	list, err := h.service.Creditors(c.Request.Context(), tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, list)
}

// Profit handles GET /reports/profit. The permission check lives in the
// service so a missing permission answers FORBIDDEN with the same body.
func (h *ReportsHandler) Profit(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	rng, ok := h.DateRange(c)
	if !ok {
		return
	}

	canView := appctx.HasPermission(c.Request.Context(), reports.PermissionViewProfit)
	p, err := h.service.Profit(c.Request.Context(), tenantID, rng, canView)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Consistency handles GET /reports/consistency?kind=customer|supplier.
func (h *ReportsHandler) Consistency(c *gin.Context) {
	tenantID, _, ok := h.Session(c)
	if !ok {
		return
	}
	kind := counterparty.KindCustomer
	if c.Query("kind") == string(counterparty.KindSupplier) {
		kind = counterparty.KindSupplier
	}

	report, err := h.checker.Check(c.Request.Context(), tenantID, kind)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}
