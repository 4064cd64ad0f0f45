// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	appctx "ledgerpos/internal/core/context"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseID parses a UUID path parameter.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (id.ID, bool) {
	raw := c.Param(param)
	v, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").
			WithDetail("field", param).
			WithDetail("value", raw))
		return id.Nil(), false
	}
	return v, true
}

// Session returns the tenant and user of the authenticated caller.
func (h *BaseHandler) Session(c *gin.Context) (id.ID, string, bool) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return id.Nil(), "", false
	}
	tenantID, err := id.Parse(user.TenantID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("token has no tenant"))
		return id.Nil(), "", false
	}
	return tenantID, user.UserID, true
}

// DateRange binds the optional from/to query.
func (h *BaseHandler) DateRange(c *gin.Context) (reports.DateRange, bool) {
	var q dto.DateRangeQuery
	if !h.BindQuery(c, &q) {
		return reports.DateRange{}, false
	}
	rng := reports.DateRange{From: q.From, To: q.To}
	if err := rng.Validate(); err != nil {
		h.Error(c, err)
		return rng, false
	}
	return rng, true
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
