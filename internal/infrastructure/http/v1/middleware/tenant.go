package middleware

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	appctx "ledgerpos/internal/core/context"
)

const (
	// TenantHeader is the HTTP header for tenant identification.
	TenantHeader = "X-Tenant-ID"
)

// TenantMatch rejects a request whose X-Tenant-ID header names a tenant other
// than the one in the token. The header is optional; the token is authoritative.
// Must run after Auth.
func TenantMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(TenantHeader)
		if header == "" {
			c.Next()
			return
		}

		tokenTenant := appctx.GetTenantID(c.Request.Context())
		if header != tokenTenant {
			_ = c.Error(apperror.NewTenantMismatch(tokenTenant, header))
			c.Abort()
			return
		}
		c.Next()
	}
}
