// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/pkg/logger"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR response.
// The panic value, route and stack are logged; the context logger adds the
// session's tenant_id and user_id. The client only sees the request id.
//
// Recovery runs outside ErrorHandler, whose post-processing is skipped while
// a panic unwinds, so it writes the response itself.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			ctx := c.Request.Context()
			logger.Error(ctx, "panic recovered",
				"panic", p,
				"method", c.Request.Method,
				"path", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			appErr := apperror.NewInternal(fmt.Errorf("panic: %v", p)).
				WithDetail("request_id", c.GetString("request_id"))
			_ = c.Error(appErr)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			})
		}()
		c.Next()
	}
}
