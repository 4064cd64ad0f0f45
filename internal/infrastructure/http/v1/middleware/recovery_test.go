package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ledgerpos/internal/core/apperror"
	appctx "ledgerpos/internal/core/context"
	"ledgerpos/pkg/logger"
)

func newPanickingRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.ErrorLevel)
	l := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), l))
		c.Next()
	})
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{UserID: "cashier-1", TenantID: "t-1"})
		c.Request = c.Request.WithContext(ctx)
		panic("nil map write")
	})
	r.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusAccepted, "started")
		panic("after write")
	})
	return r, logs
}

func TestRecovery_RespondsWithInternalError(t *testing.T) {
	r, logs := newPanickingRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	require.NotPanics(t, func() { r.ServeHTTP(w, req) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Equal(t, "req-42", body.Details["request_id"])
	assert.NotContains(t, w.Body.String(), "nil map write")

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "t-1", fields["tenant_id"])
	assert.Equal(t, "cashier-1", fields["user_id"])
	assert.Equal(t, "/boom", fields["path"])
	assert.Equal(t, "nil map write", fields["panic"])
}

func TestRecovery_KeepsWrittenResponse(t *testing.T) {
	r, logs := newPanickingRouter(t)

	w := httptest.NewRecorder()
	require.NotPanics(t, func() { r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil)) })

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "started", w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
