package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/auth"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/infrastructure/storage/memory"
	"ledgerpos/pkg/logger"
)

type apiFixture struct {
	router http.Handler
	store  *memory.Store
	jwt    *auth.JWTService
	tenant id.ID
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	st := memory.New()
	jwt := auth.NewJWTService(auth.DefaultJWTConfig("router-test"))
	r := NewRouter(RouterConfig{
		Logger:       logger.NewNop(),
		JWTValidator: jwt,
		Version:      "test",
		Services:     NewServices(st, time.UTC, 7),
	})
	return &apiFixture{router: r, store: st, jwt: jwt, tenant: id.New()}
}

func (f *apiFixture) token(t *testing.T, sub auth.Subject) string {
	t.Helper()
	if id.IsNil(sub.TenantID) {
		sub.TenantID = f.tenant
	}
	if sub.UserID == "" {
		sub.UserID = "cashier-1"
	}
	token, _, err := f.jwt.GenerateAccessToken(sub)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRouter_HealthLive(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/health/live", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
}

func TestRouter_MissingToken(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/sales", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperror.CodeUnauthorized, errorCode(t, rec))
}

func TestRouter_CreateSale(t *testing.T) {
	f := newAPIFixture(t)
	it := f.store.SeedItem(f.tenant, "Rice 1kg", "10", "3", "5")
	cust := f.store.SeedCounterparty(f.tenant, counterparty.KindCustomer, "Karim", "0")
	token := f.token(t, auth.Subject{Permissions: []string{"document:sale:create"}})

	rec := f.do(t, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"customerId": cust.ID,
		"items":      []map[string]any{{"itemId": it.ID, "quantity": "4"}},
		"paidAmount": "12",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sale struct {
		ID          id.ID       `json:"id"`
		Number      string      `json:"number"`
		TotalAmount types.Money `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	assert.False(t, id.IsNil(sale.ID))
	assert.NotEmpty(t, sale.Number)
	assert.True(t, types.MustMoney("20").Equal(sale.TotalAmount))
	assert.True(t, types.MustQuantity("6").Equal(f.store.Quantity(it.ID)))
	assert.True(t, types.MustMoney("8").Equal(f.store.Balance(counterparty.KindCustomer, cust.ID)))
}

func TestRouter_InsufficientStock(t *testing.T) {
	f := newAPIFixture(t)
	it := f.store.SeedItem(f.tenant, "Oil", "1", "3", "5")
	token := f.token(t, auth.Subject{IsAdmin: true})

	rec := f.do(t, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"items":      []map[string]any{{"itemId": it.ID, "quantity": "2"}},
		"paidAmount": "10",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, apperror.CodeInsufficientStock, errorCode(t, rec))
	assert.True(t, types.MustQuantity("1").Equal(f.store.Quantity(it.ID)))
}

func TestRouter_TenantMismatch(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, auth.Subject{IsAdmin: true})

	rec := f.do(t, http.MethodGet, "/api/v1/sales", token, nil, "X-Tenant-ID", id.New().String())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperror.CodeTenantMismatch, errorCode(t, rec))
}

func TestRouter_MatchingTenantHeader(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, auth.Subject{IsAdmin: true})

	rec := f.do(t, http.MethodGet, "/api/v1/sales", token, nil, "X-Tenant-ID", f.tenant.String())

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RoutePermission(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, auth.Subject{Permissions: []string{"document:sale:read"}})

	rec := f.do(t, http.MethodPost, "/api/v1/purchases", token, map[string]any{})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperror.CodeForbidden, errorCode(t, rec))
}

func TestRouter_ProfitPermission(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("without profit permission", func(t *testing.T) {
		token := f.token(t, auth.Subject{Permissions: []string{"report:read"}})
		rec := f.do(t, http.MethodGet, "/api/v1/reports/profit", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, apperror.CodeForbidden, errorCode(t, rec))
	})

	t.Run("with profit permission", func(t *testing.T) {
		token := f.token(t, auth.Subject{Permissions: []string{"report:read", "report:profit:read"}})
		rec := f.do(t, http.MethodGet, "/api/v1/reports/profit", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestRouter_TillCurrentWithoutShift(t *testing.T) {
	f := newAPIFixture(t)
	token := f.token(t, auth.Subject{IsAdmin: true})

	rec := f.do(t, http.MethodGet, "/api/v1/till/current", token, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
