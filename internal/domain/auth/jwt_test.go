package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/id"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	tenant := id.New()

	token, expiresAt, err := svc.GenerateAccessToken(Subject{
		UserID:      "u-42",
		TenantID:    tenant,
		Permissions: []string{"report:profit:read"},
	})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", user.UserID)
	assert.Equal(t, tenant.String(), user.TenantID)
	assert.True(t, user.HasPermission("report:profit:read"))
	assert.False(t, user.HasPermission("till:close"))
}

func TestJWT_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(Subject{UserID: "u", TenantID: id.New()})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_RejectsExpired(t *testing.T) {
	cfg := DefaultJWTConfig("s")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(Subject{UserID: "u", TenantID: id.New()})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateAccessToken_RequiresTenant(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("s"))
	_, _, err := svc.GenerateAccessToken(Subject{UserID: "u"})
	assert.Error(t, err)
}
