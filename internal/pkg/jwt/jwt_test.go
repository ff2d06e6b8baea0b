package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_ClaimsRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	token, exp, err := svc.GenerateAccessToken(user.User{ID: "u1", Username: "alice", Role: user.RoleUser, ExpiresAt: &expires})
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), parsed, nil)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, user.RoleUser, claims.Role)
	require.NotNil(t, claims.AccountExpiresAt)
	assert.True(t, expires.Equal(*claims.AccountExpiresAt))
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")
	_, _, err := svc.GenerateAccessToken(user.User{ID: "u1"})
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	assert.False(t, svc.IsTokenRevoked("a"))
	svc.RevokeToken("a", time.Now().Add(time.Hour).Unix())
	assert.True(t, svc.IsTokenRevoked("a"))

	// Entries past their expiry are pruned on the next revoke.
	svc.RevokeToken("old", time.Now().Add(-time.Hour).Unix())
	svc.RevokeToken("b", time.Now().Add(time.Hour).Unix())
	assert.False(t, svc.IsTokenRevoked("old"))
	assert.True(t, svc.IsTokenRevoked("a"))
}

func TestClaimsFromContext_Missing(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.ErrorIs(t, err, ErrMissingClaims)
}

func TestClaims_RuleScope(t *testing.T) {
	assert.Nil(t, Claims{UserID: "a1", Role: user.RoleAdmin}.RuleScope())

	scope := Claims{UserID: "u1", Role: user.RoleUser}.RuleScope()
	require.NotNil(t, scope)
	assert.Equal(t, "u1", *scope)
}

func TestClaims_CanEdit(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Second)
	after := now.Add(time.Second)

	assert.True(t, Claims{Role: user.RoleUser}.CanEdit(now))
	assert.True(t, Claims{Role: user.RoleUser, AccountExpiresAt: &after}.CanEdit(now))
	assert.True(t, Claims{Role: user.RoleUser, AccountExpiresAt: &now}.CanEdit(now))
	assert.False(t, Claims{Role: user.RoleUser, AccountExpiresAt: &before}.CanEdit(now))
	assert.True(t, Claims{Role: user.RoleAdmin, AccountExpiresAt: &before}.CanEdit(now))
}

func TestWithClaims(t *testing.T) {
	ctx, err := WithClaims(context.Background(), jwtauth.New("HS256", []byte("secret"), nil), Claims{UserID: "u9", Role: user.RoleAdmin})
	require.NoError(t, err)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u9", claims.UserID)
	assert.True(t, claims.IsAdmin())
}
