package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func requestAs(t *testing.T, c jwt.Claims) *http.Request {
	t.Helper()
	ctx, err := jwt.WithClaims(context.Background(), jwtauth.New("HS256", []byte("secret"), nil), c)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/", nil).WithContext(ctx)
}

func TestAdminOnly(t *testing.T) {
	w := httptest.NewRecorder()
	AdminOnly(okHandler).ServeHTTP(w, requestAs(t, jwt.Claims{UserID: "a1", Role: user.RoleAdmin}))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	AdminOnly(okHandler).ServeHTTP(w, requestAs(t, jwt.Claims{UserID: "u1", Role: user.RoleUser}))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnly_NoToken(t *testing.T) {
	w := httptest.NewRecorder()
	AdminOnly(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission(t *testing.T) {
	mw := RequirePermission(user.PermissionReportsViewProfit)

	w := httptest.NewRecorder()
	mw(okHandler).ServeHTTP(w, requestAs(t, jwt.Claims{UserID: "u1", Role: user.RoleUser}))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "reports.view_profit")

	w = httptest.NewRecorder()
	mw(okHandler).ServeHTTP(w, requestAs(t, jwt.Claims{UserID: "a1", Role: user.RoleAdmin}))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireEditable(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		claims jwt.Claims
		status int
	}{
		{"no expiry", jwt.Claims{UserID: "u1", Role: user.RoleUser}, http.StatusNoContent},
		{"not yet expired", jwt.Claims{UserID: "u1", Role: user.RoleUser, AccountExpiresAt: &future}, http.StatusNoContent},
		{"expired user", jwt.Claims{UserID: "u1", Role: user.RoleUser, AccountExpiresAt: &past}, http.StatusForbidden},
		{"admin ignores expiry", jwt.Claims{UserID: "a1", Role: user.RoleAdmin, AccountExpiresAt: &past}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RequireEditable(okHandler).ServeHTTP(w, requestAs(t, tt.claims))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimit_InvalidFormat(t *testing.T) {
	_, err := RateLimit("ten per minute")
	assert.Error(t, err)
}
