package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/auth"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	loginResp auth.TokenResponse
	loginErr  error
	revoked   []string
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if f.loginErr != nil {
		return auth.TokenResponse{}, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

type fakeUserService struct {
	user.UserService
	me user.UserResponse
}

func (f *fakeUserService) Me(ctx context.Context) (user.UserResponse, error) {
	return f.me, nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// ===== HANDLER TESTS =====

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &fakeAuthService{loginResp: auth.TokenResponse{AccessToken: "tok", TokenType: "Bearer"}}
	handler := NewAuthHandler(svc, &fakeUserService{})

	body, _ := json.Marshal(auth.LoginRequest{Username: "alice", Password: "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["access_token"])
	assert.Equal(t, "Bearer", data["token_type"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{loginErr: auth.ErrInvalidCredentials}, &fakeUserService{})

	body, _ := json.Marshal(auth.LoginRequest{Username: "alice", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeBody(t, w)
	assert.False(t, resp["success"].(bool))
}

func TestAuthHandler_Login_ExpiredAccount(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{loginErr: auth.ErrAccountExpired}, &fakeUserService{})

	body, _ := json.Marshal(auth.LoginRequest{Username: "alice", Password: "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{}, &fakeUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	handler := NewAuthHandler(svc, &fakeUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"abc.def.ghi"}, svc.revoked)
}

func TestAuthHandler_Logout_MissingToken(t *testing.T) {
	svc := &fakeAuthService{}
	handler := NewAuthHandler(svc, &fakeUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.revoked)
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{}, &fakeUserService{me: user.UserResponse{ID: "u1", Username: "alice", Role: user.RoleUser}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()

	handler.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["username"])
}
