package auth

import (
	"context"
	"testing"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/auth"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type memUsers struct {
	user.UserRepository
	byName    map[string]user.User
	lastLogin map[string]time.Time
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (user.User, error) {
	u, ok := m.byName[username]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	m.lastLogin[id] = at
	return nil
}

func newTestAuth(t *testing.T, users ...user.User) (*AuthServiceImpl, *memUsers, jwt.Service) {
	t.Helper()
	repo := &memUsers{byName: map[string]user.User{}, lastLogin: map[string]time.Time{}}
	for _, u := range users {
		repo.byName[u.Username] = u
	}
	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	svc := NewAuthService(repo, jwtService).(*AuthServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, jwtService
}

func testUser(t *testing.T, username string, role user.Role) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	return user.User{ID: "id-" + username, Username: username, PasswordHash: string(hash), Role: role, IsActive: true}
}

func TestLogin_Success(t *testing.T) {
	svc, repo, _ := newTestAuth(t, testUser(t, "alice", user.RoleUser))

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.CanEdit)
	assert.Contains(t, repo.lastLogin, "id-alice")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	inactive := testUser(t, "bob", user.RoleUser)
	inactive.IsActive = false
	svc, _, _ := newTestAuth(t, testUser(t, "alice", user.RoleUser), inactive)
	ctx := context.Background()

	_, err := svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Username: "bob", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_ExpiredAccount(t *testing.T) {
	past := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	expired := testUser(t, "carol", user.RoleUser)
	expired.ExpiresAt = &past
	expiredAdmin := testUser(t, "root", user.RoleAdmin)
	expiredAdmin.ExpiresAt = &past
	svc, _, _ := newTestAuth(t, expired, expiredAdmin)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "carol", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAccountExpired)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Username: "root", Password: "password123"})
	assert.NoError(t, err, "admin accounts never expire")
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, jwtService := newTestAuth(t, testUser(t, "alice", user.RoleUser))

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.False(t, jwtService.IsTokenRevoked(resp.AccessToken))

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, svc.Logout(context.Background(), "not-a-token"), auth.ErrInvalidToken)
}
