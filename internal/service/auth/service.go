package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/auth"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	now func() time.Time
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		now:            time.Now,
	}
}

// Login implements auth.AuthService. Unknown, wrong-password and inactive
// accounts all get ErrInvalidCredentials.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByUsername(ctx, loginReq.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	now := a.now()
	if userData.IsExpired(now) {
		return auth.TokenResponse{}, auth.ErrAccountExpired
	}

	accessToken, expiresAt, err := a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	if err := a.UserRepository.UpdateLastLogin(ctx, userData.ID, now); err != nil {
		slog.WarnContext(ctx, "failed to record last login", "user_id", userData.ID, "error", err)
	}
	userData.LastLoginAt = &now

	return auth.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user.NewUserResponse(userData, now),
	}, nil
}

// Logout implements auth.AuthService. The token stays revoked until it expires.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	parsed, err := a.Service.JWTAuth().Decode(token)
	if err != nil {
		return fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}

	a.Service.RevokeToken(token, parsed.Expiration().Unix())
	slog.InfoContext(ctx, "token revoked", "expires_at", parsed.Expiration())
	return nil
}
