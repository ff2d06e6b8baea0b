package jwt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims is the identity carried by an access token.
type Claims struct {
	UserID           string
	Username         string
	Role             user.Role
	AccountExpiresAt *time.Time
}

// IsAdmin checks if the token belongs to an administrator
func (c Claims) IsAdmin() bool {
	return c.Role == user.RoleAdmin
}

// CanEdit reports whether the account behind the token may write at now.
func (c Claims) CanEdit(now time.Time) bool {
	if c.IsAdmin() || c.AccountExpiresAt == nil {
		return true
	}
	return !now.After(*c.AccountExpiresAt)
}

// RuleScope is the settings scope the holder reads and writes. Admins work
// on the system rows (nil), everyone else on their own rows.
func (c Claims) RuleScope() *string {
	if c.IsAdmin() {
		return nil
	}
	id := c.UserID
	return &id
}

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"type":     "access",
		"exp":      expiresAt,
	}
	if u.ExpiresAt != nil {
		claims["account_expires_at"] = u.ExpiresAt.Unix()
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken remembers token until its own expiry. Expired entries are
// dropped on each call.
func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now().Unix()
	for t, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

var ErrMissingClaims = errors.New("token claims are missing or invalid")

// ClaimsFromContext reads the verified access token claims placed in ctx by
// jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := raw["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, ErrMissingClaims
	}
	role, _ := raw["role"].(string)
	username, _ := raw["username"].(string)

	c := Claims{
		UserID:   userID,
		Username: username,
		Role:     user.Role(role),
	}
	// Numeric claims decode as float64 from the wire.
	switch exp := raw["account_expires_at"].(type) {
	case float64:
		t := time.Unix(int64(exp), 0)
		c.AccountExpiresAt = &t
	case int64:
		t := time.Unix(exp, 0)
		c.AccountExpiresAt = &t
	case int:
		t := time.Unix(int64(exp), 0)
		c.AccountExpiresAt = &t
	}
	return c, nil
}

// WithClaims returns a context carrying a token for c, for callers running
// outside an HTTP request such as tests.
func WithClaims(ctx context.Context, ja *jwtauth.JWTAuth, c Claims) (context.Context, error) {
	claims := map[string]interface{}{
		"user_id":  c.UserID,
		"username": c.Username,
		"role":     string(c.Role),
		"type":     "access",
	}
	if c.AccountExpiresAt != nil {
		claims["account_expires_at"] = c.AccountExpiresAt.Unix()
	}
	token, _, err := ja.Encode(claims)
	if err != nil {
		return ctx, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}
