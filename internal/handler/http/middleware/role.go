package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/auth"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/handler/http/response"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(claims.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireEditable blocks writes from accounts whose expiry has passed. Their
// tokens stay valid for reads until the token itself expires.
func RequireEditable(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !claims.CanEdit(time.Now()) {
			response.HandleError(w, user.ErrAccountReadOnly)
			return
		}

		next.ServeHTTP(w, r)
	})
}
