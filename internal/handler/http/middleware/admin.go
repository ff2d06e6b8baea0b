package middleware

import (
	"net/http"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/auth"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/handler/http/response"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !claims.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
