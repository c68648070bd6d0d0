package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkozel/shopfloor/internal/auth"
	"github.com/dkozel/shopfloor/internal/common"
	"github.com/dkozel/shopfloor/internal/docstore"
)

type userKey struct{}
type claimsKey struct{}

// UserFromContext returns the authenticated user record, if any.
func UserFromContext(ctx context.Context) (docstore.Record, bool) {
	user, ok := ctx.Value(userKey{}).(docstore.Record)
	return user, ok
}

// ClaimsFromContext returns the parsed token claims, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

// authenticate enforces bearer-token authentication: the token must parse,
// its session must still exist and be unexpired, and the user must still be
// active. The resolved user and claims land in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			writeError(w, common.ErrorUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, err)
			return
		}

		user, err := s.users.ValidateSession(r.Context(), claims)
		if err != nil {
			writeError(w, common.ErrorUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, user)
		ctx = context.WithValue(ctx, claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route group to the given roles. Must run after
// authenticate.
func requireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, common.ErrorUnauthorized)
				return
			}
			if !allowed[user.String("role")] {
				writeError(w, common.ErrorForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
