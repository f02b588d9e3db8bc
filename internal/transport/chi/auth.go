package chi

import (
	"context"
	"net/http"
	"strings"
)

// Caller roles.
const (
	RoleTutor = "tutor"
	RoleAdmin = "admin"

	// roleAny marks requests admitted while authentication is disabled.
	roleAny = "*"
)

type roleCtxKey struct{}

// RoleFromContext returns the authenticated caller's role, or "" if none.
func RoleFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(roleCtxKey{}).(string); ok {
		return r
	}
	return ""
}

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens and
// attaches the token's role to the request context. tokenRoles maps a token
// to a role name. If tokenRoles is empty, authentication is disabled: every
// request passes and role checks are skipped.
func BearerAuthMiddleware(tokenRoles map[string]string) func(http.Handler) http.Handler {
	validTokens := make(map[string]string, len(tokenRoles))
	for token, role := range tokenRoles {
		if token != "" {
			validTokens[token] = role
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Auth disabled
			if len(validTokens) == 0 {
				ctx := context.WithValue(r.Context(), roleCtxKey{}, roleAny)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeBadRequest, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					codeBadRequest, "authorization header must use Bearer scheme")
				return
			}

			role, ok := validTokens[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, codeBadRequest, "invalid api key")
				return
			}

			ctx := context.WithValue(r.Context(), roleCtxKey{}, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole gates a handler on the caller's role. Admin passes every
// gate; roleAny (auth disabled) passes as well.
func (s *Server) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := RoleFromContext(r.Context())
		if got == roleAny || got == RoleAdmin || got == role {
			next(w, r)
			return
		}
		writeError(w, http.StatusForbidden, codeForbidden, role+" role required")
	}
}
