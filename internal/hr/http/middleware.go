package http

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/peoplepulse/peoplepulse/internal/hr/domain"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/pkg/httpx"
	"github.com/peoplepulse/peoplepulse/pkg/slogx"
)

// authenticate verifies the bearer token and resolves it to a live
// principal. The token carries only the user id; the user and company rows
// are read fresh on every request, so deactivating either takes effect
// immediately.
func (rt *Router) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

		claims, err := rt.tokens.Verify(raw)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		principal, err := rt.store.Users().GetPrincipal(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Deleted or deactivated since the token was minted.
				writeError(w, http.StatusUnauthorized, "Invalid token - user not found")
				return
			}
			rt.writeServerError(w, r, err)
			return
		}

		ctx := withPrincipal(r.Context(), principal)
		ctx = context.WithValue(ctx, httpx.CtxKeyUserID, principal.User.ID)
		ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With(
			"user_id", principal.User.ID,
			"company_id", principal.Company.ID,
		))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tenantIsolation guards that an authenticated principal carries a company
// context before any tenant-scoped handler runs.
func tenantIsolation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFrom(r.Context())
		if !ok || p.Company.ID == "" {
			writeError(w, http.StatusUnauthorized, "Company context required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole gates a route to the given roles.
func requireRole(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principalFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !slices.Contains(roles, p.User.Role) {
				required := make([]string, len(roles))
				for i, role := range roles {
					required[i] = string(role)
				}
				httpx.WriteJSON(w, http.StatusForbidden, errorBody{
					Error:    "Insufficient permissions",
					Required: required,
					Current:  string(p.User.Role),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireElevated gates a route to admin and hr.
func requireElevated() httpx.Middleware {
	return requireRole(domain.ElevatedRoles...)
}
