package middleware

import (
	"net/http"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
	"github.com/edustride/crm-backend/pkg/logger"
)

// RequireModule gates a route on the caller's module permission. op may be
// empty for view-level access. The auth middleware must run first; a missing
// identity context is unauthenticated, an insufficient one is forbidden, and
// the two are never conflated.
func RequireModule(resolver *auth.Resolver, module string, op auth.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				writeAccessError(w, internal.ErrNoToken)
				return
			}

			if !resolver.CanAccessModule(user, module, op) {
				logger.From(r.Context()).Warn("module access denied",
					"user_id", user.ID,
					"role", user.Role,
					"module", module,
					"operation", string(op))
				if op == "" {
					writeAccessError(w, internal.ErrModuleForbidden)
				} else {
					writeAccessError(w, internal.ErrOperationForbidden)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireMinimumRole gates a route on role rank. Satisfied when the caller's
// rank meets the highest-ranked role in the set, or on an exact role match.
func RequireMinimumRole(resolver *auth.Resolver, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				writeAccessError(w, internal.ErrNoToken)
				return
			}

			if !resolver.HasMinimumRole(user, roles...) {
				logger.From(r.Context()).Warn("role check denied",
					"user_id", user.ID,
					"role", user.Role,
					"required", roles)
				writeAccessError(w, internal.ErrRoleForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAccessError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSONBody(w, body)
}
