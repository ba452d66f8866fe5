package middleware

import (
	"net/http"

	"belezure-api/pkg/response"
	"belezure-api/pkg/session"
)

// RequireUserType lets the request through only for the given user types.
// Must run after Authenticate.
func RequireUserType(allowed ...session.UserType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Session not found")
				return
			}

			for _, t := range allowed {
				if sess.UserType == t {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireClient is a convenience middleware for client-only endpoints
func RequireClient(next http.Handler) http.Handler {
	return RequireUserType(session.UserTypeClient)(next)
}

// RequireProvider is a convenience middleware for provider-only endpoints
func RequireProvider(next http.Handler) http.Handler {
	return RequireUserType(session.UserTypeProvider)(next)
}
