package admin

import (
	"log/slog"
	"net/http"

	"auditgate/pkg/platform/secrets"
	"auditgate/pkg/requestcontext"
)

// HeaderAdminKey carries the operator secret on admin and admission requests.
const HeaderAdminKey = "X-Admin-Key"

// KeyMatches compares a presented admin key against the configured one in
// constant time. An empty configured key never matches, so an unset secret
// disables every admin path instead of accepting empty headers.
func KeyMatches(presented, expected string) bool {
	return secrets.Equal(presented, expected)
}

// RequireAdminKey rejects requests whose X-Admin-Key does not match expectedKey.
func RequireAdminKey(expectedKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !KeyMatches(r.Header.Get(HeaderAdminKey), expectedKey) {
				ctx := r.Context()
				if logger != nil {
					logger.WarnContext(ctx, "admin key mismatch",
						"request_id", requestcontext.RequestID(ctx),
						"client_ip", requestcontext.ClientIP(ctx),
					)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin key required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
