package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"auditgate/pkg/requestcontext"
)

// Header is echoed on every response and honoured when a caller supplies it.
const Header = "X-Request-ID"

const maxInboundLength = 128

// Middleware assigns a request ID, reusing a sane inbound value so traces can
// be correlated across the reverse proxy.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > maxInboundLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
