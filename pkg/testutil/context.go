package testutil

import (
	"net/http"
	"time"

	"auditgate/pkg/requestcontext"
)

// WithRequestTime pins the request-scoped clock, as the requesttime
// middleware would.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithClient sets the client address and user agent, as the metadata
// middleware would.
func WithClient(req *http.Request, addr, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), addr, userAgent))
}
