package httpserver

import (
	"net/http"
	"time"

	"auditgate/internal/platform/config"
)

// writeSlack leaves room to write the timeout response after the handler's
// own deadline fires.
const writeSlack = 5 * time.Second

// New builds the HTTP server. The write timeout follows the per-request
// timeout so a slow store lookup ends in a 504, not a reset connection.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + writeSlack,
		IdleTimeout:       60 * time.Second,
	}
}
