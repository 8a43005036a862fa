package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts sized for checklist traffic:
// answer batches are small JSON bodies and evaluations are CPU-bound, so
// anything hanging past a minute is a stuck client.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
