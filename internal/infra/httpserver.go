package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer owns the listener lifecycle for the API process. Besides the
// usual graceful shutdown it runs registered drain hooks once in-flight
// requests have finished, so background work tied to request handling (such
// as analytics refreshes) completes before shared resources close.
type HTTPServer struct {
	server     *http.Server
	onShutdown []func()
}

// NewHTTPServer builds the server around the given handler with the
// configured timeouts.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	return &HTTPServer{server: srv}
}

// OnShutdown registers fn to run after the listener has drained. Hooks run
// in registration order and must not be registered after Start.
func (s *HTTPServer) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Start serves until Shutdown is called or the listener fails.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections, waits for in-flight requests up to
// the context deadline, then runs the drain hooks. Hooks run even when the
// drain times out, since callers are about to tear resources down anyway.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	for _, fn := range s.onShutdown {
		fn()
	}
	return err
}
