package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer wraps http.Server with the timeout profile this service
// needs: the write timeout must outlast a full generation attempt, which
// routinely takes 60-90 seconds at the provider.
type HTTPServer struct {
	server *http.Server
}

func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{server: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}}
}

// Addr returns the listen address, mostly for startup logging.
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *HTTPServer) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests. The caller bounds the wait; a
// pending generation that exceeds it is dropped with the connection.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
