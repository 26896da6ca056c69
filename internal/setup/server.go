package setup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	// #nosec G108 -- pprof debugging is intentionally enabled only on localhost
	_ "net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HTTPServer is a background HTTP server serving debug or metrics endpoints.
type HTTPServer struct {
	srv      *http.Server
	listener net.Listener
}

// startPprofServer serves the default mux, where pprof registers itself,
// on localhost only.
func startPprofServer(port int, logger *zap.Logger) (*HTTPServer, error) {
	return startHTTPServer(fmt.Sprintf("localhost:%d", port), http.DefaultServeMux, "pprof", logger)
}

// StartMetricsServer serves Prometheus metrics at /metrics on the given address.
func StartMetricsServer(addr string, logger *zap.Logger) (*HTTPServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return startHTTPServer(addr, mux, "metrics", logger)
}

// Addr returns the address the server listens on.
func (s *HTTPServer) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown stops the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func startHTTPServer(addr string, handler http.Handler, name string, logger *zap.Logger) (*HTTPServer, error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s listener: %w", name, err)
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("server", name), zap.String("address", listener.Addr().String()))

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.String("server", name), zap.Error(err))
		}
	}()

	return &HTTPServer{
		srv:      srv,
		listener: listener,
	}, nil
}
