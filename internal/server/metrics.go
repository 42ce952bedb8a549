package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/teemow/motionmcp/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is where /metrics is served unless configured.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of either server.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServerConfig configures the metrics server.
type MetricsServerConfig struct {
	// Addr defaults to DefaultMetricsAddr.
	Addr string

	// Provider must be enabled and use the prometheus exporter.
	Provider *instrumentation.Provider

	// Health adds the probe endpoints next to /metrics. Optional; without
	// it /healthz answers a plain "ok".
	Health *HealthChecker
}

// MetricsServer serves Prometheus metrics on their own port, away from
// the MCP endpoint.
type MetricsServer struct {
	listener
}

// NewMetricsServer builds the /metrics mux. It does not listen yet.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	p := config.Provider
	switch {
	case p == nil:
		return nil, errors.New("instrumentation provider is required for metrics server")
	case !p.Enabled():
		return nil, errors.New("instrumentation provider is not enabled")
	case p.PrometheusHandler() == nil:
		return nil, errors.New("instrumentation provider does not export prometheus metrics")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", p.PrometheusHandler())
	if config.Health != nil {
		config.Health.RegisterHealthEndpoints(mux)
	} else {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	return &MetricsServer{listener: listener{
		handler:           mux,
		readHeaderTimeout: 10 * time.Second,
		writeTimeout:      10 * time.Second,
		idleTimeout:       60 * time.Second,
		addr:              addr,
	}}, nil
}

// Start serves until Shutdown.
func (s *MetricsServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal is Start, closing ready once the port is bound so
// callers can tell a bind failure from a running server.
func (s *MetricsServer) StartWithReadySignal(ready chan<- struct{}) error {
	slog.Info("starting metrics server", "addr", s.Addr())
	return s.serve(s.Addr(), ready)
}
