package server

import (
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/motionmcp/internal/instrumentation"
)

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	// DisableStreaming answers every request with a single JSON response,
	// for clients that cannot consume server-sent events.
	DisableStreaming bool

	// Health registers /healthz, /readyz and /healthz/detailed. Optional.
	Health *HealthChecker

	// Metrics records one http_requests_total sample per request. Optional.
	Metrics *instrumentation.Metrics
}

// HTTPServer serves the MCP endpoint at /mcp over streamable HTTP.
type HTTPServer struct {
	listener
}

// NewHTTPServer builds the HTTP transport for mcpSrv.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, config HTTPServerConfig) *HTTPServer {
	opts := []mcpserver.StreamableHTTPOption{mcpserver.WithEndpointPath("/mcp")}
	if config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv, opts...))
	if config.Health != nil {
		config.Health.RegisterHealthEndpoints(mux)
	}

	// No write timeout: streamed responses stay open for the whole call.
	return &HTTPServer{listener: listener{
		handler:           instrumentHTTP(mux, config.Metrics),
		readHeaderTimeout: 10 * time.Second,
		idleTimeout:       120 * time.Second,
	}}
}

// Start listens on addr and serves until Shutdown.
func (s *HTTPServer) Start(addr string) error {
	return s.serve(addr, nil)
}

// StartWithReadySignal is Start, closing ready once the listener is bound.
func (s *HTTPServer) StartWithReadySignal(addr string, ready chan<- struct{}) error {
	return s.serve(addr, ready)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent events working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func instrumentHTTP(next http.Handler, metrics *instrumentation.Metrics) http.Handler {
	if metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
