package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/motionmcp/internal/cache"
)

const initializeRequest = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`

func newTestMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("motionmcp", "test", mcpserver.WithToolCapabilities(true))
}

func TestHTTPServer_MCPEndpoint(t *testing.T) {
	srv := NewHTTPServer(newTestMCPServer(), HTTPServerConfig{DisableStreaming: true})

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(initializeRequest))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "protocolVersion")
	assert.Contains(t, rec.Body.String(), "motionmcp")
}

func TestHTTPServer_HealthEndpoints(t *testing.T) {
	sc := newTestContext(t, "key", cache.NewMemoryBackend())
	health := NewHealthChecker(sc)
	health.SetReady(true)

	srv := NewHTTPServer(newTestMCPServer(), HTTPServerConfig{
		Health:  health,
		Metrics: createTestProvider(t).Metrics(),
	})

	code, body := getJSON(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, _ = getJSON(t, srv.Handler(), "/readyz")
	assert.Equal(t, http.StatusOK, code)
}

func TestHTTPServer_WithoutHealth(t *testing.T) {
	srv := NewHTTPServer(newTestMCPServer(), HTTPServerConfig{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPServer_StartAndShutdown(t *testing.T) {
	srv := NewHTTPServer(newTestMCPServer(), HTTPServerConfig{})

	ready := make(chan struct{})
	errCh := make(chan error, 1)
	go func() { errCh <- srv.StartWithReadySignal("127.0.0.1:0", ready) }()

	select {
	case <-ready:
	case err := <-errCh:
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	require.NotEmpty(t, srv.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.ErrorIs(t, <-errCh, http.ErrServerClosed)
}

func TestHTTPServer_ShutdownBeforeStart(t *testing.T) {
	srv := NewHTTPServer(newTestMCPServer(), HTTPServerConfig{})
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
	sr.WriteHeader(http.StatusTeapot)
	sr.Flush()

	assert.Equal(t, http.StatusTeapot, sr.status)
	assert.True(t, rec.Flushed)
}
