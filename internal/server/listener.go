package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// listener runs one http.Server on a TCP address. It is shared by the MCP
// transport and the metrics server.
type listener struct {
	handler           http.Handler
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration

	mu   sync.Mutex
	addr string
	srv  *http.Server
}

// Handler returns the root handler.
func (l *listener) Handler() http.Handler {
	return l.handler
}

// serve binds addr, closes ready (when non-nil) and serves until Shutdown.
// A failed bind returns before ready is closed.
func (l *listener) serve(addr string, ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           l.handler,
		ReadHeaderTimeout: l.readHeaderTimeout,
		WriteTimeout:      l.writeTimeout,
		IdleTimeout:       l.idleTimeout,
	}

	l.mu.Lock()
	l.addr = ln.Addr().String()
	l.srv = srv
	l.mu.Unlock()

	if ready != nil {
		close(ready)
	}
	return srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for active requests.
// It is a no-op before the server was started.
func (l *listener) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	srv := l.srv
	l.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Addr is the bound address once started, the configured one before.
func (l *listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addr
}
