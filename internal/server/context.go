package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/credential"
	"github.com/teemow/motionmcp/internal/instrumentation"
	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/tasks"
)

// Options lists the dependencies held by a ServerContext.
type Options struct {
	Client  *motion.Client
	Service *tasks.Service
	// Store is the credential store the client reads from.
	Store credential.Store
	// Cache is closed on Shutdown. Optional.
	Cache *cache.Cache
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx     context.Context
	cancel  context.CancelFunc
	client  *motion.Client
	service *tasks.Service
	store   credential.Store
	cache   *cache.Cache

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("server context requires a task service")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("server context requires a credential store")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		client:  opts.Client,
		service: opts.Service,
		store:   opts.Store,
		cache:   opts.Cache,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the Motion API client
func (sc *ServerContext) Client() *motion.Client {
	return sc.client
}

// Tasks returns the task service
func (sc *ServerContext) Tasks() *tasks.Service {
	return sc.service
}

// Credentials returns the credential store
func (sc *ServerContext) Credentials() credential.Store {
	return sc.store
}

// Cache returns the response cache, or nil
func (sc *ServerContext) Cache() *cache.Cache {
	return sc.cache
}

// HasCredential reports whether an API key is configured
func (sc *ServerContext) HasCredential(ctx context.Context) bool {
	return credential.Has(ctx, sc.store)
}

// Metrics returns the metrics recorder, or nil when instrumentation is off
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder used by tool handlers
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is off
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger used by tool handlers
func (sc *ServerContext) SetAuditLogger(l *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = l
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context and closes the cache
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	if sc.cache != nil {
		if err := sc.cache.Close(); err != nil {
			return fmt.Errorf("failed to close cache: %w", err)
		}
	}
	return nil
}
