package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/motionmcp/internal/instrumentation"
	"github.com/teemow/motionmcp/internal/logging"
	"github.com/teemow/motionmcp/internal/resources"
	"github.com/teemow/motionmcp/internal/server"
	"github.com/teemow/motionmcp/internal/tools/motion_tools"
)

// serveConfig holds the serve command settings after flags and
// environment overrides have been applied.
type serveConfig struct {
	Transport        string
	HTTPAddr         string
	ReadOnly         bool
	DisableStreaming bool
	CacheBackend     string
	Metrics          MetricsConfig
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	cfg := serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Motion task
tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport at /mcp

Tools:
  list_tasks_today, list_tasks_tomorrow, list_tasks_next_week,
  search_tasks, filter_tasks, get_task_details, get_workspaces,
  get_projects and create_task. Use --read-only to hide create_task.

Resources:
  motion://workspaces

The API key is read from MOTION_API_KEY or the credentials file written
by "motionmcp auth set". Without one every tool answers with a
configuration error instead of failing to start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadServeEnvVars(cmd, &cfg)
			return runServe(cfg)
		},
	}

	addServeFlags(cmd, &cfg)

	return cmd
}

// addServeFlags binds the serve flags to cfg.
func addServeFlags(cmd *cobra.Command, cfg *serveConfig) {
	cmd.Flags().StringVar(&cfg.Transport, "transport", "stdio", "Transport type: stdio or streamable-http. Can also use MCP_TRANSPORT env var.")
	cmd.Flags().StringVar(&cfg.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport). Can also use MCP_HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&cfg.ReadOnly, "read-only", false, "Do not register create_task. Can also use MCP_READ_ONLY env var.")
	cmd.Flags().BoolVar(&cfg.DisableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().StringVar(&cfg.CacheBackend, "cache-backend", "", "Response cache backend: memory, file, sqlite or valkey (default from settings)")

	// Metrics server flags
	cmd.Flags().BoolVar(&cfg.Metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&cfg.Metrics.Addr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")
}

// loadServeEnvVars applies environment overrides. Environment variables
// only override flag values when the flag was not explicitly set.
func loadServeEnvVars(cmd *cobra.Command, cfg *serveConfig) {
	if !cmd.Flags().Changed("transport") {
		if transport := os.Getenv("MCP_TRANSPORT"); transport != "" {
			cfg.Transport = transport
		}
	}

	if !cmd.Flags().Changed("http-addr") {
		if addr := os.Getenv("MCP_HTTP_ADDR"); addr != "" {
			cfg.HTTPAddr = addr
		}
	}

	if !cmd.Flags().Changed("read-only") {
		if v, err := strconv.ParseBool(os.Getenv("MCP_READ_ONLY")); err == nil {
			cfg.ReadOnly = v
		}
	}

	if !cmd.Flags().Changed("metrics-enabled") {
		if v, err := strconv.ParseBool(os.Getenv("METRICS_ENABLED")); err == nil {
			cfg.Metrics.Enabled = v
		}
	}

	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			cfg.Metrics.Addr = addr
		}
	}
}

func runServe(cfg serveConfig) error {
	if cfg.Transport != "stdio" && cfg.Transport != "streamable-http" {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	a, err := newApp(shutdownCtx, appOptions{cacheBackend: cfg.CacheBackend, metrics: metrics})
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return err
	}
	logger := a.logger.With(slog.String("transport", cfg.Transport))

	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// The server context owns the cache from here on and closes it.
	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		Client:  a.client,
		Service: a.service,
		Store:   a.store,
		Cache:   a.cache,
	})
	if err != nil {
		_ = a.Close()
		return fmt.Errorf("failed to create server context: %w", err)
	}

	if provider.Enabled() {
		serverContext.SetMetrics(metrics)
		serverContext.SetAuditLogger(provider.NewAuditLogger(a.logger))
	}

	healthChecker := server.NewHealthChecker(serverContext)

	var metricsServer *server.MetricsServer
	defer func() {
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	if cfg.Transport != "stdio" && cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = startMetricsServer(cfg.Metrics, provider, healthChecker)
		if err != nil {
			return err
		}
		logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
	}

	mcpSrv := mcpserver.NewMCPServer("motionmcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	if err := registerAllTools(mcpSrv, serverContext, cfg.ReadOnly); err != nil {
		return err
	}

	if !serverContext.HasCredential(shutdownCtx) {
		logger.Warn("no Motion API key configured; tools will report a configuration error")
	}
	logger.Info("starting MCP server", slog.Bool("read_only", cfg.ReadOnly))

	switch cfg.Transport {
	case "stdio":
		healthChecker.SetReady(true)
		return runStdioServer(mcpSrv)
	default:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, cfg, healthChecker, metrics, logger)
	}
}

// startMetricsServer starts the metrics server and waits until it is
// listening.
func startMetricsServer(cfg MetricsConfig, provider *instrumentation.Provider, health *server.HealthChecker) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:     cfg.Addr,
		Provider: provider,
		Health:   health,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Motion tools",
			register: func() error {
				return motion_tools.RegisterMotionTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Motion resources",
			register: func() error {
				return resources.RegisterMotionResources(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, cfg serveConfig, health *server.HealthChecker, metrics *instrumentation.Metrics, logger *slog.Logger) error {
	httpServer := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		DisableStreaming: cfg.DisableStreaming,
		Health:           health,
		Metrics:          metrics,
	})

	ready := make(chan struct{})
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.StartWithReadySignal(cfg.HTTPAddr, ready); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ready:
		health.SetReady(true)
		logger.Info("streamable HTTP server listening",
			slog.String("addr", httpServer.Addr()),
			slog.String("endpoint", "/mcp"))
	case err := <-serverDone:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	}

	select {
	case <-ctx.Done():
		health.SetReady(false)
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
