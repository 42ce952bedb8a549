package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/config"
	"github.com/teemow/motionmcp/internal/credential"
	"github.com/teemow/motionmcp/internal/instrumentation"
	"github.com/teemow/motionmcp/internal/logging"
	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/tasks"
)

// appOptions tweaks how newApp wires the application.
type appOptions struct {
	// cacheBackend overrides the configured backend when non-empty.
	cacheBackend string
	// metrics receives client and cache events. Optional.
	metrics *instrumentation.Metrics
}

// app holds everything a command needs to talk to Motion.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	cache   *cache.Cache
	store   credential.Store
	client  *motion.Client
	service *tasks.Service
}

// openApp builds the app for CLI commands. Tests replace it.
var openApp = newApp

// newApp loads the settings and builds cache, credential store, client and
// task service. Close releases the cache backend.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.cacheBackend != "" {
		cfg.Cache.Backend = opts.cacheBackend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger := logging.New(os.Stderr, debugMode)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	backend, err := cache.Open(ctx, cfg.CacheBackend())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", cfg.Cache.Backend, err)
	}
	respCache := cache.New(backend, cache.Options{
		TTLs:     cfg.CacheTTLs(),
		Logger:   logger,
		Recorder: opts.metrics,
	})

	store, err := newCredentialStore(cfg, respCache, logger)
	if err != nil {
		_ = respCache.Close()
		return nil, err
	}

	client, err := motion.NewClient(motion.Options{
		BaseURL:     cfg.APIBaseURL,
		HTTPClient:  newHTTPClient(cfg.HTTPTimeout),
		Credentials: store,
		Cache:       respCache,
		Logger:      logger,
		Metrics:     opts.metrics,
		MaxPages:    cfg.MaxPages,
		UserAgent:   "motionmcp/" + version,
	})
	if err != nil {
		_ = respCache.Close()
		return nil, fmt.Errorf("failed to create Motion client: %w", err)
	}

	service := tasks.NewService(tasks.ServiceOptions{
		API:      client,
		Cache:    respCache,
		Location: loc,
		Logger:   logger,
	})

	logger.Debug("configuration loaded",
		slog.String("config", path),
		slog.String("cache_backend", cfg.Cache.Backend),
		slog.String("api_base_url", cfg.APIBaseURL))

	return &app{
		cfg:     cfg,
		logger:  logger,
		cache:   respCache,
		store:   store,
		client:  client,
		service: service,
	}, nil
}

// newCredentialStore prefers MOTION_API_KEY; otherwise the key lives in the
// credentials file, sealed when an encryption key is configured.
func newCredentialStore(cfg *config.Config, inv credential.Invalidator, logger logging.Logger) (credential.Store, error) {
	if cfg.APIKey != "" {
		return credential.NewStaticStore(cfg.APIKey), nil
	}
	enc, err := cfg.Encryption()
	if err != nil {
		return nil, fmt.Errorf("failed to set up credential encryption: %w", err)
	}
	return credential.NewFileStore(cfg.CredentialsFile, credential.FileStoreOptions{
		Encryption:  enc,
		Invalidator: inv,
		Logger:      logger,
	}), nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (a *app) Close() error {
	return a.cache.Close()
}
