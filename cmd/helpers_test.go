package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/config"
	"github.com/teemow/motionmcp/internal/credential"
	"github.com/teemow/motionmcp/internal/logging"
	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/server"
	"github.com/teemow/motionmcp/internal/tasks"
)

// fixedNow is Friday 2024-12-20 15:30 UTC.
var fixedNow = time.Date(2024, 12, 20, 15, 30, 0, 0, time.UTC)

// newTestApp wires an app against handler, which plays the Motion API.
// A nil handler answers 404 to everything.
func newTestApp(t *testing.T, apiKey string, handler http.HandlerFunc) *app {
	t.Helper()
	return newTestAppWithStore(t, credential.NewStaticStore(apiKey), handler)
}

func newTestAppWithStore(t *testing.T, store credential.Store, handler http.HandlerFunc) *app {
	t.Helper()
	if handler == nil {
		handler = http.NotFound
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL
	cfg.CredentialsFile = t.TempDir() + "/credentials.yaml"

	now := func() time.Time { return fixedNow }
	c := cache.New(cache.NewMemoryBackend(), cache.Options{Now: now})
	client, err := motion.NewClient(motion.Options{BaseURL: srv.URL, Credentials: store, Cache: c})
	require.NoError(t, err)

	return &app{
		cfg:    cfg,
		logger: logging.New(&bytes.Buffer{}, false),
		cache:  c,
		store:  store,
		client: client,
		service: tasks.NewService(tasks.ServiceOptions{
			API:      client,
			Cache:    c,
			Location: time.UTC,
			Now:      now,
		}),
	}
}

func newTestServerContext(t *testing.T, a *app) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Client:  a.client,
		Service: a.service,
		Store:   a.store,
		Cache:   a.cache,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

// useApp makes commands run against a.
func useApp(t *testing.T, a *app) {
	t.Helper()
	prev := openApp
	openApp = func(context.Context, appOptions) (*app, error) { return a, nil }
	t.Cleanup(func() { openApp = prev })
}

// execute runs cmd with args and returns what it printed.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
