package motion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/credential"
	"github.com/teemow/motionmcp/internal/instrumentation"
	"github.com/teemow/motionmcp/internal/logging"
)

const (
	// DefaultBaseURL is the Motion REST API root.
	DefaultBaseURL = "https://api.usemotion.com/v1"

	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 16 << 20
)

// MetricsRecorder receives per-operation API metrics.
type MetricsRecorder interface {
	RecordAPIOperation(ctx context.Context, operation, status string, duration time.Duration)
	RecordPaginationPages(ctx context.Context, pages int)
}

// Options configures a Client.
type Options struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// HTTPClient defaults to a client with DefaultTimeout. Its transport is
	// wrapped for tracing.
	HTTPClient *http.Client
	// Credentials supplies the API key on every call. Required.
	Credentials credential.Store
	// Cache is optional; without it every call goes to the network.
	Cache *cache.Cache
	// Logger defaults to a discarding logger.
	Logger logging.Logger
	// Metrics is optional.
	Metrics MetricsRecorder
	// MaxPages bounds ListAllTasks. Zero means unbounded.
	MaxPages int
	// UserAgent is sent with every request.
	UserAgent string
}

// Client talks to the Motion REST API.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     credential.Store
	cache     *cache.Cache
	logger    logging.Logger
	metrics   MetricsRecorder
	maxPages  int
	userAgent string
}

// NewClient returns a Client for opts.
func NewClient(opts Options) (*Client, error) {
	if opts.Credentials == nil {
		return nil, fmt.Errorf("motion client requires a credential store")
	}
	if opts.MaxPages < 0 {
		return nil, fmt.Errorf("max pages must not be negative, got %d", opts.MaxPages)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "motionmcp"
	}

	var hc http.Client
	if opts.HTTPClient != nil {
		hc = *opts.HTTPClient
	} else {
		hc.Timeout = DefaultTimeout
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(base)

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      &hc,
		creds:     opts.Credentials,
		cache:     opts.Cache,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		maxPages:  opts.MaxPages,
		userAgent: opts.UserAgent,
	}, nil
}

// CallOption adjusts a single client call.
type CallOption func(*callOptions)

type callOptions struct {
	skipCache bool
}

// SkipCache bypasses the cache for reads and does not store the response.
func SkipCache() CallOption {
	return func(o *callOptions) { o.skipCache = true }
}

// CacheSkipped reports whether opts include SkipCache. Layers that keep
// their own derived cache entries use it to honour a forced refresh.
func CacheSkipped(opts []CallOption) bool {
	return applyOptions(opts).skipCache
}

func applyOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential(ctx context.Context) bool {
	return credential.Has(ctx, c.creds)
}

// apiKey returns the configured key or a KindMissingCredential error.
func (c *Client) apiKey(ctx context.Context) (string, error) {
	key, err := c.creds.Get(ctx)
	if err != nil {
		return "", newMissingCredentialError(err)
	}
	if key == "" {
		return "", newMissingCredentialError(nil)
	}
	return key, nil
}

// observe wraps one API operation in a client span and records its metrics.
func (c *Client) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := instrumentation.StartAPISpan(ctx, instrumentation.ServiceMotion, operation)
	defer span.End()

	err := fn(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	if c.metrics != nil {
		c.metrics.RecordAPIOperation(ctx, operation, status, time.Since(start))
	}
	return err
}

// do performs one HTTP call. rawQuery must already be encoded.
func (c *Client) do(ctx context.Context, apiKey, method, path, rawQuery string, body, out any) error {
	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-API-Key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return newTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return newTransportError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("motion API returned an error",
			"method", method,
			"path", path,
			logging.Status(resp.Status))
		return newStatusError(resp.StatusCode, string(data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{
			Kind:    KindRemote,
			Status:  resp.StatusCode,
			Body:    string(data),
			Message: "failed to decode Motion API response",
			Err:     err,
		}
	}
	return nil
}

// remember writes v to the cache, logging instead of failing.
func (c *Client) remember(ctx context.Context, category cache.Category, key string, v any) {
	if err := cache.SetJSON(ctx, c.cache, category, key, v); err != nil {
		c.logger.Warn("failed to cache response", logging.Category(string(category)), logging.CacheKey(key), logging.Err(err))
	}
}
