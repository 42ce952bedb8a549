package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/teemow/motionmcp/internal/logging"
)

// Category groups cache entries that share a default TTL.
type Category string

// Cache categories used by the Motion client and task views.
const (
	CategoryWorkspaces    Category = "workspaces"
	CategoryProjects      Category = "projects"
	CategoryTasks         Category = "tasks"
	CategoryTask          Category = "task"
	CategoryTomorrowTasks Category = "tomorrow-tasks"
	CategoryNextWeekTasks Category = "next-week-tasks"
)

// KeyPrefix is prepended to every composite cache key.
const KeyPrefix = "motion"

// Cache event names reported to the EventRecorder.
const (
	EventHit        = "hit"
	EventMiss       = "miss"
	EventExpired    = "expired"
	EventSet        = "set"
	EventInvalidate = "invalidate"
)

// DefaultTTLs returns the default time-to-live for every category.
func DefaultTTLs() map[Category]time.Duration {
	return map[Category]time.Duration{
		CategoryWorkspaces:    5 * time.Minute,
		CategoryProjects:      5 * time.Minute,
		CategoryTasks:         2 * time.Minute,
		CategoryTask:          5 * time.Minute,
		CategoryTomorrowTasks: time.Hour,
		CategoryNextWeekTasks: time.Hour,
	}
}

// fallbackTTL applies to categories without a configured default.
const fallbackTTL = time.Minute

// EventRecorder receives cache events for metrics.
type EventRecorder interface {
	RecordCacheEvent(ctx context.Context, category, event string)
}

// Options configures a Cache.
type Options struct {
	// TTLs overrides the per-category defaults. Missing categories keep
	// their default.
	TTLs map[Category]time.Duration
	// Now returns the current time (default: time.Now).
	Now func() time.Time
	// Logger receives backend failures (default: discard).
	Logger logging.Logger
	// Recorder receives hit/miss/expiry events (optional).
	Recorder EventRecorder
}

// Cache is a TTL cache keyed by (category, key). Backend failures are logged
// and degrade to a miss; the cache never turns a successful API call into an
// error.
type Cache struct {
	backend  Backend
	ttls     map[Category]time.Duration
	now      func() time.Time
	logger   logging.Logger
	recorder EventRecorder
}

// entry is the stored representation of a cached payload.
type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// New returns a Cache over backend.
func New(backend Backend, opts Options) *Cache {
	ttls := DefaultTTLs()
	for c, ttl := range opts.TTLs {
		if ttl > 0 {
			ttls[c] = ttl
		}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Cache{
		backend:  backend,
		ttls:     ttls,
		now:      opts.Now,
		logger:   opts.Logger,
		recorder: opts.Recorder,
	}
}

// Key returns the composite backend key for (category, key).
func Key(category Category, key string) string {
	return KeyPrefix + ":" + string(category) + ":" + key
}

func categoryPrefix(category Category) string {
	return KeyPrefix + ":" + string(category) + ":"
}

// TTL returns the effective time-to-live for category.
func (c *Cache) TTL(category Category) time.Duration {
	if ttl, ok := c.ttls[category]; ok {
		return ttl
	}
	return fallbackTTL
}

// Get returns the payload stored under (category, key) if it is younger than
// ttl. A ttl <= 0 uses the category default. Expired entries are deleted.
func (c *Cache) Get(ctx context.Context, category Category, key string, ttl time.Duration) ([]byte, bool) {
	if ttl <= 0 {
		ttl = c.TTL(category)
	}
	k := Key(category, key)

	raw, ok, err := c.backend.Get(ctx, k)
	if err != nil {
		c.logger.Warn("cache read failed", logging.Category(string(category)), logging.CacheKey(key), logging.Err(err))
		c.record(ctx, category, EventMiss)
		return nil, false
	}
	if !ok {
		c.record(ctx, category, EventMiss)
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.logger.Warn("dropping undecodable cache entry", logging.Category(string(category)), logging.CacheKey(key), logging.Err(err))
		c.delete(ctx, category, key)
		c.record(ctx, category, EventMiss)
		return nil, false
	}

	writtenAt := time.UnixMilli(e.Timestamp)
	if c.now().Sub(writtenAt) >= ttl {
		c.delete(ctx, category, key)
		c.record(ctx, category, EventExpired)
		return nil, false
	}

	c.record(ctx, category, EventHit)
	return e.Data, true
}

// Set stores payload under (category, key) stamped with the current time.
// payload must be valid JSON.
func (c *Cache) Set(ctx context.Context, category Category, key string, payload []byte) error {
	if !json.Valid(payload) {
		return fmt.Errorf("cache payload for %s:%s is not valid JSON", category, key)
	}
	raw, err := json.Marshal(entry{Data: payload, Timestamp: c.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.backend.Set(ctx, Key(category, key), raw); err != nil {
		c.logger.Warn("cache write failed", logging.Category(string(category)), logging.CacheKey(key), logging.Err(err))
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	c.record(ctx, category, EventSet)
	return nil
}

// Remove deletes a single entry.
func (c *Cache) Remove(ctx context.Context, category Category, key string) error {
	if err := c.backend.Delete(ctx, Key(category, key)); err != nil {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	c.record(ctx, category, EventInvalidate)
	return nil
}

// ClearCategory deletes every entry of category. Backends without prefix
// support degrade to a full clear.
func (c *Cache) ClearCategory(ctx context.Context, category Category) error {
	err := c.backend.DeletePrefix(ctx, categoryPrefix(category))
	if errors.Is(err, ErrPrefixUnsupported) {
		c.logger.Debug("backend cannot delete by prefix, clearing whole cache", logging.Category(string(category)))
		return c.ClearAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to clear cache category %s: %w", category, err)
	}
	c.record(ctx, category, EventInvalidate)
	return nil
}

// ClearAll deletes every entry.
func (c *Cache) ClearAll(ctx context.Context) error {
	if err := c.backend.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	c.record(ctx, "all", EventInvalidate)
	return nil
}

// Ping checks the backend.
func (c *Cache) Ping(ctx context.Context) error {
	return c.backend.Ping(ctx)
}

// Close closes the backend.
func (c *Cache) Close() error {
	return c.backend.Close()
}

func (c *Cache) delete(ctx context.Context, category Category, key string) {
	if err := c.backend.Delete(ctx, Key(category, key)); err != nil {
		c.logger.Warn("cache eviction failed", logging.Category(string(category)), logging.CacheKey(key), logging.Err(err))
	}
}

func (c *Cache) record(ctx context.Context, category Category, event string) {
	if c.recorder != nil {
		c.recorder.RecordCacheEvent(ctx, string(category), event)
	}
}

// GetJSON decodes a cached payload into T.
func GetJSON[T any](ctx context.Context, c *Cache, category Category, key string, ttl time.Duration) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	raw, ok := c.Get(ctx, category, key, ttl)
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Warn("cached payload does not match expected type", logging.Category(string(category)), logging.CacheKey(key), logging.Err(err))
		c.delete(ctx, category, key)
		return zero, false
	}
	return v, true
}

// SetJSON encodes v and stores it under (category, key).
func SetJSON(ctx context.Context, c *Cache, category Category, key string, v any) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}
	return c.Set(ctx, category, key, payload)
}
