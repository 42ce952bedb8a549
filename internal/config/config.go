// Package config loads the motionmcp settings file and applies environment
// overrides.
//
// Precedence, lowest first: built-in defaults, the YAML file, MOTION_*
// environment variables, command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/credential"
	"github.com/teemow/motionmcp/internal/debounce"
	"github.com/teemow/motionmcp/internal/motion"
)

// AppName names the configuration directory.
const AppName = "motionmcp"

// DefaultMaxPages bounds a full task listing.
const DefaultMaxPages = 100

// Environment variables read by Load.
const (
	EnvConfigPath    = "MOTION_CONFIG"
	EnvAPIKey        = "MOTION_API_KEY"
	EnvAPIBaseURL    = "MOTION_API_BASE_URL"
	EnvCacheBackend  = "MOTION_CACHE_BACKEND"
	EnvCachePath     = "MOTION_CACHE_PATH"
	EnvValkeyURL     = "MOTION_VALKEY_URL"
	EnvMaxPages      = "MOTION_MAX_PAGES"
	EnvTimezone      = "MOTION_TIMEZONE"
	EnvHTTPTimeout   = "MOTION_HTTP_TIMEOUT"
	EnvEncryptionKey = "MOTION_ENCRYPTION_KEY"
)

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	// Backend is memory, file, sqlite or valkey.
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path,omitempty"`
	ValkeyURL string `yaml:"valkey_url,omitempty"`
	KeyPrefix string `yaml:"key_prefix,omitempty"`
	// TTLs overrides per-category lifetimes, keyed by category name.
	TTLs map[string]time.Duration `yaml:"ttls,omitempty"`
}

// Config is the full set of settings.
type Config struct {
	APIBaseURL      string        `yaml:"api_base_url"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	MaxPages        int           `yaml:"max_pages"`
	Timezone        string        `yaml:"timezone,omitempty"`
	CredentialsFile string        `yaml:"credentials_file"`
	SearchDelay     time.Duration `yaml:"search_delay"`
	Cache           CacheConfig   `yaml:"cache"`

	// APIKey comes from MOTION_API_KEY only and is never written back.
	APIKey string `yaml:"-"`
	// EncryptionKey is a base64 AES-256 key from MOTION_ENCRYPTION_KEY.
	EncryptionKey string `yaml:"-"`
}

// Dir returns the configuration directory, ~/.config/motionmcp on Linux.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, AppName)
}

// DefaultPath returns the settings file location, honouring MOTION_CONFIG.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	dir := Dir()
	return &Config{
		APIBaseURL:      motion.DefaultBaseURL,
		HTTPTimeout:     motion.DefaultTimeout,
		MaxPages:        DefaultMaxPages,
		CredentialsFile: filepath.Join(dir, "credentials.yaml"),
		SearchDelay:     debounce.DefaultDelay,
		Cache: CacheConfig{
			Backend:   cache.BackendMemory,
			KeyPrefix: AppName + ":",
		},
	}
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv(EnvEncryptionKey); v != "" {
		c.EncryptionKey = v
	}
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv(EnvCachePath); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv(EnvValkeyURL); v != "" {
		c.Cache.ValkeyURL = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvMaxPages); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxPages, v, err)
		}
		c.MaxPages = n
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvHTTPTimeout, v, err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if c.MaxPages < 0 {
		return fmt.Errorf("max_pages must not be negative, got %d", c.MaxPages)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case "", cache.BackendMemory:
	case cache.BackendFile, cache.BackendSQLite:
		// Path defaults in CacheBackend.
	case cache.BackendValkey:
		if c.Cache.ValkeyURL == "" {
			return fmt.Errorf("cache backend valkey requires valkey_url or %s", EnvValkeyURL)
		}
	default:
		return fmt.Errorf("unsupported cache backend %q, must be one of: memory, file, sqlite, valkey", c.Cache.Backend)
	}

	for name, ttl := range c.Cache.TTLs {
		if _, ok := cache.DefaultTTLs()[cache.Category(name)]; !ok {
			return fmt.Errorf("unknown cache category %q in ttls", name)
		}
		if ttl <= 0 {
			return fmt.Errorf("ttl for %s must be positive, got %s", name, ttl)
		}
	}

	if c.EncryptionKey != "" {
		if _, err := credential.KeyFromBase64(c.EncryptionKey); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvEncryptionKey, err)
		}
	}
	return nil
}

// Location returns the time zone used for date ranges; empty means local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// CacheBackend returns the backend selection, filling in default file
// locations next to the settings file.
func (c *Config) CacheBackend() cache.BackendConfig {
	bc := cache.BackendConfig{
		Type:            c.Cache.Backend,
		Path:            c.Cache.Path,
		ValkeyURL:       c.Cache.ValkeyURL,
		ValkeyKeyPrefix: c.Cache.KeyPrefix,
	}
	if bc.Path == "" {
		switch bc.Type {
		case cache.BackendFile:
			bc.Path = filepath.Join(Dir(), "cache.json")
		case cache.BackendSQLite:
			bc.Path = filepath.Join(Dir(), "cache.db")
		}
	}
	return bc
}

// CacheTTLs converts the TTL overrides for cache.Options.
func (c *Config) CacheTTLs() map[cache.Category]time.Duration {
	if len(c.Cache.TTLs) == 0 {
		return nil
	}
	out := make(map[cache.Category]time.Duration, len(c.Cache.TTLs))
	for name, ttl := range c.Cache.TTLs {
		out[cache.Category(name)] = ttl
	}
	return out
}

// Encryption returns the at-rest encryption for the credentials file. It is
// disabled when no key is configured.
func (c *Config) Encryption() (*credential.Encryption, error) {
	if c.EncryptionKey == "" {
		return credential.NewEncryption(nil)
	}
	key, err := credential.KeyFromBase64(c.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return credential.NewEncryption(key)
}

// Save writes the settings to path, creating its directory. Secrets taken
// from the environment are not written.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
