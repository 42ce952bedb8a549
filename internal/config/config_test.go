package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/motionmcp/internal/cache"
	"github.com/teemow/motionmcp/internal/credential"
	"github.com/teemow/motionmcp/internal/motion"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigPath, EnvAPIKey, EnvAPIBaseURL, EnvCacheBackend, EnvCachePath,
		EnvValkeyURL, EnvMaxPages, EnvTimezone, EnvHTTPTimeout, EnvEncryptionKey,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, motion.DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultMaxPages, cfg.MaxPages)
	assert.Equal(t, cache.BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDelay)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: http://proxy.local/v1
max_pages: 10
http_timeout: 5s
timezone: Europe/Berlin
cache:
  backend: sqlite
  ttls:
    tasks: 30s
`), 0o600))

	t.Setenv(EnvMaxPages, "25")
	t.Setenv(EnvAPIKey, " secret ")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.local/v1", cfg.APIBaseURL)
	assert.Equal(t, 25, cfg.MaxPages)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, map[cache.Category]time.Duration{cache.CategoryTasks: 30 * time.Second}, cfg.CacheTTLs())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	bc := cfg.CacheBackend()
	assert.Equal(t, cache.BackendSQLite, bc.Type)
	assert.Equal(t, "cache.db", filepath.Base(bc.Path))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "malformed yaml", file: "max_pages: [1"},
		{name: "negative pages", file: "max_pages: -1"},
		{name: "unknown backend", file: "cache:\n  backend: memcached"},
		{name: "valkey without url", file: "cache:\n  backend: valkey"},
		{name: "unknown ttl category", file: "cache:\n  ttls:\n    emails: 1m"},
		{name: "bad timezone", env: map[string]string{EnvTimezone: "Mars/Olympus"}},
		{name: "bad max pages env", env: map[string]string{EnvMaxPages: "many"}},
		{name: "bad timeout env", env: map[string]string{EnvHTTPTimeout: "soon"}},
		{name: "bad encryption key", env: map[string]string{EnvEncryptionKey: "c2hvcnQ="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.file != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTripWithoutSecrets(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.MaxPages = 7
	cfg.APIKey = "must-not-be-written"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "must-not-be-written")
	assert.Contains(t, string(data), "http_timeout: 30s")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.MaxPages)
	assert.Empty(t, loaded.APIKey)
}

func TestEncryption(t *testing.T) {
	cfg := Default()
	enc, err := cfg.Encryption()
	require.NoError(t, err)
	assert.False(t, enc.Enabled())

	key, err := credential.GenerateKey()
	require.NoError(t, err)
	cfg.EncryptionKey = credential.KeyToBase64(key)
	enc, err = cfg.Encryption()
	require.NoError(t, err)
	assert.True(t, enc.Enabled())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/motion.yaml")
	assert.Equal(t, "/tmp/motion.yaml", DefaultPath())

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
}
