package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrPrefixUnsupported is returned by backends that cannot enumerate keys.
// Cache.ClearCategory falls back to a full clear when it sees this error.
var ErrPrefixUnsupported = errors.New("backend does not support prefix deletion")

// Backend is the storage underneath a Cache. Values are opaque bytes; the
// Cache owns encoding and freshness.
type Backend interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. The write must be durable when Set returns.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Clear removes every key owned by this backend.
	Clear(ctx context.Context) error
	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error
	// Close releases resources held by the backend.
	Close() error
}

// Backend type names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendValkey = "valkey"
)

// BackendConfig selects and configures a Backend.
type BackendConfig struct {
	// Type is one of memory, file, sqlite or valkey (default: memory).
	Type string
	// Path is the file location for the file and sqlite backends.
	Path string
	// ValkeyURL is a redis:// or valkey:// URL for the valkey backend.
	ValkeyURL string
	// ValkeyKeyPrefix namespaces keys inside a shared Valkey database.
	ValkeyKeyPrefix string
}

// Open creates the backend described by cfg.
func Open(ctx context.Context, cfg BackendConfig) (Backend, error) {
	switch cfg.Type {
	case "", BackendMemory:
		return NewMemoryBackend(), nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file cache backend requires a path")
		}
		return NewFileBackend(cfg.Path)
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite cache backend requires a path")
		}
		return NewSQLiteBackend(ctx, cfg.Path)
	case BackendValkey:
		if cfg.ValkeyURL == "" {
			return nil, fmt.Errorf("valkey cache backend requires a URL")
		}
		return NewValkeyBackend(ctx, cfg.ValkeyURL, cfg.ValkeyKeyPrefix)
	default:
		return nil, fmt.Errorf("unsupported cache backend %q, must be one of: memory, file, sqlite, valkey", cfg.Type)
	}
}
