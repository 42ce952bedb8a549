package cache

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// DefaultValkeyKeyPrefix namespaces cache keys in a shared Valkey database.
const DefaultValkeyKeyPrefix = "motionmcp:"

// valkeyScanCount is the COUNT hint passed to SCAN during prefix deletes.
const valkeyScanCount = 200

// ValkeyBackend stores entries in Valkey (or any Redis-protocol server) so
// several server replicas can share one cache.
type ValkeyBackend struct {
	client    valkey.Client
	keyPrefix string
}

// NewValkeyBackend connects to the server at url and verifies it with PING.
func NewValkeyBackend(ctx context.Context, url, keyPrefix string) (*ValkeyBackend, error) {
	opt, err := valkey.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid valkey URL: %w", err)
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}
	return newValkeyBackendWithClient(ctx, client, keyPrefix)
}

func newValkeyBackendWithClient(ctx context.Context, client valkey.Client, keyPrefix string) (*ValkeyBackend, error) {
	if keyPrefix == "" {
		keyPrefix = DefaultValkeyKeyPrefix
	}
	b := &ValkeyBackend{client: client, keyPrefix: keyPrefix}
	if err := b.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach valkey: %w", err)
	}
	return b, nil
}

func (b *ValkeyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := b.client.Do(ctx, b.client.B().Get().Key(b.keyPrefix+key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get: %w", err)
	}
	return value, true, nil
}

func (b *ValkeyBackend) Set(ctx context.Context, key string, value []byte) error {
	cmd := b.client.B().Set().Key(b.keyPrefix + key).Value(valkey.BinaryString(value)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}
	return nil
}

func (b *ValkeyBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Do(ctx, b.client.B().Del().Key(b.keyPrefix+key).Build()).Error(); err != nil {
		return fmt.Errorf("valkey del: %w", err)
	}
	return nil
}

// DeletePrefix walks the keyspace with SCAN MATCH and deletes matches in
// batches. It never uses KEYS so large databases are not blocked.
func (b *ValkeyBackend) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := escapeGlob(b.keyPrefix+prefix) + "*"
	var cursor uint64
	for {
		entry, err := b.client.Do(ctx, b.client.B().Scan().Cursor(cursor).Match(pattern).Count(valkeyScanCount).Build()).AsScanEntry()
		if err != nil {
			return fmt.Errorf("valkey scan: %w", err)
		}
		if len(entry.Elements) > 0 {
			if err := b.client.Do(ctx, b.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return fmt.Errorf("valkey del: %w", err)
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

// Clear removes every key under this backend's namespace.
func (b *ValkeyBackend) Clear(ctx context.Context) error {
	return b.DeletePrefix(ctx, "")
}

func (b *ValkeyBackend) Ping(ctx context.Context) error {
	return b.client.Do(ctx, b.client.B().Ping().Build()).Error()
}

func (b *ValkeyBackend) Close() error {
	b.client.Close()
	return nil
}

// escapeGlob escapes the characters SCAN MATCH treats specially.
func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
