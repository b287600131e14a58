package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheConfig holds configuration for the memcache backend.
type MemcacheConfig struct {
	Servers []string `mapstructure:"servers" default:"localhost:11211"`
}

// NewMemcacheClient creates a client for cfg.
func NewMemcacheClient(cfg MemcacheConfig) *memcache.Client {
	return memcache.New(cfg.Servers...)
}

// MemcacheClient is the subset of *memcache.Client the backend uses.
type MemcacheClient interface {
	Set(item *memcache.Item) error
	Get(key string) (*memcache.Item, error)
	Delete(key string) error
}

// Memcache stores blobs as memcache items. Memcache may evict items, so it
// only suits state that can be rebuilt.
type Memcache struct {
	client MemcacheClient
}

// NewMemcache wraps client.
func NewMemcache(client MemcacheClient) *Memcache {
	return &Memcache{client: client}
}

func (m *Memcache) Save(ctx context.Context, key string, blob []byte) error {
	if err := m.client.Set(&memcache.Item{Key: key, Value: blob}); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (m *Memcache) Load(ctx context.Context, key string) ([]byte, bool, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return item.Value, true, nil
}

func (m *Memcache) Erase(ctx context.Context, key string) error {
	err := m.client.Delete(key)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return fmt.Errorf("failed to erase %s: %w", key, err)
	}
	return nil
}
