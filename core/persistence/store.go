package persistence

import (
	"context"
	"sync"
)

// Store saves opaque blobs under string keys.
type Store interface {
	Save(ctx context.Context, key string, blob []byte) error
	// Load returns found=false, and no error, for a missing key.
	Load(ctx context.Context, key string) (blob []byte, found bool, err error)
	Erase(ctx context.Context, key string) error
}

// Memory is a process-local Store.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Save(ctx context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

func (m *Memory) Erase(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

type prefixed struct {
	prefix string
	store  Store
}

// WithPrefix namespaces every key of store.
func WithPrefix(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &prefixed{prefix: prefix, store: store}
}

func (p *prefixed) Save(ctx context.Context, key string, blob []byte) error {
	return p.store.Save(ctx, p.prefix+key, blob)
}

func (p *prefixed) Load(ctx context.Context, key string) ([]byte, bool, error) {
	return p.store.Load(ctx, p.prefix+key)
}

func (p *prefixed) Erase(ctx context.Context, key string) error {
	return p.store.Erase(ctx, p.prefix+key)
}
