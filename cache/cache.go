// Package cache holds the process-wide slot the currency table snapshot
// lives in. Invalidation is always explicit; there is no TTL. Duplicate
// concurrent rebuilds are tolerated by contract: storage is the source of
// truth and rebuilding is idempotent, so the slot never serializes builders,
// it only guarantees readers see either nothing or a complete snapshot.
package cache

import (
	"context"
	"sync"

	"github.com/valuto/valuto/currency"
)

// BuildFunc produces a complete snapshot from the source of truth.
type BuildFunc func(ctx context.Context) (currency.Snapshot, error)

type Slot interface {
	// GetOrBuild returns the cached snapshot under key, building and
	// caching it first if the slot is empty
	GetOrBuild(ctx context.Context, key string, build BuildFunc) (currency.Snapshot, error)

	// Invalidate drops the cached snapshot under key
	Invalidate(key string)
}

var _ Slot = (*Memory)(nil)

// Memory is the in-process Slot implementation.
type Memory struct {
	mu    sync.RWMutex
	slots map[string]currency.Snapshot
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string]currency.Snapshot)}
}

func (m *Memory) GetOrBuild(ctx context.Context, key string, build BuildFunc) (currency.Snapshot, error) {
	m.mu.RLock()
	snap, ok := m.slots[key]
	m.mu.RUnlock()

	if ok {
		return snap, nil
	}

	// Built outside the lock: concurrent callers may race to build, the
	// last complete snapshot wins.
	snap, err := build(ctx)
	if err != nil {
		return currency.Snapshot{}, err
	}

	m.mu.Lock()
	m.slots[key] = snap
	m.mu.Unlock()

	return snap, nil
}

func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	delete(m.slots, key)
	m.mu.Unlock()
}
