package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is the contract shared by the memory and Redis backends. Values are
// opaque bytes; callers own the (de)serialization.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Memory is an in-process cache with TTL support, used when no Redis address
// is configured and in tests.
type Memory struct {
	mu     sync.RWMutex
	items  map[string]entry
	stopCh chan struct{}
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemory() *Memory {
	m := &Memory{
		items:  make(map[string]entry),
		stopCh: make(chan struct{}),
	}
	go m.cleanup()
	return m
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = e
}

func (m *Memory) Delete(ctx context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

func (m *Memory) Stop() {
	close(m.stopCh)
}

func (m *Memory) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Memory) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, e := range m.items {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.items, key)
		}
	}
}

var _ Cache = (*Memory)(nil)
