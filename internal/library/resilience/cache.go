package resilience

import (
	"sync"
	"time"
)

// DefaultFreshness FreshCache 預設有效時間
const DefaultFreshness = 60 * time.Second

type entry[T any] struct {
	data     T
	storedAt time.Time
}

// FreshCache is a read cache for performance: values are served only while
// younger than the freshness window.
type FreshCache[T any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]entry[T]
}

// NewFreshCache 建立 FreshCache，ttl 非正值使用預設，now 為 nil 時使用 time.Now
func NewFreshCache[T any](ttl time.Duration, now func() time.Time) *FreshCache[T] {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	if now == nil {
		now = time.Now
	}
	return &FreshCache[T]{ttl: ttl, now: now, items: make(map[string]entry[T])}
}

// Get returns the value for key and when it was stored, if it is still fresh
func (c *FreshCache[T]) Get(key string) (T, time.Time, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	var zero T
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		return zero, time.Time{}, false
	}
	return e.data, e.storedAt, true
}

// Set stores v under key stamped with the current time
func (c *FreshCache[T]) Set(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{data: v, storedAt: c.now()}
}

// Invalidate drops key
func (c *FreshCache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// FallbackStore keeps the last good value per key with no expiry, served
// when the source is failing.
type FallbackStore[T any] struct {
	mu    sync.RWMutex
	now   func() time.Time
	items map[string]entry[T]
}

// NewFallbackStore 建立 FallbackStore
func NewFallbackStore[T any](now func() time.Time) *FallbackStore[T] {
	if now == nil {
		now = time.Now
	}
	return &FallbackStore[T]{now: now, items: make(map[string]entry[T])}
}

// Save records v as the last good value of key
func (s *FallbackStore[T]) Save(key string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry[T]{data: v, storedAt: s.now()}
}

// Load returns the last good value of key and when it was saved
func (s *FallbackStore[T]) Load(key string) (T, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[key]
	return e.data, e.storedAt, ok
}
