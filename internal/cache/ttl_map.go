package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLMap is a goroutine-safe map whose entries expire after a fixed duration.
// Expired entries are dropped lazily on access or by PurgeExpired.
type TTLMap[K comparable, V any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[K]entry[V]
}

func NewTTLMap[K comparable, V any](ttl time.Duration) *TTLMap[K, V] {
	return &TTLMap[K, V]{ttl: ttl, items: make(map[K]entry[V])}
}

// now is swapped in tests.
var now = time.Now

// Get returns the live value for key.
func (m *TTLMap[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(key)
}

// Update applies fn to the current value (zero if absent or expired) and stores the
// result. The expiry is kept for live entries and started for new ones.
func (m *TTLMap[K, V]) Update(key K, fn func(V) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok || now().After(e.expiresAt) {
		var zero V
		e = entry[V]{value: zero, expiresAt: now().Add(m.ttl)}
	}
	e.value = fn(e.value)
	m.items[key] = e
	return e.value
}

func (m *TTLMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Len counts live entries only.
func (m *TTLMap[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	ts := now()
	for _, e := range m.items {
		if !ts.After(e.expiresAt) {
			n++
		}
	}
	return n
}

// PurgeExpired removes every expired entry.
func (m *TTLMap[K, V]) PurgeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := now()
	for k, e := range m.items {
		if ts.After(e.expiresAt) {
			delete(m.items, k)
		}
	}
}

func (m *TTLMap[K, V]) getLocked(key K) (V, bool) {
	var zero V
	e, ok := m.items[key]
	if !ok {
		return zero, false
	}
	if now().After(e.expiresAt) {
		delete(m.items, key)
		return zero, false
	}
	return e.value, true
}
