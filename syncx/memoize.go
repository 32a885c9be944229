package syncx

import (
	"sync"
	"time"
)

type memoOptions struct {
	ttl time.Duration
}

type MemoOption func(*memoOptions)

// WithTTL expires cached entries after d; zero caches forever.
func WithTTL(d time.Duration) MemoOption {
	return func(o *memoOptions) { o.ttl = d }
}

type memoEntry[V any] struct {
	value   V
	expires time.Time
}

type memoFlight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Memo caches results of an expensive keyed computation. Concurrent misses
// for the same key share one in-flight call; the dedupe map is keyed by K
// itself, so distinct keys never collide.
type Memo[K comparable, V any] struct {
	fn  func(K) (V, error)
	ttl time.Duration

	mu      sync.Mutex
	entries map[K]memoEntry[V]
	flights map[K]*memoFlight[V]
}

// Memoize wraps fn with a Memo cache.
func Memoize[K comparable, V any](fn func(K) (V, error), opts ...MemoOption) *Memo[K, V] {
	o := memoOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Memo[K, V]{
		fn:      fn,
		ttl:     o.ttl,
		entries: map[K]memoEntry[V]{},
		flights: map[K]*memoFlight[V]{},
	}
}

// Get returns the cached value for key, computing it on first use. Errors
// are not cached, but callers joining an in-flight computation share its
// outcome.
func (m *Memo[K, V]) Get(key K) (V, error) {
	m.mu.Lock()
	if entry, ok := m.entries[key]; ok {
		if m.ttl == 0 || time.Now().Before(entry.expires) {
			m.mu.Unlock()
			return entry.value, nil
		}
		delete(m.entries, key)
	}
	if flight, ok := m.flights[key]; ok {
		m.mu.Unlock()
		<-flight.done
		return flight.value, flight.err
	}
	flight := &memoFlight[V]{done: make(chan struct{})}
	m.flights[key] = flight
	m.mu.Unlock()

	flight.value, flight.err = m.fn(key)

	m.mu.Lock()
	delete(m.flights, key)
	if flight.err == nil {
		entry := memoEntry[V]{value: flight.value}
		if m.ttl > 0 {
			entry.expires = time.Now().Add(m.ttl)
		}
		m.entries[key] = entry
	}
	m.mu.Unlock()
	close(flight.done)
	return flight.value, flight.err
}

// Forget drops the cached entry for key.
func (m *Memo[K, V]) Forget(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Purge drops every cached entry.
func (m *Memo[K, V]) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[K]memoEntry[V]{}
}

// Len returns the number of live entries.
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
