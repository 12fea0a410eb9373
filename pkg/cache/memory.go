package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// item is one cached value plus its deadline. A zero deadline means the
// item never expires.
type item[V any] struct {
	deadline time.Time
	value    V
	key      string
}

func (it *item[V]) expired(now time.Time) bool {
	return !it.deadline.IsZero() && now.After(it.deadline)
}

// Memory is an in-process cache with TTL expiry and optional LRU capping.
// It backs webhook dedupe on single-instance deployments where no Redis
// is configured.
//
// Lookups go through a map; recency order lives in a doubly-linked list
// so capping can drop the least recently touched entry in O(1).
type Memory[V any] struct {
	index  map[string]*list.Element
	order  *list.List
	opts   *memoryOptions
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory builds an in-memory cache. A background sweeper removes
// expired entries on the configured interval until Close is called.
//
//	seen := cache.NewMemory[struct{}](
//	    cache.WithDefaultTTL(24 * time.Hour),
//	    cache.WithMaxEntries(100_000),
//	)
//	defer seen.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{
		index: make(map[string]*list.Element),
		order: list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.sweeper()
	}

	return m
}

// Get returns the value under key, refreshing its recency.
// An expired entry is removed on the spot and reported as ErrNotFound.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.index[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}

	it := elem.Value.(*item[V])
	if it.expired(time.Now()) {
		m.drop(elem)
		var zero V
		return zero, ErrNotFound
	}

	m.order.MoveToFront(elem)
	return it.value, nil
}

// Set stores value under key. Zero ttl takes the configured default;
// negative ttl pins the entry until deleted or evicted.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}

	if elem, ok := m.index[key]; ok {
		it := elem.Value.(*item[V])
		it.value = value
		it.deadline = deadline
		m.order.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.index) >= m.opts.maxEntries {
		if oldest := m.order.Back(); oldest != nil {
			m.drop(oldest)
		}
	}

	elem := m.order.PushFront(&item[V]{key: key, value: value, deadline: deadline})
	m.index[key] = elem
	return nil
}

// Delete removes key if present.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.index[key]; ok {
		m.drop(elem)
	}
	return nil
}

// Has reports whether key holds a live entry. Unlike Get it does not
// refresh recency, so probing for replays keeps eviction order honest.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.index[key]
	if !ok {
		return false, nil
	}
	if elem.Value.(*item[V]).expired(time.Now()) {
		m.drop(elem)
		return false, nil
	}
	return true, nil
}

// Clear removes every entry.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.index = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

// Close stops the sweeper and rejects further writes. Idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory[V]) sweeper() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep walks from the back of the recency list, where stale entries
// accumulate, and drops everything past its deadline.
func (m *Memory[V]) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.order.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*item[V]).expired(now) {
			m.drop(elem)
		}
		elem = prev
	}
}

// drop removes one element from both structures. Caller holds the mutex.
func (m *Memory[V]) drop(elem *list.Element) {
	m.order.Remove(elem)
	delete(m.index, elem.Value.(*item[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
