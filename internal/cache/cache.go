// Package cache provides a bounded in-memory cache with per-entry expiry and
// least-recently-used eviction.
//
// Expiry is checked lazily: a stale entry is dropped the next time it is read.
// DeleteExpired can be scheduled to reclaim memory held by entries nobody reads.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// Option configures a Cache
type Option func(*options)

type options struct {
	clock   Clock
	onEvict func(key string)
}

// WithClock overrides time.Now as the cache's time source.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithEvictionCallback registers a hook invoked (under the cache lock) whenever
// an entry is dropped because the cache is full.
func WithEvictionCallback(fn func(key string)) Option {
	return func(o *options) {
		o.onEvict = fn
	}
}

// Stats is a point-in-time snapshot of cache counters
type Stats struct {
	Size        int           `json:"size" msgpack:"size"`
	Capacity    int           `json:"capacity" msgpack:"capacity"`
	TTL         time.Duration `json:"ttl_ns" msgpack:"ttl_ns"`
	Hits        uint64        `json:"hits" msgpack:"hits"`
	Misses      uint64        `json:"misses" msgpack:"misses"`
	Evictions   uint64        `json:"evictions" msgpack:"evictions"`
	Expirations uint64        `json:"expirations" msgpack:"expirations"`
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Cache is a TTL cache with a fixed capacity. The most recently used entry
// sits at the front of the list, so eviction always takes the back.
// It is safe for concurrent use.
type Cache[V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	items    map[string]*list.Element
	order    *list.List
	opts     options

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New creates a cache holding at most capacity entries, each valid for ttl
// after insertion. Capacity below 1 is treated as 1.
func New[V any](capacity int, ttl time.Duration, opts ...Option) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}

	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[V]{
		ttl:      ttl,
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
		opts:     o,
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}

	e := el.Value.(*entry[V])
	if !c.opts.clock().Before(e.expiresAt) {
		c.removeElement(el)
		c.expirations++
		c.misses++
		return zero, false
	}

	c.order.MoveToFront(el)
	c.hits++
	return e.value, true
}

// Peek returns the value for key if present and not expired, without touching
// hit/miss counters or recency.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if !c.opts.clock().Before(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, resetting its expiry. When the cache is full
// the least recently used entry is evicted first.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.opts.clock().Add(c.ttl)

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	for c.order.Len() >= c.capacity {
		c.evictOldest()
	}

	el := c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = el
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

// Clear drops every entry and returns how many were removed. Counters are kept.
func (c *Cache[V]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.order.Len()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
	return n
}

// DeleteExpired removes all entries whose TTL has elapsed and returns the count.
func (c *Cache[V]) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.clock()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry[V]).expiresAt) {
			c.removeElement(el)
			c.expirations++
			removed++
		}
		el = prev
	}
	return removed
}

// Len returns the number of stored entries, including any not yet purged.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:        c.order.Len(),
		Capacity:    c.capacity,
		TTL:         c.ttl,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

func (c *Cache[V]) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	key := el.Value.(*entry[V]).key
	c.removeElement(el)
	c.evictions++
	if c.opts.onEvict != nil {
		c.opts.onEvict(key)
	}
}

func (c *Cache[V]) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}
