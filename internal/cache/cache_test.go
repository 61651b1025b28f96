package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestGetPut(t *testing.T) {
	c := New[string](10, time.Minute)

	_, ok := c.Get("rockets")
	assert.False(t, ok)

	c.Put("rockets", "payload")
	v, ok := c.Get("rockets")
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New[int](10, 300*time.Second, WithClock(clock.Now))

	c.Put("launches", 42)

	clock.Advance(299 * time.Second)
	v, ok := c.Get("launches")
	require.True(t, ok, "entry should survive until the TTL elapses")
	assert.Equal(t, 42, v)

	clock.Advance(time.Second)
	_, ok = c.Get("launches")
	assert.False(t, ok, "entry must not be returned once the TTL has elapsed")
	assert.Equal(t, 0, c.Len(), "expired entry should be dropped lazily on read")
	assert.Equal(t, uint64(1), c.Stats().Expirations)
}

func TestPutResetsExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New[int](10, time.Minute, WithClock(clock.Now))

	c.Put("starlink", 1)
	clock.Advance(50 * time.Second)
	c.Put("starlink", 2)
	clock.Advance(50 * time.Second)

	v, ok := c.Get("starlink")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLRUEviction(t *testing.T) {
	var evicted []string
	c := New[int](3, time.Hour, WithEvictionCallback(func(key string) {
		evicted = append(evicted, key)
	}))

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	// Touch "a" so "b" becomes the least recently used
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("d", 4)

	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 3, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok)
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "expected %s to remain", k)
	}
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestCapacityNeverExceeded(t *testing.T) {
	c := New[int](100, time.Hour)
	for i := 0; i < 250; i++ {
		c.Put(fmt.Sprintf("key-%d", i), i)
		assert.LessOrEqual(t, c.Len(), 100)
	}
	assert.Equal(t, 100, c.Len())
	assert.Equal(t, uint64(150), c.Stats().Evictions)
}

func TestNewClampsCapacity(t *testing.T) {
	c := New[int](0, time.Hour)
	c.Put("a", 1)
	c.Put("b", 2)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Stats().Capacity)
}

func TestDeleteExpired(t *testing.T) {
	clock := newFakeClock()
	c := New[int](10, time.Minute, WithClock(clock.Now))

	c.Put("old-1", 1)
	c.Put("old-2", 2)
	clock.Advance(40 * time.Second)
	c.Put("fresh", 3)
	clock.Advance(30 * time.Second)

	removed := c.DeleteExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestPeekDoesNotTouchCounters(t *testing.T) {
	clock := newFakeClock()
	c := New[string](10, time.Minute, WithClock(clock.Now))
	c.Put("rockets", "payload")
	c.Put("launches", "older")

	v, ok := c.Peek("rockets")
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	_, ok = c.Peek("missing")
	assert.False(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Peek("launches")
	assert.False(t, ok, "expired entry must not be returned")

	stats := c.Stats()
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.Expirations)
	assert.Equal(t, 2, c.Len(), "peek leaves expired entries for the next read")
}

func TestDeleteAndClear(t *testing.T) {
	c := New[int](10, time.Hour)
	c.Put("a", 1)
	c.Put("b", 2)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, 1, c.Len())

	assert.Equal(t, 1, c.Clear())
	assert.Equal(t, 0, c.Len())

	// Still usable after Clear
	c.Put("c", 3)
	v, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int](16, time.Hour)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k-%d", (g*i)%32)
				c.Put(key, i)
				c.Get(key)
				if i%50 == 0 {
					c.DeleteExpired()
				}
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}
