package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCache_GetSet(t *testing.T) {
	c := New[string]()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v1")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v1", got)

	c.Set("k", "v2")
	got, ok = c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 1, c.Len())

	c.remove("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_TTLBoundary(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now))
	assert.Equal(t, DefaultTTL, c.TTL())

	c.Set("k", 42)

	clock.Advance(4*time.Minute + 59*time.Second)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	clock.Advance(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_LazyEvictionDeletesEntry(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now), WithTTL(time.Minute))

	c.Set("k", 1)
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, c.Len(), "stale entry stays until touched")

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_OverwriteRefreshesTimestamp(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now), WithTTL(time.Minute))

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now), WithTTL(time.Minute))

	c.Set("old-1", 1)
	c.Set("old-2", 2)
	clock.Advance(90 * time.Second)
	c.Set("fresh", 3)

	removed := c.Sweep()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestCache_MaxEntriesEvictsOldest(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now), WithMaxEntries(2))

	c.Set("a", 1)
	clock.Advance(time.Second)
	c.Set("b", 2)
	clock.Advance(time.Second)
	c.Set("c", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)

	// Overwriting an existing key does not evict anything.
	c.Set("c", 4)
	assert.Equal(t, 2, c.Len())
}

func TestCache_BackgroundSweep(t *testing.T) {
	clock := newFakeClock()
	c := New[int](
		WithClock(clock.Now),
		WithTTL(time.Minute),
		WithSweepInterval(10*time.Millisecond),
	)
	c.Start()
	c.Start()
	defer c.Close()

	c.Set("k", 1)
	clock.Advance(2 * time.Minute)

	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCache_CloseWithoutStart(t *testing.T) {
	c := New[int]()
	c.Close()
	c.Close()
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](WithSweepInterval(time.Millisecond))
	c.Start()
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k-%d", j%10)
				c.Set(key, worker)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
}
