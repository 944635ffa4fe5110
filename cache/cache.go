// Package cache provides an in-memory, time-expiring key/value store with a
// background sweeper.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = 10 * time.Minute
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache maps keys to values that expire once they are older than the TTL.
// Stored values are never modified; Set replaces the whole entry.
type Cache[V any] struct {
	mu            sync.Mutex
	entries       map[string]entry[V]
	ttl           time.Duration
	sweepInterval time.Duration
	maxEntries    int
	now           func() time.Time
	logger        *slog.Logger

	stop     chan struct{}
	done     chan struct{}
	startMu  sync.Mutex
	started  bool
	stopOnce sync.Once
}

// Option configures a Cache.
type Option func(*config)

type config struct {
	ttl           time.Duration
	sweepInterval time.Duration
	maxEntries    int
	now           func() time.Time
	logger        *slog.Logger
}

// WithTTL sets how long an entry stays fresh. Default is 5 minutes.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often the background sweeper runs.
// Default is 10 minutes.
func WithSweepInterval(interval time.Duration) Option {
	return func(c *config) {
		if interval > 0 {
			c.sweepInterval = interval
		}
	}
}

// WithMaxEntries caps the number of stored entries. When the cap is reached
// the oldest entry is evicted on insert. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxEntries = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// New creates an empty cache. The sweeper is not running until Start is
// called.
func New[V any](opts ...Option) *Cache[V] {
	cfg := config{
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cache[V]{
		entries:       make(map[string]entry[V]),
		ttl:           cfg.ttl,
		sweepInterval: cfg.sweepInterval,
		maxEntries:    cfg.maxEntries,
		now:           cfg.now,
		logger:        cfg.logger,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// TTL returns the configured time-to-live.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key if it has not expired. An expired
// entry is deleted as part of the lookup.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.expired(e, c.now()) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// remove deletes key if present.
func (c *Cache[V]) remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of stored entries, fresh or stale.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep deletes every expired entry and returns how many were removed.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Start launches the background sweeper. Calling Start more than once has no
// effect.
func (c *Cache[V]) Start() {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	if c.started {
		return
	}
	c.started = true
	go c.sweepLoop()
}

// Close stops the background sweeper and waits for it to exit.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})

	c.startMu.Lock()
	started := c.started
	c.startMu.Unlock()
	if started {
		<-c.done
	}
}

func (c *Cache[V]) sweepLoop() {
	defer close(c.done)

	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			removed := c.Sweep()
			c.logger.Debug("cache sweep", "removed", removed, "remaining", c.Len())
		}
	}
}

func (c *Cache[V]) expired(e entry[V], now time.Time) bool {
	return now.Sub(e.storedAt) > c.ttl
}

func (c *Cache[V]) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, e := range c.entries {
		if !found || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = key, e.storedAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}
