// Package cache implements the bounded result cache that backs optimized
// queries. Entries are kept in least-recently-used order and expire after a
// per-entry TTL.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	DefaultMaxSize = 100
	DefaultTTL     = 5 * time.Minute
)

type (
	// Params is the parameter bag of a logical query.
	Params map[string]any

	// Options carries per-call options that take part in the cache key.
	Options map[string]any
)

// Entry is a single cached query result.
type Entry struct {
	Key       string    `json:"key"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expiresAt"`
	Params    Params    `json:"params"`
	Options   Options   `json:"options"`
}

// IsExpired reports whether the entry is past its TTL at now.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Stats is a snapshot of cache accounting.
type Stats struct {
	Size      int     `json:"size"`
	HitCount  int64   `json:"hitCount"`
	MissCount int64   `json:"missCount"`
	HitRate   float64 `json:"hitRate"`
	MaxSize   int     `json:"maxSize"`
	Evictions int64   `json:"evictions"`
}

type ResultCache struct {
	mu         sync.Mutex
	entries    *simplelru.LRU[string, *Entry]
	maxSize    int
	defaultTTL time.Duration

	hits      int64
	misses    int64
	evictions int64

	strategyMu sync.RWMutex
	strategies map[string]KeyStrategy

	now     func() time.Time
	metrics *Metrics
	logger  *slog.Logger
}

type Option func(*ResultCache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) {
		if now != nil {
			c.now = now
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *ResultCache) {
		c.metrics = m
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *ResultCache) {
		if log != nil {
			c.logger = log
		}
	}
}

// New creates a cache bounded by cfg.MaxSize entries. Non-positive values in
// cfg fall back to DefaultMaxSize and DefaultTTL.
func New(cfg Config, opts ...Option) *ResultCache {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}

	// NewLRU only fails for a non-positive size, which is ruled out above.
	entries, _ := simplelru.NewLRU[string, *Entry](cfg.MaxSize, nil)

	c := &ResultCache{
		entries:    entries,
		maxSize:    cfg.MaxSize,
		defaultTTL: cfg.DefaultTTL,
		strategies: make(map[string]KeyStrategy),
		now:        time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// DefaultTTL returns the TTL applied when Set is called without one.
func (c *ResultCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// RegisterKeyStrategy overrides key generation for endpoint. A nil strategy
// restores the default.
func (c *ResultCache) RegisterKeyStrategy(endpoint string, strategy KeyStrategy) {
	c.strategyMu.Lock()
	defer c.strategyMu.Unlock()

	if strategy == nil {
		delete(c.strategies, endpoint)
		return
	}
	c.strategies[endpoint] = strategy
}

// GenerateKey returns the cache key of a logical query. Without a registered
// strategy the key is endpoint:<params>:<options> with both bags encoded as
// JSON objects with sorted keys, so map construction order never matters.
func (c *ResultCache) GenerateKey(endpoint string, params Params, opts Options) string {
	c.strategyMu.RLock()
	strategy := c.strategies[endpoint]
	c.strategyMu.RUnlock()

	if strategy != nil {
		return strategy.Key(params, opts)
	}

	return DefaultKey(endpoint, params, opts)
}

// DefaultKey is the key generation used when no strategy is registered.
func DefaultKey(endpoint string, params Params, opts Options) string {
	return endpoint + ":" + encodeBag(params) + ":" + encodeBag(opts)
}

func encodeBag(bag map[string]any) string {
	if len(bag) == 0 {
		return "{}"
	}

	// encoding/json writes map keys in sorted order.
	raw, err := json.Marshal(bag)
	if err != nil {
		// fmt also prints maps with sorted keys.
		return fmt.Sprintf("%v", bag)
	}

	return string(raw)
}

// Get returns the live entry for the query. Expired entries count as a miss
// and are dropped.
func (c *ResultCache) Get(endpoint string, params Params, opts Options) (*Entry, bool) {
	key := c.GenerateKey(endpoint, params, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)
	if !ok {
		c.recordMiss()
		return nil, false
	}

	if entry.IsExpired(c.now()) {
		c.entries.Remove(key)
		c.recordMiss()
		c.syncSize()
		return nil, false
	}

	c.recordHit()
	return entry.clone(), true
}

// GetStale is Get for callers that accept expired data. An expired entry is
// returned once with stale set, accounted as a miss and then dropped.
func (c *ResultCache) GetStale(endpoint string, params Params, opts Options) (entry *Entry, stale bool, ok bool) {
	key := c.GenerateKey(endpoint, params, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	found, ok := c.entries.Get(key)
	if !ok {
		c.recordMiss()
		return nil, false, false
	}

	if found.IsExpired(c.now()) {
		c.entries.Remove(key)
		c.recordMiss()
		c.syncSize()
		return found.clone(), true, true
	}

	c.recordHit()
	return found.clone(), false, true
}

// Has reports whether a live entry exists and marks it as recently used.
// It does not touch hit/miss accounting.
func (c *ResultCache) Has(endpoint string, params Params, opts Options) bool {
	key := c.GenerateKey(endpoint, params, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)
	if !ok {
		return false
	}
	if entry.IsExpired(c.now()) {
		c.entries.Remove(key)
		c.syncSize()
		return false
	}

	return true
}

// Set stores data for the query. A non-positive ttl uses the cache default.
func (c *ResultCache) Set(endpoint string, params Params, opts Options, data any, ttl time.Duration) {
	key := c.GenerateKey(endpoint, params, opts)
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry := &Entry{
		Key:       key,
		Data:      data,
		Timestamp: now,
		ExpiresAt: now.Add(ttl),
		Params:    copyBag(params),
		Options:   copyBag(opts),
	}

	if evicted := c.entries.Add(key, entry); evicted {
		c.evictions++
		c.metrics.evicted()
		c.logger.Debug("cache entry evicted", slog.Int("max_size", c.maxSize))
	}
	c.syncSize()
}

// Keys returns the cached keys from least to most recently used.
func (c *ResultCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.Keys()
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.Len()
}

// Stats returns a snapshot of the cache counters. HitRate is a percentage.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	hitRate := float64(0)
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}

	return Stats{
		Size:      c.entries.Len(),
		HitCount:  c.hits,
		MissCount: c.misses,
		HitRate:   hitRate,
		MaxSize:   c.maxSize,
		Evictions: c.evictions,
	}
}

// Clear drops every entry and resets the counters.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Purge()
	c.hits = 0
	c.misses = 0
	c.evictions = 0
	c.syncSize()
}

func (c *ResultCache) recordHit() {
	c.hits++
	c.metrics.hit()
}

func (c *ResultCache) recordMiss() {
	c.misses++
	c.metrics.miss()
}

// syncSize must be called with mu held.
func (c *ResultCache) syncSize() {
	c.metrics.setSize(c.entries.Len())
}

func (e *Entry) clone() *Entry {
	cp := *e
	return &cp
}

func copyBag[M ~map[string]any](bag M) M {
	cp := make(M, len(bag))
	for k, v := range bag {
		cp[k] = v
	}
	return cp
}
