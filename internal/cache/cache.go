// Package cache memoizes resolution outcomes so repeated queries skip the
// cost of a fresh browser navigation within the TTL window.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/handsfree/webnav/internal/shared/types"
)

// MaxKeyLength bounds normalized keys. Queries come from speech transcription
// and can be arbitrarily long garbage; unbounded keys are a memory-growth
// vector.
const MaxKeyLength = 500

// DefaultTTL and DefaultMaxEntries apply when the corresponding option is
// zero or negative.
const (
	DefaultTTL        = 15 * time.Minute
	DefaultMaxEntries = 100
)

type entry struct {
	key       string
	result    types.ResolutionResult
	timestamp time.Time
}

// Cache is a thread-safe TTL + LRU store of resolution results keyed by
// normalized query text.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List // front = most recently used
	items      map[string]*list.Element

	// clock is swappable for expiry tests.
	clock func() time.Time
}

// New creates a cache with the given TTL and capacity.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
		clock:      time.Now,
	}
}

// NormalizeKey trims, casefolds and length-bounds a raw query so lookups hit
// regardless of surface differences in the spoken text.
func NormalizeKey(query string) string {
	key := strings.ToLower(strings.TrimSpace(query))
	if len(key) > MaxKeyLength {
		key = key[:MaxKeyLength]
	}
	return key
}

// Get returns the cached result for query if present and fresh. An expired
// entry found on the way is removed.
func (c *Cache) Get(query string) (types.ResolutionResult, bool) {
	key := NormalizeKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return types.ResolutionResult{}, false
	}

	e := el.Value.(*entry)
	if c.clock().Sub(e.timestamp) > c.ttl {
		c.removeLocked(el)
		return types.ResolutionResult{}, false
	}

	c.order.MoveToFront(el)
	return e.result, true
}

// Put stores a terminal result. Expired entries are swept proactively before
// insertion; if the cache is still full the least-recently-used entry is
// evicted. Re-putting an existing key refreshes its timestamp and recency.
func (c *Cache) Put(query string, result types.ResolutionResult) {
	key := NormalizeKey(query)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	c.sweepLocked(now)

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.result = result
		e.timestamp = now
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxEntries {
		if back := c.order.Back(); back != nil {
			c.removeLocked(back)
		}
	}

	el := c.order.PushFront(&entry{key: key, result: result, timestamp: now})
	c.items[key] = el
}

// Clear removes everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// Len reports the current entry count, including expired entries that have
// not been swept yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// sweepLocked drops every expired entry. Caller holds the lock.
func (c *Cache) sweepLocked(now time.Time) {
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.Sub(el.Value.(*entry).timestamp) > c.ttl {
			c.removeLocked(el)
		}
		el = prev
	}
}

// removeLocked unlinks an element. Caller holds the lock.
func (c *Cache) removeLocked(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
