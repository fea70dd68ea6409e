// Package cache provides the in-memory TTL cache backing the API client.
// Entries expire lazily: there is no background sweep, a stale entry is
// dropped the next time it is looked up. Eventual reclamation of untouched
// keys is not promised; callers with long-lived processes should Invalidate.
package cache

import (
	"regexp"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called without an explicit TTL.
const DefaultTTL = 5 * time.Minute

var NowFunc = time.Now // mockable

// Entry is a cached value with its lifetime bounds.
type Entry struct {
	Value     interface{}
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (e Entry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Cache is a mutex-guarded TTL map. Instances are cheap; create one per
// client (or per test) instead of sharing a package-level singleton.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	defaultTTL time.Duration
}

func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]Entry),
		defaultTTL: defaultTTL,
	}
}

// Set stores data under key, unconditionally overwriting any previous entry.
func (c *Cache) Set(key string, data interface{}, ttl ...time.Duration) {
	d := c.defaultTTL
	if len(ttl) > 0 && ttl[0] > 0 {
		d = ttl[0]
	}
	now := NowFunc()

	c.mu.Lock()
	c.entries[key] = Entry{
		Value:     data,
		CreatedAt: now,
		ExpiresAt: now.Add(d),
	}
	c.mu.Unlock()
	cacheWrites.Inc()
}

// Get returns the cached value for key. Expired entries are deleted and
// reported as absent; callers cannot tell "expired" from "never set".
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		cacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if ent.expired(NowFunc()) {
		delete(c.entries, key)
		cacheLookups.WithLabelValues("expired").Inc()
		return nil, false
	}
	cacheLookups.WithLabelValues("hit").Inc()
	return ent.Value, true
}

// Has is Get without the value; it shares Get's lazy expiry side effect.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Invalidate clears the whole cache when called without a pattern; otherwise
// the pattern is compiled as a regexp and every matching key is deleted.
// Callers are responsible for escaping metacharacters in dynamic segments
// (see client.EscapeKey).
func (c *Cache) Invalidate(pattern ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(pattern) == 0 || pattern[0] == "" {
		n := len(c.entries)
		c.entries = make(map[string]Entry)
		cacheInvalidations.Add(float64(n))
		return nil
	}

	re, err := regexp.Compile(pattern[0])
	if err != nil {
		return err
	}
	for key := range c.entries {
		if re.MatchString(key) {
			delete(c.entries, key)
			cacheInvalidations.Inc()
		}
	}
	return nil
}

// Len counts live entries; expired-but-unvisited ones are included since
// expiry is lazy.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
