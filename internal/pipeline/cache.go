package pipeline

import (
	"sync"

	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/couchcryptid/storm-impact-etl/internal/observability"
)

// EventClassifier maps an event type to its group.
type EventClassifier interface {
	Classify(eventType string) domain.EventGroup
}

// CachedClassifier wraps an EventClassifier with an in-memory LRU cache
// keyed by normalized event type. The catalog repeats a few hundred distinct
// spellings across most of a million rows.
type CachedClassifier struct {
	inner   EventClassifier
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedClassifier creates a cache decorator around a classifier. A
// non-positive maxEntries disables caching.
func NewCachedClassifier(inner EventClassifier, maxEntries int, metrics *observability.Metrics) *CachedClassifier {
	return &CachedClassifier{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedClassifier) Classify(eventType string) domain.EventGroup {
	key := domain.NormalizeEventType(eventType)
	if g, ok := c.cache.get(key); ok {
		c.metrics.ClassifierCache.WithLabelValues("hit").Inc()
		return g
	}
	c.metrics.ClassifierCache.WithLabelValues("miss").Inc()
	g := c.inner.Classify(key)
	c.cache.put(key, g)
	return g
}

// lruCache is a small thread-safe LRU cache of event groups.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.EventGroup
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.EventGroup, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.EventGroup) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *lruCache) pushFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	tail := c.tail
	delete(c.entries, tail.key)
	c.unlink(tail)
}
