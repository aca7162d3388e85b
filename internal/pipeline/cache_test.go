package pipeline

import (
	"testing"

	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/couchcryptid/storm-impact-etl/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// --- mock for cache tests ---

type countingClassifier struct {
	calls int
	seen  []string
}

func (m *countingClassifier) Classify(eventType string) domain.EventGroup {
	m.calls++
	m.seen = append(m.seen, eventType)
	return domain.DefaultClassifier().Classify(eventType)
}

// --- CachedClassifier tests ---

func TestCachedClassifier_CacheHit(t *testing.T) {
	inner := &countingClassifier{}
	cached := NewCachedClassifier(inner, 10, observability.NewMetricsForTesting())

	assert.Equal(t, domain.GroupRainStorms, cached.Classify("TSTM WIND"))
	assert.Equal(t, domain.GroupRainStorms, cached.Classify("tstm wind"))
	assert.Equal(t, domain.GroupRainStorms, cached.Classify("  Tstm Wind "))

	assert.Equal(t, 1, inner.calls, "should only call inner once per normalized type")
	assert.Equal(t, []string{"tstm wind"}, inner.seen)
}

func TestCachedClassifier_DifferentKeysMiss(t *testing.T) {
	inner := &countingClassifier{}
	cached := NewCachedClassifier(inner, 10, observability.NewMetricsForTesting())

	assert.Equal(t, domain.GroupFlood, cached.Classify("FLOOD"))
	assert.Equal(t, domain.GroupFog, cached.Classify("DENSE FOG"))

	assert.Equal(t, 2, inner.calls)
}

func TestCachedClassifier_Disabled(t *testing.T) {
	inner := &countingClassifier{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedClassifier(inner, 0, metrics)

	cached.Classify("HAIL")
	cached.Classify("HAIL")

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.cache.size())
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.ClassifierCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.ClassifierCache.WithLabelValues("hit")), 0)
}

func TestCachedClassifier_CountsHitsAndMisses(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedClassifier(&countingClassifier{}, 10, metrics)

	cached.Classify("FLOOD")
	cached.Classify("flood")
	cached.Classify("HAIL")
	cached.Classify(" Flood ")

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.ClassifierCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.ClassifierCache.WithLabelValues("miss")), 0)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("flood", domain.GroupFlood)
	c.put("hail", domain.GroupTornadoHail)

	g, ok := c.get("flood")
	assert.True(t, ok)
	assert.Equal(t, domain.GroupFlood, g)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GroupFlood)
	c.put("b", domain.GroupFog)
	c.put("c", domain.GroupWinter) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	g, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, domain.GroupFog, g)

	g, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, domain.GroupWinter, g)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GroupFlood)
	c.put("b", domain.GroupFog)

	c.get("a")

	// "b" is now least recently used.
	c.put("c", domain.GroupWinter)

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GroupFlood)
	c.put("a", domain.GroupOthers)

	g, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, domain.GroupOthers, g)
	assert.Equal(t, 1, c.size())
}
