package orrery

import "math"

// fifoRing is a bounded first-in-first-out queue: pushing onto a full ring evicts the
// oldest inserted item. It does not track recency of use.
type fifoRing[T any] struct {
	items      []T
	head, size int
}

func newFIFORing[T any](capacity int) *fifoRing[T] {
	return &fifoRing[T]{items: make([]T, capacity)}
}

// push appends an item and returns the evicted one, if any.
func (r *fifoRing[T]) push(item T) (evicted T, ok bool) {
	if r.size == len(r.items) {
		evicted, ok = r.items[r.head], true
		r.items[r.head] = item
		r.head = (r.head + 1) % len(r.items)
		return
	}
	r.items[(r.head+r.size)%len(r.items)] = item
	r.size++
	return
}

func (r *fifoRing[T]) len() int {
	return r.size
}

type stateKey struct {
	body   int
	bucket int64
}

type stateEntry struct {
	key   stateKey
	state OrbitalState
}

// fifoStateCache memoizes states keyed by (body, time). Times within the tolerance of a
// cached time share its entry. Entries are evicted in insertion order.
type fifoStateCache struct {
	tolerance float64
	buckets   map[stateKey][]*stateEntry
	order     *fifoRing[*stateEntry]
}

func newFIFOStateCache(capacity int, tolerance float64) *fifoStateCache {
	return &fifoStateCache{
		tolerance: tolerance,
		buckets:   make(map[stateKey][]*stateEntry),
		order:     newFIFORing[*stateEntry](capacity),
	}
}

func (c *fifoStateCache) bucket(jd float64) int64 {
	return int64(math.Floor(jd / c.tolerance))
}

// get returns the cached state of this body within the tolerance of jd.
func (c *fifoStateCache) get(body int, jd float64) (OrbitalState, bool) {
	b := c.bucket(jd)
	// A time within the tolerance is at most one bucket away.
	for d := int64(-1); d <= 1; d++ {
		for _, entry := range c.buckets[stateKey{body, b + d}] {
			if math.Abs(entry.state.JD-jd) < c.tolerance {
				return entry.state, true
			}
		}
	}
	return OrbitalState{}, false
}

// put inserts a state and returns whether an older entry was evicted.
func (c *fifoStateCache) put(body int, st OrbitalState) bool {
	entry := &stateEntry{key: stateKey{body, c.bucket(st.JD)}, state: st}
	c.buckets[entry.key] = append(c.buckets[entry.key], entry)
	old, evicted := c.order.push(entry)
	if evicted {
		c.remove(old)
	}
	return evicted
}

func (c *fifoStateCache) remove(entry *stateEntry) {
	entries := c.buckets[entry.key]
	for k, e := range entries {
		if e == entry {
			entries = append(entries[:k], entries[k+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(c.buckets, entry.key)
		return
	}
	c.buckets[entry.key] = entries
}

func (c *fifoStateCache) len() int {
	return c.order.len()
}

type predictionKey struct {
	body                  string
	start, duration, step float64
}

// fifoPredictionCache memoizes trajectory predictions, evicting in insertion order.
type fifoPredictionCache struct {
	entries map[predictionKey]OrbitalPrediction
	order   *fifoRing[predictionKey]
}

func newFIFOPredictionCache(capacity int) *fifoPredictionCache {
	return &fifoPredictionCache{
		entries: make(map[predictionKey]OrbitalPrediction),
		order:   newFIFORing[predictionKey](capacity),
	}
}

func (c *fifoPredictionCache) get(key predictionKey) (OrbitalPrediction, bool) {
	p, ok := c.entries[key]
	return p, ok
}

func (c *fifoPredictionCache) put(key predictionKey, p OrbitalPrediction) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = p
		return
	}
	c.entries[key] = p
	if old, evicted := c.order.push(key); evicted {
		delete(c.entries, old)
	}
}

func (c *fifoPredictionCache) len() int {
	return len(c.entries)
}

// CacheStats are the diagnostics counters of an Engine.
type CacheStats struct {
	Hits, Misses, Evictions          uint64 // state cache
	PredictionHits, PredictionMisses uint64
	KeplerFallbacks                  uint64 // solves which fell back to bisection
	States, Predictions              int    // current cache sizes
}
