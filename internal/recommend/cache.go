package recommend

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/gcbaptista/go-book-recommender/model"
)

const defaultCacheCapacity = 512

// cachedResult is the cache payload: the parts of a recommendation response
// that do not vary per request.
type cachedResult struct {
	source *model.BookRecord
	hits   []model.BookRecord
}

// queryCache memoizes recommendation results per snapshot generation.
// Entries are keyed by a hash of (generation, kind, query, n), so a reload
// naturally stops hitting stale entries and the size bound evicts them over
// time. Concurrent misses for the same key collapse into a single
// computation.
type queryCache struct {
	group    singleflight.Group
	mu       sync.Mutex
	entries  map[string]cachedResult
	order    []string // insertion order, oldest first
	capacity int
	hits     atomic.Int64
	misses   atomic.Int64
}

func newQueryCache(capacity int) *queryCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &queryCache{
		entries:  make(map[string]cachedResult),
		capacity: capacity,
	}
}

func (c *queryCache) get(key string) (cachedResult, bool) {
	c.mu.Lock()
	result, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return result, ok
}

func (c *queryCache) set(key string, result cachedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
		for len(c.order) > c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	c.entries[key] = result
}

// getOrCompute returns the cached result for key, computing and storing it
// on a miss. The second return reports whether the result came from cache.
func (c *queryCache) getOrCompute(key string, computeFn func() cachedResult) (cachedResult, bool) {
	if result, ok := c.get(key); ok {
		return result, true
	}
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.get(key); ok {
			return result, nil
		}
		result := computeFn()
		c.set(key, result)
		return result, nil
	})
	return val.(cachedResult), false
}

func (c *queryCache) stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// cacheKey hashes the full query identity. The query string goes in raw:
// title resolution is case- and whitespace-sensitive, so two spellings that
// resolve differently must never share an entry.
func cacheKey(generation uint64, kind, query string, n int) string {
	raw := fmt.Sprintf("%d:%s:%s:n=%d", generation, kind, query, n)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", hash[:16])
}
