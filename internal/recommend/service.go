// Package recommend serves similar-book queries from the engine's active
// snapshot. Lookups that fail to resolve a book return empty results rather
// than errors, matching the read surface of the catalog: a recommendation
// endpoint has nothing useful to do with a miss except show nothing.
package recommend

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-book-recommender/internal/engine"
	"github.com/gcbaptista/go-book-recommender/internal/metrics"
	"github.com/gcbaptista/go-book-recommender/model"
	"github.com/gcbaptista/go-book-recommender/services"
)

const (
	kindTitle = "title"
	kindID    = "id"
)

// SnapshotProvider hands out the active catalog snapshot.
type SnapshotProvider interface {
	Snapshot() *engine.Snapshot
}

// Service implements the services.Recommender interface.
type Service struct {
	provider SnapshotProvider
	cache    *queryCache
	defaultN int
	metrics  *metrics.Metrics
}

// NewService creates a recommendation service. defaultN is the result size
// used when callers pass a non-positive n.
func NewService(provider SnapshotProvider, defaultN, cacheSize int, met *metrics.Metrics) *Service {
	if defaultN <= 0 {
		defaultN = 6
	}
	return &Service{
		provider: provider,
		cache:    newQueryCache(cacheSize),
		defaultN: defaultN,
		metrics:  met,
	}
}

// RecommendByTitle returns the books most similar to the one the title
// resolves to: exact match first, then first case-insensitive substring
// match in catalog order.
func (s *Service) RecommendByTitle(title string, n int) services.RecommendationResult {
	return s.recommend(kindTitle, title, n, func(snap *engine.Snapshot) (int, bool) {
		return snap.Catalog.ResolveTitle(title)
	})
}

// RecommendByID returns the books most similar to the one with the given
// source identifier. Unparseable or unknown identifiers yield empty results.
func (s *Service) RecommendByID(id string, n int) services.RecommendationResult {
	return s.recommend(kindID, id, n, func(snap *engine.Snapshot) (int, bool) {
		parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil || parsed <= 0 {
			return 0, false
		}
		return snap.Catalog.PositionByID(parsed)
	})
}

func (s *Service) recommend(kind, query string, n int, resolve func(*engine.Snapshot) (int, bool)) services.RecommendationResult {
	start := time.Now()
	if n <= 0 {
		n = s.defaultN
	}

	result := services.RecommendationResult{
		Hits:    []model.BookRecord{},
		QueryId: uuid.New().String(),
	}

	snap := s.provider.Snapshot()
	if snap == nil {
		result.Took = time.Since(start).Milliseconds()
		return result
	}

	key := cacheKey(snap.Generation, kind, query, n)
	payload, cached := s.cache.getOrCompute(key, func() cachedResult {
		return compute(snap, n, resolve)
	})

	took := time.Since(start)
	result.Source = payload.source
	result.Hits = payload.hits
	result.Total = len(payload.hits)
	result.Cached = cached
	result.Took = took.Milliseconds()

	s.observe(cached, took, len(payload.hits))
	return result
}

// compute resolves the query book and collects its nearest neighbors. An
// unresolvable query or an unavailable index yields an empty hit list.
func compute(snap *engine.Snapshot, n int, resolve func(*engine.Snapshot) (int, bool)) cachedResult {
	payload := cachedResult{hits: []model.BookRecord{}}

	position, ok := resolve(snap)
	if !ok {
		return payload
	}
	if source, found := snap.Catalog.At(position); found {
		payload.source = &source
	}
	if !snap.IndexAvailable() {
		return payload
	}

	for _, neighbor := range snap.Matrix.TopSimilar(position, n) {
		if book, found := snap.Catalog.At(neighbor.Position); found {
			payload.hits = append(payload.hits, book)
		}
	}
	return payload
}

func (s *Service) observe(cached bool, took time.Duration, hits int) {
	if s.metrics == nil {
		return
	}
	status := "miss"
	if cached {
		status = "hit"
		s.metrics.CacheHitsTotal.Inc()
	} else {
		s.metrics.CacheMissesTotal.Inc()
	}
	s.metrics.RecommendationLatency.WithLabelValues(status).Observe(took.Seconds())
	s.metrics.RecommendationResults.Observe(float64(hits))
}

// CacheStats returns the cache hit and miss counters.
func (s *Service) CacheStats() (hits, misses int64) {
	return s.cache.stats()
}
