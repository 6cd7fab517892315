package ranking

import (
	"sort"

	"github.com/gcbaptista/go-book-recommender/model"
	"github.com/gcbaptista/go-book-recommender/store"
)

// TopByPopularity returns at most n books ordered by rating descending.
// Review count is the secondary descending key, applied only when the
// catalog schema carries it; beyond that the sort is stable on catalog
// order. An empty or nil catalog yields an empty slice.
func TopByPopularity(catalog *store.Catalog, n int) []model.BookRecord {
	top := make([]model.BookRecord, 0)
	if catalog == nil || n <= 0 {
		return top
	}

	books := catalog.Books()
	order := make([]int, len(books))
	for i := range order {
		order[i] = i
	}

	useReviewCounts := catalog.HasReviewCounts()
	sort.SliceStable(order, func(a, b int) bool {
		ba, bb := books[order[a]], books[order[b]]
		if ba.Rating != bb.Rating {
			return ba.Rating > bb.Rating
		}
		if useReviewCounts && ba.ReviewCount != bb.ReviewCount {
			return ba.ReviewCount > bb.ReviewCount
		}
		return false
	})

	if n > len(order) {
		n = len(order)
	}
	for _, pos := range order[:n] {
		top = append(top, books[pos])
	}
	return top
}
