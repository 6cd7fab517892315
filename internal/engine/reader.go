package engine

import (
	"fmt"
	"strconv"
	"strings"

	internalErrors "github.com/gcbaptista/go-book-recommender/internal/errors"
	"github.com/gcbaptista/go-book-recommender/internal/ranking"
	"github.com/gcbaptista/go-book-recommender/model"
)

// TopBooks returns the n top-rated books from the active snapshot. A
// non-positive n falls back to the configured default.
func (e *Engine) TopBooks(n int) []model.BookRecord {
	snap := e.Snapshot()
	if snap == nil {
		return []model.BookRecord{}
	}
	if n <= 0 {
		n = e.cfg.Engine.TopDefault
	}
	return ranking.TopByPopularity(snap.Catalog, n)
}

// SearchBooks returns books whose title contains the query substring,
// case-insensitively, in catalog order.
func (e *Engine) SearchBooks(query string) []model.BookRecord {
	snap := e.Snapshot()
	if snap == nil {
		return []model.BookRecord{}
	}
	return snap.Catalog.GetByTitleSubstring(query)
}

// GetBook resolves a book by its source identifier.
func (e *Engine) GetBook(id string) (model.BookRecord, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed <= 0 {
		return model.BookRecord{}, internalErrors.NewValidationError("id", fmt.Sprintf("'%s' is not a valid book identifier", id))
	}

	snap := e.Snapshot()
	if snap == nil {
		return model.BookRecord{}, internalErrors.NewBookNotFoundError(id)
	}
	book, ok := snap.Catalog.GetByID(parsed)
	if !ok {
		return model.BookRecord{}, internalErrors.NewBookNotFoundError(id)
	}
	return book, nil
}

// GetReviews returns up to limit rating rows whose title exactly matches. A
// non-positive limit falls back to the configured default.
func (e *Engine) GetReviews(title string, limit int) []model.RatingRecord {
	snap := e.Snapshot()
	if snap == nil {
		return []model.RatingRecord{}
	}
	if limit <= 0 {
		limit = e.cfg.Engine.ReviewsDefault
	}
	return snap.Catalog.GetReviews(title, limit)
}

// ListBooks returns every book in catalog order. Callers must treat the
// returned slice as read-only.
func (e *Engine) ListBooks() []model.BookRecord {
	snap := e.Snapshot()
	if snap == nil {
		return []model.BookRecord{}
	}
	return snap.Catalog.Books()
}
