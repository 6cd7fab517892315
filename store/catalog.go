package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"

	"github.com/gcbaptista/go-book-recommender/model"
)

// SearchResultCap bounds the number of records a substring search returns.
const SearchResultCap = 20

// Catalog holds the cleaned book and rating records in memory. Positions
// 0..N-1 in the book sequence are the internal key shared with the term
// vectors and the similarity matrix; the ID field comes from the source and
// may be duplicated or absent. A Catalog is built once and never mutated:
// reloads construct a fresh Catalog and swap it in wholesale, so concurrent
// readers need no locking.
type Catalog struct {
	books           []model.BookRecord
	ratings         []model.RatingRecord
	byID            map[int64]int    // first occurrence wins, IDs <= 0 excluded
	titleIndex      map[string]int   // first occurrence wins
	loweredTitles   []string         // precomputed for substring search
	reviewsByTitle  map[string][]int // rating positions per title, source order
	hasReviewCounts bool
}

// NewCatalog builds the positional lookup structures over cleaned records.
// hasReviewCounts records whether the books source carried the review-count
// column; popularity ranking uses it as a tiebreaker only when present.
func NewCatalog(books []model.BookRecord, ratings []model.RatingRecord, hasReviewCounts bool) *Catalog {
	c := &Catalog{
		books:           books,
		ratings:         ratings,
		byID:            make(map[int64]int),
		titleIndex:      make(map[string]int),
		loweredTitles:   make([]string, len(books)),
		reviewsByTitle:  make(map[string][]int),
		hasReviewCounts: hasReviewCounts,
	}

	for pos, book := range books {
		if book.ID > 0 {
			if _, exists := c.byID[book.ID]; !exists {
				c.byID[book.ID] = pos
			}
		}
		if _, exists := c.titleIndex[book.Title]; !exists {
			c.titleIndex[book.Title] = pos
		}
		c.loweredTitles[pos] = strings.ToLower(book.Title)
	}

	for pos, rating := range ratings {
		c.reviewsByTitle[rating.Title] = append(c.reviewsByTitle[rating.Title], pos)
	}

	return c
}

// Size returns the number of books in the catalog.
func (c *Catalog) Size() int {
	return len(c.books)
}

// RatingCount returns the number of rating records.
func (c *Catalog) RatingCount() int {
	return len(c.ratings)
}

// HasReviewCounts reports whether the books source had the review-count
// column.
func (c *Catalog) HasReviewCounts() bool {
	return c.hasReviewCounts
}

// Books returns the catalog in positional order. Callers must treat the
// returned slice as read-only.
func (c *Catalog) Books() []model.BookRecord {
	return c.books
}

// At returns the book at a catalog position.
func (c *Catalog) At(pos int) (model.BookRecord, bool) {
	if pos < 0 || pos >= len(c.books) {
		return model.BookRecord{}, false
	}
	return c.books[pos], true
}

// GetByID returns the first catalog record whose identifier matches id.
// Records without a usable identifier (ID 0) never match.
func (c *Catalog) GetByID(id int64) (model.BookRecord, bool) {
	pos, ok := c.PositionByID(id)
	if !ok {
		return model.BookRecord{}, false
	}
	return c.books[pos], true
}

// PositionByID resolves an identifier to a catalog position.
func (c *Catalog) PositionByID(id int64) (int, bool) {
	if id <= 0 {
		return 0, false
	}
	pos, ok := c.byID[id]
	return pos, ok
}

// ResolveTitle resolves a title to a catalog position: exact title-index
// match first, then the first case-insensitive substring match in catalog
// order. When several books share a title the first catalog occurrence wins.
func (c *Catalog) ResolveTitle(title string) (int, bool) {
	if pos, ok := c.titleIndex[title]; ok {
		return pos, true
	}
	if title == "" {
		return 0, false
	}
	lowered := strings.ToLower(title)
	for pos, candidate := range c.loweredTitles {
		if strings.Contains(candidate, lowered) {
			return pos, true
		}
	}
	return 0, false
}

// GetByTitleSubstring returns books whose title contains the query,
// case-insensitively, in catalog order, capped at SearchResultCap. An empty
// query yields an empty result.
func (c *Catalog) GetByTitleSubstring(query string) []model.BookRecord {
	matches := make([]model.BookRecord, 0)
	if query == "" {
		return matches
	}
	lowered := strings.ToLower(query)
	for pos, candidate := range c.loweredTitles {
		if strings.Contains(candidate, lowered) {
			matches = append(matches, c.books[pos])
			if len(matches) == SearchResultCap {
				break
			}
		}
	}
	return matches
}

// GetReviews returns at most limit rating records whose title exactly
// matches the given title, in source order. An unmatched title yields an
// empty result, never an error.
func (c *Catalog) GetReviews(title string, limit int) []model.RatingRecord {
	reviews := make([]model.RatingRecord, 0)
	if limit <= 0 {
		return reviews
	}
	for _, pos := range c.reviewsByTitle[title] {
		reviews = append(reviews, c.ratings[pos])
		if len(reviews) == limit {
			break
		}
	}
	return reviews
}

// gobCatalogData is a helper struct for Gob encoding/decoding Catalog data.
// Only the source rows are persisted; the lookup structures are rebuilt on
// decode.
type gobCatalogData struct {
	Books           []model.BookRecord
	Ratings         []model.RatingRecord
	HasReviewCounts bool
}

// GobEncode implements the gob.GobEncoder interface for Catalog.
func (c *Catalog) GobEncode() ([]byte, error) {
	dataToEncode := gobCatalogData{
		Books:           c.books,
		Ratings:         c.ratings,
		HasReviewCounts: c.hasReviewCounts,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode catalog data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for Catalog.
func (c *Catalog) GobDecode(data []byte) error {
	decodedData := gobCatalogData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode catalog data: %w", err)
	}

	*c = *NewCatalog(decodedData.Books, decodedData.Ratings, decodedData.HasReviewCounts)
	return nil
}
