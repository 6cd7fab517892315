package services

import (
	"time"

	"github.com/gcbaptista/go-book-recommender/model"
)

// RecommendationResult represents the outcome of one recommendation query.
// Hits is always well-formed and possibly empty: failed lookups, malformed
// identifiers and an unavailable similarity index all degrade to an empty
// result rather than an error.
type RecommendationResult struct {
	Source  *model.BookRecord  `json:"source,omitempty"` // the resolved query book, absent on a miss
	Hits    []model.BookRecord `json:"hits"`
	Total   int                `json:"total"`
	Took    int64              `json:"took"`     // milliseconds
	QueryId string             `json:"query_id"` // unique UUID for this query
	Cached  bool               `json:"cached,omitempty"`
}

// BookDetail bundles a catalog record with its nearest neighbors and
// reviews for the composite detail view.
type BookDetail struct {
	Book            model.BookRecord     `json:"book"`
	Recommendations []model.BookRecord   `json:"recommendations"`
	Reviews         []model.RatingRecord `json:"reviews"`
}

// CatalogStatus describes the snapshot currently being served, for health
// and analytics reporting.
type CatalogStatus struct {
	Books          int       `json:"books"`
	Ratings        int       `json:"ratings"`
	VocabularySize int       `json:"vocabulary_size"`
	IndexAvailable bool      `json:"index_available"`
	Generation     uint64    `json:"generation"`
	BuiltAt        time.Time `json:"built_at"`
}

// CatalogReader defines the read-only lookups over the book catalog.
type CatalogReader interface {
	TopBooks(n int) []model.BookRecord
	SearchBooks(query string) []model.BookRecord
	GetBook(id string) (model.BookRecord, error)
	GetReviews(title string, limit int) []model.RatingRecord
	ListBooks() []model.BookRecord
}

// Recommender defines the nearest-neighbor recommendation queries.
type Recommender interface {
	RecommendByTitle(title string, n int) RecommendationResult
	RecommendByID(id string, n int) RecommendationResult
}

// CatalogManager manages the catalog lifecycle: reloads swap the full set
// of derived structures atomically.
type CatalogManager interface {
	Reload() error
	ReloadAsync() (string, error)  // Returns job ID
	PersistAsync() (string, error) // Returns job ID
	Status() CatalogStatus
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}
