// Package engine orchestrates catalog ingestion, term-vector building, and
// the similarity index. It serves every read from an immutable snapshot and
// swaps in a fresh snapshot wholesale on reload, so queries never observe a
// half-built catalog.
package engine

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gcbaptista/go-book-recommender/config"
	internalErrors "github.com/gcbaptista/go-book-recommender/internal/errors"
	"github.com/gcbaptista/go-book-recommender/internal/ingest"
	"github.com/gcbaptista/go-book-recommender/internal/jobs"
	"github.com/gcbaptista/go-book-recommender/internal/metrics"
	"github.com/gcbaptista/go-book-recommender/internal/persistence"
	"github.com/gcbaptista/go-book-recommender/internal/similarity"
	"github.com/gcbaptista/go-book-recommender/internal/vectorizer"
	"github.com/gcbaptista/go-book-recommender/services"
	"github.com/gcbaptista/go-book-recommender/store"
)

const (
	dataDirPerm  = 0750
	snapshotFile = "catalog_snapshot.gob"
)

// Engine owns the active catalog snapshot.
// It implements the services.CatalogReader and services.CatalogManager
// interfaces.
type Engine struct {
	mu         sync.RWMutex
	snapshot   *Snapshot
	generation uint64

	cfg        *config.Config
	jobManager *jobs.Manager
	metrics    *metrics.Metrics
}

// New creates the catalog engine and loads a persisted snapshot when one
// exists. It does not read the CSV sources; callers trigger that through
// Reload or ReloadAsync.
func New(cfg *config.Config, jobManager *jobs.Manager, met *metrics.Metrics) *Engine {
	eng := &Engine{
		cfg:        cfg,
		jobManager: jobManager,
		metrics:    met,
	}
	if err := os.MkdirAll(cfg.Data.Dir, dataDirPerm); err != nil {
		slog.Warn("Could not create data directory, proceeding without persistence", "dir", cfg.Data.Dir, "error", err)
	}
	eng.loadSnapshotFromDisk()
	return eng
}

// Snapshot returns the active snapshot, or nil before the first load.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// loadSnapshotFromDisk restores the last persisted snapshot, if any.
func (e *Engine) loadSnapshotFromDisk() {
	path := filepath.Join(e.cfg.Data.Dir, snapshotFile)
	snap := &Snapshot{}
	if err := persistence.LoadGob(path, snap); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("No catalog snapshot on disk", "path", path)
		} else {
			slog.Warn("Failed to load catalog snapshot, starting empty", "path", path, "error", err)
		}
		return
	}

	e.restoreIndex(snap)

	e.mu.Lock()
	e.snapshot = snap
	e.generation = snap.Generation
	e.mu.Unlock()

	e.publishSnapshotMetrics(snap)
	slog.Info("Loaded catalog snapshot",
		"books", snap.Catalog.Size(),
		"ratings", snap.Catalog.RatingCount(),
		"generation", snap.Generation,
		"index_available", snap.IndexAvailable(),
	)
}

// restoreIndex re-derives the index state of a snapshot loaded from disk
// under the current threshold. A snapshot persisted without a matrix gets
// one rebuilt when the catalog now fits below the threshold; otherwise the
// unavailability reason is recorded again.
func (e *Engine) restoreIndex(snap *Snapshot) {
	if snap.Matrix != nil {
		return
	}
	threshold := e.cfg.Engine.EagerIndexThreshold
	if snap.Catalog.Size() >= threshold {
		snap.IndexErr = internalErrors.NewIndexUnavailableError(snap.Catalog.Size(), threshold)
		return
	}
	matrix, err := e.buildIndex(snap.Vectors)
	snap.Matrix = matrix
	snap.IndexErr = err
}

// Reload rebuilds the snapshot from the CSV sources and swaps it in. When a
// source file is missing and a previous snapshot is being served, the old
// snapshot stays in place and the error is returned; with nothing to serve
// yet, the degraded (empty) snapshot is installed so the service can run.
func (e *Engine) Reload() error {
	return e.reload(nil)
}

// reload is the shared synchronous reload path; progress is optional and
// reports coarse pipeline steps for job tracking.
func (e *Engine) reload(progress func(step int, message string)) error {
	report := func(step int, message string) {
		if progress != nil {
			progress(step, message)
		}
	}

	report(1, "Reading catalog sources")
	books, hasReviewCounts, booksErr := ingest.ReadBooks(e.cfg.Data.BooksPath)
	ratings, ratingsErr := ingest.ReadRatings(e.cfg.Data.RatingsPath)
	if booksErr != nil {
		slog.Warn("Books source unavailable", "path", e.cfg.Data.BooksPath, "error", booksErr)
	}
	if ratingsErr != nil {
		slog.Warn("Ratings source unavailable", "path", e.cfg.Data.RatingsPath, "error", ratingsErr)
	}

	srcErr := booksErr
	if srcErr == nil {
		srcErr = ratingsErr
	}
	if srcErr != nil && errors.Is(srcErr, internalErrors.ErrSourceMissing) && e.Snapshot() != nil {
		return srcErr
	}

	catalog := store.NewCatalog(books, ratings, hasReviewCounts)

	report(2, "Building term vectors")
	blobs := make([]string, len(books))
	for i, book := range books {
		blobs[i] = book.Blob()
	}
	termModel, vectors := vectorizer.Build(blobs)

	report(3, "Building similarity index")
	matrix, indexErr := e.buildIndex(vectors)

	snap := &Snapshot{
		Catalog:  catalog,
		Model:    termModel,
		Vectors:  vectors,
		Matrix:   matrix,
		IndexErr: indexErr,
		BuiltAt:  time.Now(),
	}

	report(4, "Installing snapshot")
	e.install(snap)

	report(5, "Persisting snapshot")
	if err := e.persistSnapshot(snap); err != nil {
		slog.Warn("Failed to persist catalog snapshot", "error", err)
	}

	return srcErr
}

// buildIndex runs the similarity build with metrics around it. The returned
// error is nil, an IndexUnavailableError for catalogs at or above the eager
// threshold, or an ErrIndexBuildFailed wrap.
func (e *Engine) buildIndex(vectors []vectorizer.Vector) (*similarity.Matrix, error) {
	start := time.Now()
	matrix, err := similarity.Build(vectors, e.cfg.Engine.EagerIndexThreshold)
	elapsed := time.Since(start)

	if e.metrics != nil {
		switch {
		case err == nil:
			e.metrics.IndexBuildsTotal.WithLabelValues("built").Inc()
			e.metrics.IndexBuildDuration.Observe(elapsed.Seconds())
		case errors.Is(err, internalErrors.ErrIndexUnavailable):
			e.metrics.IndexBuildsTotal.WithLabelValues("skipped").Inc()
		default:
			e.metrics.IndexBuildsTotal.WithLabelValues("failed").Inc()
		}
	}
	if err != nil {
		slog.Warn("Similarity index unavailable", "error", err)
		return nil, err
	}
	slog.Info("Similarity index built", "positions", matrix.Size(), "duration", elapsed)
	return matrix, nil
}

// install swaps the active snapshot and stamps its generation.
func (e *Engine) install(snap *Snapshot) {
	e.mu.Lock()
	e.generation++
	snap.Generation = e.generation
	e.snapshot = snap
	e.mu.Unlock()

	e.publishSnapshotMetrics(snap)
	slog.Info("Catalog snapshot installed",
		"generation", snap.Generation,
		"books", snap.Catalog.Size(),
		"ratings", snap.Catalog.RatingCount(),
		"index_available", snap.IndexAvailable(),
	)
}

// persistSnapshot writes the snapshot to the data directory.
func (e *Engine) persistSnapshot(snap *Snapshot) error {
	return persistence.SaveGob(filepath.Join(e.cfg.Data.Dir, snapshotFile), snap)
}

func (e *Engine) publishSnapshotMetrics(snap *Snapshot) {
	if e.metrics == nil {
		return
	}
	e.metrics.CatalogBooks.Set(float64(snap.Catalog.Size()))
	e.metrics.CatalogRatings.Set(float64(snap.Catalog.RatingCount()))
	e.metrics.SnapshotGeneration.Set(float64(snap.Generation))
}

// Status reports the snapshot currently being served.
func (e *Engine) Status() services.CatalogStatus {
	snap := e.Snapshot()
	if snap == nil {
		return services.CatalogStatus{}
	}
	return services.CatalogStatus{
		Books:          snap.Catalog.Size(),
		Ratings:        snap.Catalog.RatingCount(),
		VocabularySize: len(snap.Model.Vocabulary),
		IndexAvailable: snap.IndexAvailable(),
		Generation:     snap.Generation,
		BuiltAt:        snap.BuiltAt,
	}
}
