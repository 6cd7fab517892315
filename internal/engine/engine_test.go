package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gcbaptista/go-book-recommender/config"
	internalErrors "github.com/gcbaptista/go-book-recommender/internal/errors"
	"github.com/gcbaptista/go-book-recommender/internal/jobs"
	"github.com/gcbaptista/go-book-recommender/model"
)

const testBooksCSV = `Id,Name,Authors,Publisher,Rating,CountsOfReview
1,Dune,Frank Herbert,Chilton Books,4.25,4100
2,Dune Messiah,Frank Herbert,Putnam,3.88,1500
3,Cooking for Beginners,Julia Banks,Harvest House,4.60,200
4,The Dispossessed,Ursula K. Le Guin,Harper & Row,4.21,900
`

const testRatingsCSV = `Name,Rating
Dune,it was amazing
Dune,really liked it
Cooking for Beginners,did not like it
`

// newTestConfig writes the CSV fixtures into a temp directory and returns a
// config pointing at them.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	booksPath := filepath.Join(dir, "books.csv")
	if err := os.WriteFile(booksPath, []byte(testBooksCSV), 0o644); err != nil {
		t.Fatalf("Failed to write books fixture: %v", err)
	}
	ratingsPath := filepath.Join(dir, "ratings.csv")
	if err := os.WriteFile(ratingsPath, []byte(testRatingsCSV), 0o644); err != nil {
		t.Fatalf("Failed to write ratings fixture: %v", err)
	}

	return &config.Config{
		Data: config.DataConfig{
			BooksPath:   booksPath,
			RatingsPath: ratingsPath,
			Dir:         filepath.Join(dir, "state"),
		},
		Engine: config.EngineConfig{
			EagerIndexThreshold: 5000,
			TopDefault:          12,
			RecommendDefault:    6,
			ReviewsDefault:      3,
			JobWorkers:          2,
		},
	}
}

func newTestEngine(t *testing.T, cfg *config.Config) (*Engine, *jobs.Manager) {
	t.Helper()
	jobManager := jobs.NewManager(cfg.Engine.JobWorkers)
	jobManager.Start()
	t.Cleanup(jobManager.Stop)
	return New(cfg, jobManager, nil), jobManager
}

// waitForJob polls until the job leaves the pending/running states.
func waitForJob(t *testing.T, jobManager *jobs.Manager, jobID string) *model.Job {
	t.Helper()
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			t.Fatal("Job did not finish within timeout")
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			if err != nil {
				t.Fatalf("Failed to get job status: %v", err)
			}
			if job.Status != model.JobStatusPending && job.Status != model.JobStatusRunning {
				return job
			}
		}
	}
}

func TestEngine_ReloadBuildsSnapshot(t *testing.T) {
	cfg := newTestConfig(t)
	engine, _ := newTestEngine(t, cfg)

	if engine.Snapshot() != nil {
		t.Fatal("Expected no snapshot before the first reload")
	}

	if err := engine.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	status := engine.Status()
	if status.Books != 4 {
		t.Errorf("Expected 4 books, got %d", status.Books)
	}
	if status.Ratings != 3 {
		t.Errorf("Expected 3 ratings, got %d", status.Ratings)
	}
	if !status.IndexAvailable {
		t.Error("Expected similarity index to be available")
	}
	if status.Generation != 1 {
		t.Errorf("Expected generation 1, got %d", status.Generation)
	}
	if status.VocabularySize == 0 {
		t.Error("Expected a non-empty vocabulary")
	}
	if status.BuiltAt.IsZero() {
		t.Error("Expected built timestamp to be set")
	}
}

func TestEngine_ReloadSwapsSnapshotWholesale(t *testing.T) {
	cfg := newTestConfig(t)
	engine, _ := newTestEngine(t, cfg)

	if err := engine.Reload(); err != nil {
		t.Fatalf("First reload failed: %v", err)
	}
	first := engine.Snapshot()

	// Shrink the source and reload; the old snapshot must stay intact.
	smaller := `Id,Name,Authors,Publisher,Rating,CountsOfReview
1,Dune,Frank Herbert,Chilton Books,4.25,4100
`
	if err := os.WriteFile(cfg.Data.BooksPath, []byte(smaller), 0o644); err != nil {
		t.Fatalf("Failed to rewrite books fixture: %v", err)
	}
	if err := engine.Reload(); err != nil {
		t.Fatalf("Second reload failed: %v", err)
	}

	second := engine.Snapshot()
	if second == first {
		t.Fatal("Expected a fresh snapshot after reload")
	}
	if second.Catalog.Size() != 1 {
		t.Errorf("Expected 1 book after reload, got %d", second.Catalog.Size())
	}
	if second.Generation != 2 {
		t.Errorf("Expected generation 2, got %d", second.Generation)
	}
	if first.Catalog.Size() != 4 {
		t.Errorf("Old snapshot mutated: expected 4 books, got %d", first.Catalog.Size())
	}
}

func TestEngine_MissingBooksSource_FirstLoadDegrades(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Data.BooksPath = filepath.Join(t.TempDir(), "absent.csv")
	engine, _ := newTestEngine(t, cfg)

	err := engine.Reload()
	if !errors.Is(err, internalErrors.ErrSourceMissing) {
		t.Fatalf("Expected ErrSourceMissing, got %v", err)
	}

	// With nothing else to serve, the empty snapshot is still installed.
	if engine.Snapshot() == nil {
		t.Fatal("Expected a degraded snapshot to be installed")
	}
	status := engine.Status()
	if status.Books != 0 {
		t.Errorf("Expected empty catalog, got %d books", status.Books)
	}
	if len(engine.TopBooks(5)) != 0 {
		t.Error("Expected no top books from an empty catalog")
	}
}

func TestEngine_MissingSource_KeepsPreviousSnapshot(t *testing.T) {
	cfg := newTestConfig(t)
	engine, _ := newTestEngine(t, cfg)

	if err := engine.Reload(); err != nil {
		t.Fatalf("Initial reload failed: %v", err)
	}

	cfg.Data.BooksPath = filepath.Join(t.TempDir(), "vanished.csv")
	err := engine.Reload()
	if !errors.Is(err, internalErrors.ErrSourceMissing) {
		t.Fatalf("Expected ErrSourceMissing, got %v", err)
	}

	status := engine.Status()
	if status.Books != 4 {
		t.Errorf("Expected previous snapshot to survive, got %d books", status.Books)
	}
	if status.Generation != 1 {
		t.Errorf("Expected generation to stay at 1, got %d", status.Generation)
	}
}

func TestEngine_ThresholdDisablesIndex(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Engine.EagerIndexThreshold = 2
	engine, _ := newTestEngine(t, cfg)

	if err := engine.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	status := engine.Status()
	if status.IndexAvailable {
		t.Error("Expected index unavailable for catalog at threshold")
	}
	snap := engine.Snapshot()
	if !errors.Is(snap.IndexErr, internalErrors.ErrIndexUnavailable) {
		t.Errorf("Expected ErrIndexUnavailable recorded on snapshot, got %v", snap.IndexErr)
	}

	// Catalog reads still work in the degraded state.
	if got := len(engine.SearchBooks("dune")); got != 2 {
		t.Errorf("Expected 2 search hits in degraded state, got %d", got)
	}
}

func TestEngine_SnapshotPersistsAcrossRestart(t *testing.T) {
	cfg := newTestConfig(t)
	engine, _ := newTestEngine(t, cfg)
	if err := engine.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	restarted, _ := newTestEngine(t, cfg)
	status := restarted.Status()
	if status.Books != 4 {
		t.Errorf("Expected 4 books from persisted snapshot, got %d", status.Books)
	}
	if status.Generation != 1 {
		t.Errorf("Expected persisted generation 1, got %d", status.Generation)
	}
	if !status.IndexAvailable {
		t.Error("Expected similarity index restored from snapshot")
	}

	book, err := restarted.GetBook("2")
	if err != nil {
		t.Fatalf("GetBook after restart failed: %v", err)
	}
	if book.Title != "Dune Messiah" {
		t.Errorf("Expected 'Dune Messiah', got %q", book.Title)
	}
}

func TestEngine_GetBook(t *testing.T) {
	cfg := newTestConfig(t)
	engine, _ := newTestEngine(t, cfg)
	if err := engine.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	tests := []struct {
		name    string
		id      string
		wantErr error
		title   string
	}{
		{name: "existing id", id: "1", title: "Dune"},
		{name: "id with spaces", id: " 3 ", title: "Cooking for Beginners"},
		{name: "unknown id", id: "999", wantErr: internalErrors.ErrBookNotFound},
		{name: "non-numeric id", id: "abc", wantErr: internalErrors.ErrInvalidInput},
		{name: "zero id", id: "0", wantErr: internalErrors.ErrInvalidInput},
		{name: "negative id", id: "-2", wantErr: internalErrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, err := engine.GetBook(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetBook(%q) failed: %v", tt.id, err)
			}
			if book.Title != tt.title {
				t.Errorf("Expected title %q, got %q", tt.title, book.Title)
			}
		})
	}
}

func TestEngine_ReaderDefaults(t *testing.T) {
	cfg := newTestConfig(t)
	engine, _ := newTestEngine(t, cfg)
	if err := engine.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	// n <= 0 falls back to the configured defaults.
	cfg.Engine.TopDefault = 2
	if got := len(engine.TopBooks(0)); got != 2 {
		t.Errorf("Expected TopBooks default of 2, got %d", got)
	}

	cfg.Engine.ReviewsDefault = 1
	if got := len(engine.GetReviews("Dune", 0)); got != 1 {
		t.Errorf("Expected GetReviews default of 1, got %d", got)
	}

	if got := len(engine.GetReviews("Dune", 5)); got != 2 {
		t.Errorf("Expected 2 reviews for Dune, got %d", got)
	}

	if got := len(engine.ListBooks()); got != 4 {
		t.Errorf("Expected 4 books listed, got %d", got)
	}
}

func TestEngine_ReloadAsync(t *testing.T) {
	cfg := newTestConfig(t)
	engine, jobManager := newTestEngine(t, cfg)

	jobID, err := engine.ReloadAsync()
	if err != nil {
		t.Fatalf("ReloadAsync failed: %v", err)
	}
	if jobID == "" {
		t.Fatal("Expected non-empty job ID")
	}

	job := waitForJob(t, jobManager, jobID)
	if job.Status != model.JobStatusCompleted {
		t.Fatalf("Expected completed job, got %s (error: %s)", job.Status, job.Error)
	}
	if job.Type != model.JobTypeReloadCatalog {
		t.Errorf("Expected job type %s, got %s", model.JobTypeReloadCatalog, job.Type)
	}
	if job.Target != "catalog" {
		t.Errorf("Expected target 'catalog', got %s", job.Target)
	}
	if job.Progress == nil || job.Progress.Current != reloadJobSteps {
		t.Errorf("Expected progress to reach %d steps, got %+v", reloadJobSteps, job.Progress)
	}

	if engine.Status().Books != 4 {
		t.Errorf("Expected snapshot installed by async reload, got %d books", engine.Status().Books)
	}
}

func TestEngine_ReloadAsync_MissingSourceFails(t *testing.T) {
	cfg := newTestConfig(t)
	engine, jobManager := newTestEngine(t, cfg)
	if err := engine.Reload(); err != nil {
		t.Fatalf("Initial reload failed: %v", err)
	}

	cfg.Data.BooksPath = filepath.Join(t.TempDir(), "gone.csv")
	jobID, err := engine.ReloadAsync()
	if err != nil {
		t.Fatalf("ReloadAsync failed to start: %v", err)
	}

	job := waitForJob(t, jobManager, jobID)
	if job.Status != model.JobStatusFailed {
		t.Fatalf("Expected failed job, got %s", job.Status)
	}
	if engine.Status().Books != 4 {
		t.Errorf("Expected previous snapshot preserved, got %d books", engine.Status().Books)
	}
}

func TestEngine_PersistAsync(t *testing.T) {
	cfg := newTestConfig(t)
	engine, jobManager := newTestEngine(t, cfg)
	if err := engine.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	snapshotPath := filepath.Join(cfg.Data.Dir, snapshotFile)
	if err := os.Remove(snapshotPath); err != nil {
		t.Fatalf("Failed to remove persisted snapshot: %v", err)
	}

	jobID, err := engine.PersistAsync()
	if err != nil {
		t.Fatalf("PersistAsync failed: %v", err)
	}
	job := waitForJob(t, jobManager, jobID)
	if job.Status != model.JobStatusCompleted {
		t.Fatalf("Expected completed persist job, got %s (error: %s)", job.Status, job.Error)
	}

	if _, err := os.Stat(snapshotPath); err != nil {
		t.Errorf("Expected snapshot file rewritten: %v", err)
	}
}

func TestEngine_PersistAsync_NoSnapshot(t *testing.T) {
	cfg := newTestConfig(t)
	engine, _ := newTestEngine(t, cfg)

	if _, err := engine.PersistAsync(); err == nil {
		t.Error("Expected error when persisting without a snapshot")
	}
}
