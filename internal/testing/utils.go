// Package testing provides utilities and helpers for testing the recommendation service.
package testing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-book-recommender/config"
	"github.com/gcbaptista/go-book-recommender/internal/engine"
	"github.com/gcbaptista/go-book-recommender/internal/jobs"
	"github.com/gcbaptista/go-book-recommender/model"
	"github.com/gcbaptista/go-book-recommender/services"
)

// SampleBooksCSV is a small catalog with two similar books (the Dune pair),
// one unrelated title, and one partial overlap, enough to exercise ranking.
const SampleBooksCSV = `Id,Name,Authors,Publisher,Rating,CountsOfReview
1,Dune,Frank Herbert,Chilton Books,4.25,4100
2,Dune Messiah,Frank Herbert,Putnam,3.88,1500
3,Cooking for Beginners,Julia Banks,Harvest House,4.60,200
4,The Dispossessed,Ursula K. Le Guin,Harper & Row,4.21,900
`

// SampleRatingsCSV holds reviews for two of the sample books.
const SampleRatingsCSV = `Name,Rating
Dune,it was amazing
Dune,really liked it
Cooking for Beginners,did not like it
`

// CreateTestConfig writes the sample catalog CSVs into a temp directory and
// returns a config pointing at them. The directory is removed automatically
// when the test finishes.
func CreateTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	booksPath := filepath.Join(dir, "books.csv")
	err := os.WriteFile(booksPath, []byte(SampleBooksCSV), 0o644)
	require.NoError(t, err, "Failed to write books fixture")

	ratingsPath := filepath.Join(dir, "ratings.csv")
	err = os.WriteFile(ratingsPath, []byte(SampleRatingsCSV), 0o644)
	require.NoError(t, err, "Failed to write ratings fixture")

	return &config.Config{
		Server: config.ServerConfig{Port: 8080, MaxRequestSizeMB: 10},
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
			CacheSize:           64,
		},
	}
}

// CreateTestEngine builds an engine over cfg with a running job manager and
// a loaded catalog. Both are torn down via t.Cleanup.
func CreateTestEngine(t *testing.T, cfg *config.Config) (*engine.Engine, *jobs.Manager) {
	t.Helper()

	jobManager := jobs.NewManager(cfg.Engine.JobWorkers)
	jobManager.Start()
	t.Cleanup(jobManager.Stop)

	eng := engine.New(cfg, jobManager, nil)
	err := eng.Reload()
	require.NoError(t, err, "Failed to load test catalog")

	return eng, jobManager
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 100 * time.Millisecond,
		LogProgress:  true,
	}
}

// WaitForJobCompletion polls a job until it completes or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress {
					t.Logf("Job %s completed in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed:
				t.Fatalf("Job %s failed: %s", jobID, job.Error)
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType, expectedTarget string) {
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.Equal(t, expectedTarget, job.Target, "Job target should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
