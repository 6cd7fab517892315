package engine

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-book-recommender/model"
)

// reloadJobSteps is the coarse step count reported as reload job progress.
const reloadJobSteps = 5

// ReloadAsync rebuilds the catalog snapshot in the background and returns
// the tracking job ID.
func (e *Engine) ReloadAsync() (string, error) {
	jobID := e.jobManager.CreateJob(model.JobTypeReloadCatalog, "catalog", map[string]string{
		"operation":    "reload_catalog",
		"books_path":   e.cfg.Data.BooksPath,
		"ratings_path": e.cfg.Data.RatingsPath,
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeReloadJob(ctx, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start catalog reload job: %w", err)
	}

	return jobID, nil
}

// executeReloadJob executes the catalog reload job with progress updates.
func (e *Engine) executeReloadJob(_ context.Context, jobID string) error {
	return e.reload(func(step int, message string) {
		e.jobManager.UpdateJobProgress(jobID, step, reloadJobSteps, message)
	})
}

// PersistAsync writes the active snapshot to disk in the background and
// returns the tracking job ID.
func (e *Engine) PersistAsync() (string, error) {
	if e.Snapshot() == nil {
		return "", fmt.Errorf("no catalog snapshot to persist")
	}

	jobID := e.jobManager.CreateJob(model.JobTypePersistSnapshot, "catalog", map[string]string{
		"operation": "persist_snapshot",
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executePersistJob(ctx, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start snapshot persist job: %w", err)
	}

	return jobID, nil
}

// executePersistJob executes the snapshot persist job.
func (e *Engine) executePersistJob(_ context.Context, jobID string) error {
	snap := e.Snapshot()
	if snap == nil {
		return fmt.Errorf("no catalog snapshot to persist")
	}

	e.jobManager.UpdateJobProgress(jobID, 0, 1, "Persisting snapshot")
	if err := e.persistSnapshot(snap); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	e.jobManager.UpdateJobProgress(jobID, 1, 1, "Snapshot persisted")
	return nil
}
