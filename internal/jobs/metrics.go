package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-book-recommender/model"
)

// JobMetricsData is a point-in-time snapshot of the job counters, safe to
// copy and serialize.
type JobMetricsData struct {
	JobsCreated          int64                           `json:"jobs_created"`
	JobsCompleted        int64                           `json:"jobs_completed"`
	JobsFailed           int64                           `json:"jobs_failed"`
	TotalExecutionTime   time.Duration                   `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration                   `json:"average_execution_time_ns"`
	AverageByType        map[model.JobType]time.Duration `json:"average_execution_by_type_ns"`
	JobsByType           map[model.JobType]int64         `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64       `json:"jobs_by_status"`
	LastUpdated          time.Time                       `json:"last_updated"`
}

// JobMetrics aggregates throughput counters for background jobs. Averages
// are derived from accumulated run times when a snapshot is taken.
type JobMetrics struct {
	mu             sync.RWMutex
	created        int64
	completed      int64
	failed         int64
	totalExecTime  time.Duration
	execTimeByType map[model.JobType]time.Duration
	runsByType     map[model.JobType]int64
	jobsByType     map[model.JobType]int64
	jobsByStatus   map[model.JobStatus]int64
	lastUpdated    time.Time
}

// NewJobMetrics creates a new metrics collector
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		execTimeByType: make(map[model.JobType]time.Duration),
		runsByType:     make(map[model.JobType]int64),
		jobsByType:     make(map[model.JobType]int64),
		jobsByStatus:   make(map[model.JobStatus]int64),
		lastUpdated:    time.Now(),
	}
}

// RecordJobCreated increments the creation counters for a job type.
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	m.jobsByType[jobType]++
	m.jobsByStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordJobStatusChange moves a job between status buckets.
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" && m.jobsByStatus[oldStatus] > 0 {
		m.jobsByStatus[oldStatus]--
	}
	m.jobsByStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordJobCompleted records a successful run and its execution time.
func (m *JobMetrics) RecordJobCompleted(jobType model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.completed++
	m.totalExecTime += executionTime
	m.execTimeByType[jobType] += executionTime
	m.runsByType[jobType]++
	m.lastUpdated = time.Now()
}

// RecordJobFailed records a failed run.
func (m *JobMetrics) RecordJobFailed(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failed++
	m.lastUpdated = time.Now()
}

// GetMetrics returns a snapshot of the current counters.
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byType := make(map[model.JobType]int64, len(m.jobsByType))
	for k, v := range m.jobsByType {
		byType[k] = v
	}
	byStatus := make(map[model.JobStatus]int64, len(m.jobsByStatus))
	for k, v := range m.jobsByStatus {
		byStatus[k] = v
	}
	avgByType := make(map[model.JobType]time.Duration, len(m.execTimeByType))
	for k, total := range m.execTimeByType {
		if runs := m.runsByType[k]; runs > 0 {
			avgByType[k] = total / time.Duration(runs)
		}
	}

	var avg time.Duration
	if m.completed > 0 {
		avg = m.totalExecTime / time.Duration(m.completed)
	}

	return JobMetricsData{
		JobsCreated:          m.created,
		JobsCompleted:        m.completed,
		JobsFailed:           m.failed,
		TotalExecutionTime:   m.totalExecTime,
		AverageExecutionTime: avg,
		AverageByType:        avgByType,
		JobsByType:           byType,
		JobsByStatus:         byStatus,
		LastUpdated:          m.lastUpdated,
	}
}

// GetSuccessRate returns the fraction of finished jobs that completed
// successfully, or 1.0 when nothing has finished yet.
func (m *JobMetrics) GetSuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	finished := m.completed + m.failed
	if finished == 0 {
		return 1.0
	}
	return float64(m.completed) / float64(finished)
}

// GetCurrentWorkload returns the number of jobs waiting or running.
func (m *JobMetrics) GetCurrentWorkload() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.jobsByStatus[model.JobStatusPending] + m.jobsByStatus[model.JobStatusRunning]
}
