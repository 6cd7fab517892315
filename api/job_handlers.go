package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-book-recommender/internal/jobs"
	"github.com/gcbaptista/go-book-recommender/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs, newest first
func (api *API) ListJobsHandler(c *gin.Context) {
	statusParam := c.Query("status")

	var statusFilter *model.JobStatus
	if statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobList := api.jobs.ListJobs(statusFilter)
	sort.Slice(jobList, func(i, j int) bool {
		return jobList[i].CreatedAt.After(jobList[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobList,
		"total": len(jobList),
	})
}

// GetJobStatsHandler handles requests to get job performance metrics
func (api *API) GetJobStatsHandler(c *gin.Context) {
	if manager, ok := api.jobs.(*jobs.Manager); ok {
		c.JSON(http.StatusOK, gin.H{
			"metrics":          manager.GetMetrics(),
			"success_rate":     manager.GetJobSuccessRate(),
			"current_workload": manager.GetCurrentWorkload(),
		})
	} else {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Job metrics not supported by this job manager"})
	}
}
