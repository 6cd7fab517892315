// Package api wires the book recommendation service to its HTTP surface.
package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-book-recommender/config"
	"github.com/gcbaptista/go-book-recommender/internal/analytics"
	"github.com/gcbaptista/go-book-recommender/internal/metrics"
	"github.com/gcbaptista/go-book-recommender/model"
	"github.com/gcbaptista/go-book-recommender/services"
)

// API holds dependencies for API handlers: the catalog reader and manager,
// the recommender, and the job manager behind the async endpoints.
type API struct {
	catalog     services.CatalogReader
	recommender services.Recommender
	manager     services.CatalogManager
	jobs        services.JobManager
	analytics   *analytics.Service
	metrics     *metrics.Metrics
	cfg         *config.Config
}

// NewAPI creates a new API handler structure.
func NewAPI(catalog services.CatalogReader, recommender services.Recommender, manager services.CatalogManager, jobManager services.JobManager, met *metrics.Metrics, cfg *config.Config) *API {
	return &API{
		catalog:     catalog,
		recommender: recommender,
		manager:     manager,
		jobs:        jobManager,
		analytics:   analytics.NewService(manager, cfg.Data.Dir),
		metrics:     met,
		cfg:         cfg,
	}
}

// SetupRoutes defines all the API routes for the recommendation service.
func SetupRoutes(router *gin.Engine, apiHandler *API) {
	maxRequestSize := apiHandler.cfg.Server.MaxRequestSizeMB * 1024 * 1024
	router.Use(CORSMiddleware(), RequestSizeLimitMiddleware(maxRequestSize), MetricsMiddleware(apiHandler.metrics))

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Prometheus metrics route
	if apiHandler.metrics != nil {
		router.GET("/metrics", gin.WrapH(apiHandler.metrics.Handler()))
	}

	apiRoutes := router.Group("/api")
	{
		// Book catalog routes
		bookRoutes := apiRoutes.Group("/books")
		{
			bookRoutes.GET("", apiHandler.ListBooksHandler)          // List the full catalog
			bookRoutes.GET("/top", apiHandler.TopBooksHandler)       // Most-rated books
			bookRoutes.GET("/search", apiHandler.SearchBooksHandler) // Title substring search
			bookRoutes.GET("/:id", apiHandler.GetBookHandler)        // Book detail with recommendations and reviews
		}

		// Recommendation routes
		recRoutes := apiRoutes.Group("/recommendations")
		{
			recRoutes.GET("", apiHandler.RecommendByTitleHandler)     // Similar books by title
			recRoutes.GET("/id/:id", apiHandler.RecommendByIDHandler) // Similar books by identifier
		}

		// Review route
		apiRoutes.GET("/reviews", apiHandler.GetReviewsHandler)

		// Catalog management routes
		catalogRoutes := apiRoutes.Group("/catalog")
		{
			catalogRoutes.GET("/status", apiHandler.CatalogStatusHandler)     // Snapshot currently being served
			catalogRoutes.POST("/reload", apiHandler.ReloadCatalogHandler)    // Rebuild the catalog from source files
			catalogRoutes.POST("/persist", apiHandler.PersistSnapshotHandler) // Write the current snapshot to disk
		}

		// Job management routes
		jobRoutes := apiRoutes.Group("/jobs")
		{
			jobRoutes.GET("", apiHandler.ListJobsHandler)          // List jobs, optionally filtered by status
			jobRoutes.GET("/stats", apiHandler.GetJobStatsHandler) // Job throughput metrics
			jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)     // Get job status by ID
		}

		// Analytics route
		apiRoutes.GET("/analytics/dashboard", apiHandler.GetAnalyticsHandler)
	}
}

// trackQuery records a query event without blocking the response.
func (api *API) trackQuery(kind model.QueryKind, query string, startTime time.Time, resultCount int) {
	if api.metrics != nil {
		api.metrics.QueriesTotal.WithLabelValues(string(kind)).Inc()
	}

	event := model.QueryEvent{
		Kind:         kind,
		Query:        query,
		ResponseTime: time.Since(startTime),
		ResultCount:  resultCount,
	}

	go func() {
		if err := api.analytics.TrackQueryEvent(event); err != nil {
			slog.Warn("failed to track query event", "kind", kind, "error", err)
		}
	}()
}
