package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsHandler handles the request to get analytics dashboard data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	dashboard, err := api.analytics.GetDashboardData()
	if err != nil {
		SendInternalError(c, "retrieve analytics data", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// HealthCheckHandler reports liveness together with the state of the served
// catalog. A server that came up without a loadable catalog answers
// "degraded" until a reload succeeds.
func (api *API) HealthCheckHandler(c *gin.Context) {
	catalog := api.manager.Status()

	status := "healthy"
	if catalog.Books == 0 {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        status,
		"service":       "go-book-recommender",
		"catalog_books": catalog.Books,
		"generation":    catalog.Generation,
		"timestamp":     fmt.Sprintf("%d", time.Now().Unix()),
	})
}
