package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-book-recommender/model"
)

// GetReviewsHandler returns individual rating rows for an exact title match.
// Query Params: title (required), limit (optional result count)
func (api *API) GetReviewsHandler(c *gin.Context) {
	startTime := time.Now()

	title := c.Query("title")
	if result := ValidateQueryParam("title", title); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	limit, result := ValidateCountParam("limit", c.Query("limit"), api.cfg.Engine.ReviewsDefault)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	reviews := api.catalog.GetReviews(title, limit)

	api.trackQuery(model.QueryKindReviews, title, startTime, len(reviews))

	c.JSON(http.StatusOK, gin.H{
		"title":   title,
		"reviews": reviews,
		"count":   len(reviews),
	})
}
