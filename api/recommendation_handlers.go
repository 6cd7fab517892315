package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-book-recommender/model"
)

// RecommendByTitleHandler returns books similar to the given title. Unknown
// titles yield an empty result rather than an error.
// Query Params: title (required), n (optional result count)
func (api *API) RecommendByTitleHandler(c *gin.Context) {
	startTime := time.Now()

	title := c.Query("title")
	if result := ValidateQueryParam("title", title); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	n, result := ValidateCountParam("n", c.Query("n"), api.cfg.Engine.RecommendDefault)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	recommendations := api.recommender.RecommendByTitle(title, n)

	api.trackQuery(model.QueryKindRecommendTitle, title, startTime, recommendations.Total)

	c.JSON(http.StatusOK, recommendations)
}

// RecommendByIDHandler returns books similar to the book with the given
// source identifier. Unknown or malformed identifiers yield an empty result.
// Query Params: n (optional result count)
func (api *API) RecommendByIDHandler(c *gin.Context) {
	startTime := time.Now()
	id := c.Param("id")

	n, result := ValidateCountParam("n", c.Query("n"), api.cfg.Engine.RecommendDefault)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	recommendations := api.recommender.RecommendByID(id, n)

	api.trackQuery(model.QueryKindRecommendID, id, startTime, recommendations.Total)

	c.JSON(http.StatusOK, recommendations)
}
