package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-book-recommender/internal/errors"
	"github.com/gcbaptista/go-book-recommender/model"
	"github.com/gcbaptista/go-book-recommender/services"
)

// TopBooksHandler returns the most-rated books in the catalog.
// Query Params: n (optional result count)
func (api *API) TopBooksHandler(c *gin.Context) {
	startTime := time.Now()

	n, result := ValidateCountParam("n", c.Query("n"), api.cfg.Engine.TopDefault)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	books := api.catalog.TopBooks(n)

	api.trackQuery(model.QueryKindTop, "", startTime, len(books))

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"count": len(books),
	})
}

// SearchBooksHandler performs a case-insensitive substring search over titles.
// Query Params: q (required)
func (api *API) SearchBooksHandler(c *gin.Context) {
	startTime := time.Now()

	query := c.Query("q")
	if result := ValidateQueryParam("q", query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	books := api.catalog.SearchBooks(query)

	api.trackQuery(model.QueryKindSearch, query, startTime, len(books))

	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"books": books,
		"count": len(books),
	})
}

// GetBookHandler returns a single book together with its similar titles and
// a sample of its reviews.
func (api *API) GetBookHandler(c *gin.Context) {
	startTime := time.Now()
	id := c.Param("id")

	book, err := api.catalog.GetBook(id)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			result := &ValidationResult{Valid: true}
			result.AddError("id", "Book identifier must be a positive integer")
			SendValidationError(c, result)
			return
		}
		if errors.Is(err, internalErrors.ErrBookNotFound) {
			SendBookNotFoundError(c, id)
			return
		}
		SendInternalError(c, "get book", err)
		return
	}

	recommendations := api.recommender.RecommendByID(id, api.cfg.Engine.RecommendDefault)
	reviews := api.catalog.GetReviews(book.Title, api.cfg.Engine.ReviewsDefault)

	api.trackQuery(model.QueryKindBook, book.Title, startTime, 1)

	c.JSON(http.StatusOK, services.BookDetail{
		Book:            book,
		Recommendations: recommendations.Hits,
		Reviews:         reviews,
	})
}

// ListBooksHandler returns every book in the catalog in source order.
func (api *API) ListBooksHandler(c *gin.Context) {
	books := api.catalog.ListBooks()

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"count": len(books),
	})
}
