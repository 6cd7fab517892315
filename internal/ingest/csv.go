package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	internalErrors "github.com/gcbaptista/go-book-recommender/internal/errors"
	"github.com/gcbaptista/go-book-recommender/model"
)

// Column names expected in the book and rating source headers. Columns are
// located by name, not position, so sources may order or extend them freely.
const (
	colID          = "Id"
	colTitle       = "Name"
	colAuthors     = "Authors"
	colPublisher   = "Publisher"
	colRating      = "Rating"
	colReviewCount = "CountsOfReview"
)

// ReadBooks loads and cleans the books source. The second return reports
// whether the source carried the review-count column. A missing file yields
// an empty slice plus a SourceMissingError so the caller can degrade to an
// empty catalog instead of terminating; malformed rows are skipped and
// counted, never fatal.
func ReadBooks(path string) ([]model.BookRecord, bool, error) {
	books := make([]model.BookRecord, 0)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return books, false, internalErrors.NewSourceMissingError(path)
		}
		return books, false, fmt.Errorf("failed to open books source '%s': %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return books, false, nil
		}
		return books, false, fmt.Errorf("failed to read books header from '%s': %w", path, err)
	}
	columns := indexColumns(header)
	_, hasReviewCounts := columns[colReviewCount]

	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		books = append(books, model.BookRecord{
			ID:          parseID(field(row, columns, colID)),
			Title:       field(row, columns, colTitle),
			Authors:     field(row, columns, colAuthors),
			Publisher:   field(row, columns, colPublisher),
			Rating:      parseRating(field(row, columns, colRating)),
			ReviewCount: parseCount(field(row, columns, colReviewCount)),
		})
	}

	if skipped > 0 {
		slog.Warn("Skipped malformed book rows", "path", path, "skipped", skipped)
	}
	return books, hasReviewCounts, nil
}

// ReadRatings loads the ratings source. Each row joins a book title to a
// textual rating label; labels outside the five known ordinal values keep
// their text but carry no numeric value. Missing file and malformed rows
// behave as in ReadBooks.
func ReadRatings(path string) ([]model.RatingRecord, error) {
	ratings := make([]model.RatingRecord, 0)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ratings, internalErrors.NewSourceMissingError(path)
		}
		return ratings, fmt.Errorf("failed to open ratings source '%s': %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return ratings, nil
		}
		return ratings, fmt.Errorf("failed to read ratings header from '%s': %w", path, err)
	}
	columns := indexColumns(header)

	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		label := field(row, columns, colRating)
		value, _ := model.RatingValue(label)
		ratings = append(ratings, model.RatingRecord{
			Title: field(row, columns, colTitle),
			Label: label,
			Value: value,
		})
	}

	if skipped > 0 {
		slog.Warn("Skipped malformed rating rows", "path", path, "skipped", skipped)
	}
	return ratings, nil
}

// indexColumns maps trimmed header names to their positions.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}

// field returns the trimmed value of a named column, or "" when the column
// is absent from the header or the row is too short. Absent values and null
// markers clean to the empty string.
func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseID coerces an identifier field. Anything that does not parse as a
// positive integer means the row has no usable identifier.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// parseRating coerces a rating field, treating any parse failure as 0.
func parseRating(s string) float64 {
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return rating
}

// parseCount coerces a review-count field, treating any parse failure as 0.
func parseCount(s string) int64 {
	count, err := strconv.ParseInt(s, 10, 64)
	if err != nil || count < 0 {
		return 0
	}
	return count
}
