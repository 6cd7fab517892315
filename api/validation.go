// Package api provides validation utilities for API request handling.
package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// maxQueryLength bounds free-text query parameters
	maxQueryLength = 200

	// maxResultCount bounds result-count parameters like n and limit
	maxResultCount = 100
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateQueryParam validates a required free-text query parameter such as
// q or title.
func ValidateQueryParam(field, value string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(value) == "" {
		result.AddError(field, "Parameter '"+field+"' is required")
		return result
	}

	if len(value) > maxQueryLength {
		result.AddError(field, "Parameter '"+field+"' exceeds maximum length of "+strconv.Itoa(maxQueryLength))
		return result
	}

	return result
}

// ValidateCountParam parses an optional result-count parameter. An absent
// parameter yields the default, values above maxResultCount are clamped,
// and anything that is not a positive integer is a validation error.
func ValidateCountParam(field, raw string, defaultCount int) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if raw == "" {
		return defaultCount, result
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError(field, "Parameter '"+field+"' must be a positive integer")
		return defaultCount, result
	}

	if count <= 0 {
		result.AddError(field, "Parameter '"+field+"' must be greater than 0")
		return defaultCount, result
	}

	if count > maxResultCount {
		count = maxResultCount
	}

	return count, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
