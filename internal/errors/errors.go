package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrSourceMissing is returned when a data source file is absent
	ErrSourceMissing = errors.New("data source missing")

	// ErrBookNotFound is returned when a book is not found in the catalog
	ErrBookNotFound = errors.New("book not found")

	// ErrIndexUnavailable is returned when the similarity index was skipped
	// because the catalog exceeds the eager computation threshold
	ErrIndexUnavailable = errors.New("similarity index unavailable")

	// ErrIndexBuildFailed is returned when the similarity index could not be
	// built for resource reasons, as opposed to being skipped by size
	ErrIndexBuildFailed = errors.New("similarity index build failed")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// BookNotFoundError represents a book not found error with context
type BookNotFoundError struct {
	Key string
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book '%s' not found in catalog", e.Key)
}

func (e *BookNotFoundError) Is(target error) bool {
	return target == ErrBookNotFound
}

// NewBookNotFoundError creates a new BookNotFoundError. Key is whatever the
// caller looked the book up by: an identifier or a title.
func NewBookNotFoundError(key string) *BookNotFoundError {
	return &BookNotFoundError{Key: key}
}

// SourceMissingError represents a missing data source with context
type SourceMissingError struct {
	Path string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("data source '%s' missing", e.Path)
}

func (e *SourceMissingError) Is(target error) bool {
	return target == ErrSourceMissing
}

// NewSourceMissingError creates a new SourceMissingError
func NewSourceMissingError(path string) *SourceMissingError {
	return &SourceMissingError{Path: path}
}

// IndexUnavailableError carries the catalog size that tripped the threshold
type IndexUnavailableError struct {
	CatalogSize int
	Threshold   int
}

func (e *IndexUnavailableError) Error() string {
	return fmt.Sprintf("similarity index unavailable: catalog size %d at or above threshold %d", e.CatalogSize, e.Threshold)
}

func (e *IndexUnavailableError) Is(target error) bool {
	return target == ErrIndexUnavailable
}

// NewIndexUnavailableError creates a new IndexUnavailableError
func NewIndexUnavailableError(catalogSize, threshold int) *IndexUnavailableError {
	return &IndexUnavailableError{CatalogSize: catalogSize, Threshold: threshold}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
