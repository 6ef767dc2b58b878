package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrCatalogUnavailable is returned when the catalog source is
	// unreachable and no usable cached value exists. Recoverable by
	// retrying later.
	ErrCatalogUnavailable = errors.New("catalog source unavailable")
)

// CatalogUnavailableError carries the show whose fetch failed along with
// the underlying cause. It matches ErrCatalogUnavailable under errors.Is.
type CatalogUnavailableError struct {
	ShowID string
	Err    error
}

// Error implements the error interface
func (e *CatalogUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog unavailable for show %s: %v", e.ShowID, e.Err)
	}
	return fmt.Sprintf("catalog unavailable for show %s", e.ShowID)
}

// Unwrap returns the underlying error
func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches ErrCatalogUnavailable
func (e *CatalogUnavailableError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}

// NewCatalogUnavailable wraps a fetch failure for the given show
func NewCatalogUnavailable(showID string, err error) *CatalogUnavailableError {
	return &CatalogUnavailableError{ShowID: showID, Err: err}
}
