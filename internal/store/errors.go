package store

import (
	"errors"
	"fmt"
)

// Error classes. Every store error matches exactly one of these through errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrLibraryNotFound  = fmt.Errorf("library %w", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
	ErrChunkNotFound    = fmt.Errorf("chunk %w", ErrNotFound)

	ErrDuplicateLibrary  = fmt.Errorf("library already exists: %w", ErrConflict)
	ErrDuplicateDocument = fmt.Errorf("document already exists: %w", ErrValidation)
	ErrDuplicateChunk    = fmt.Errorf("chunk already exists: %w", ErrValidation)

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = fmt.Errorf("k must be positive: %w", ErrValidation)
	// ErrIDMismatch is returned when a payload id disagrees with the id it is addressed by.
	ErrIDMismatch = fmt.Errorf("payload id does not match path id: %w", ErrValidation)
	// ErrDimensionMismatch is the class of *DimensionMismatchError.
	ErrDimensionMismatch = fmt.Errorf("embedding dimension mismatch: %w", ErrValidation)
	// ErrKeywordDisabled is returned by text search when the store was built without keyword indexes.
	ErrKeywordDisabled = fmt.Errorf("keyword search is disabled: %w", ErrValidation)
)

// DimensionMismatchError indicates an embedding or query whose length differs from the library's.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
