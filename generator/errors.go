/*
errors.go - Error types for the generation engine

PURPOSE:
  All error types the engine returns, in one place. Callers match the
  sentinels with errors.Is and read details with errors.As.

ERROR CATEGORIES:
  1. Input errors - bad dates, inverted range (fail before any generation)
  2. Catalog errors - a sampling step needs more products than exist
  3. Storage errors - any persistence failure (never retried here)

SEE ALSO:
  - engine.go: returns these errors from Run/Generate
  - store/parquet/writer.go: produces StorageWriteError
*/
package generator

import (
	"errors"
	"fmt"

	"github.com/warp/retail-datagen/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a range bound cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange is returned when the start date is after the end date.
	ErrInvalidRange = errors.New("invalid range: start after end")

	// ErrInsufficientCatalog is returned when a sampling step requests more
	// distinct products than the catalog holds.
	ErrInsufficientCatalog = errors.New("insufficient catalog")

	// ErrStorageWrite is returned when a partition or table cannot be persisted.
	ErrStorageWrite = errors.New("storage write failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError reports an inverted date range.
type InvalidRangeError struct {
	Start calendar.Date
	End   calendar.Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

// InsufficientCatalogError reports a sample larger than the product catalog.
type InsufficientCatalogError struct {
	Requested int
	Available int
	Step      string // which sampling step, e.g. "Black Friday" or "Flash Sale"
}

func (e *InsufficientCatalogError) Error() string {
	return fmt.Sprintf("insufficient catalog: %s requested %d distinct products, only %d available",
		e.Step, e.Requested, e.Available)
}

func (e *InsufficientCatalogError) Unwrap() error {
	return ErrInsufficientCatalog
}

// StorageWriteError wraps a persistence failure with the table and path
// being written.
type StorageWriteError struct {
	Table Table
	Path  string
	Err   error
}

func (e *StorageWriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write %s: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("write %s to %s: %v", e.Table, e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *StorageWriteError) Unwrap() []error {
	return []error{ErrStorageWrite, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInsufficientCatalog)
}

// IsStorageError returns true if the error came from the persistence layer.
// The orchestrator may retry the whole run on these.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageWrite)
}

func asStorageError(table Table, err error) error {
	var sErr *StorageWriteError
	if errors.As(err, &sErr) {
		return err
	}
	return &StorageWriteError{Table: table, Err: err}
}
