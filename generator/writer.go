package generator

import (
	"context"
	"time"

	"github.com/warp/retail-datagen/calendar"
)

// =============================================================================
// WRITER - Persistence of generated tables
// =============================================================================

// Writer persists batches and reports where they went.
//
// Implementations must be safe for concurrent use: the engine writes
// different days from different goroutines. A failed write returns an error
// (preferably *StorageWriteError); the engine never retries.
type Writer interface {
	// Write persists one day's partition of a table and returns its path.
	Write(ctx context.Context, batch Batch, date calendar.Date) (string, error)

	// WriteOnce persists a non-partitioned table and returns its path.
	WriteOnce(ctx context.Context, batch Batch) (string, error)
}

// =============================================================================
// RUN RECORDER - Optional audit trail of runs
// =============================================================================

// RunInfo identifies a run when it starts.
type RunInfo struct {
	ID         string
	Seed       int64
	Range      calendar.Range
	OutputRoot string
	StartedAt  time.Time
}

// RunRecorder receives run lifecycle notifications. store/sqlite provides
// the implementation used by the binaries.
type RunRecorder interface {
	BeginRun(ctx context.Context, run RunInfo) error
	CompleteRun(ctx context.Context, manifest *Manifest) error
	FailRun(ctx context.Context, runID string, cause error) error
}
