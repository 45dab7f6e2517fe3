package generator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/retail-datagen/calendar"
)

// Manifest lists every file a run wrote, per table, in partition-date order.
type Manifest struct {
	RunID    string             `json:"run_id"`
	Seed     int64              `json:"seed"`
	Files    map[Table][]string `json:"files"`
	Metadata GenerationMetadata `json:"metadata"`
}

// Paths returns the files written for table.
func (m *Manifest) Paths(table Table) []string {
	return m.Files[table]
}

// Count returns the number of files written for table.
func (m *Manifest) Count(table Table) int {
	return len(m.Files[table])
}

// =============================================================================
// MANIFEST BUILDER - Accumulator shared by day workers
// =============================================================================

type manifestEntry struct {
	date calendar.Date
	path string
}

// ManifestBuilder accumulates written paths. Add is safe for concurrent use;
// Finalize must be called once, after every write has returned.
type ManifestBuilder struct {
	mu      sync.Mutex
	entries map[Table][]manifestEntry
}

func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{entries: make(map[Table][]manifestEntry)}
}

// Add records a written file. date is the zero Date for single-file tables.
func (b *ManifestBuilder) Add(table Table, date calendar.Date, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[table] = append(b.entries[table], manifestEntry{date: date, path: path})
}

// Files returns the sorted per-table paths for every table, including
// tables with no files.
func (b *ManifestBuilder) Files() map[Table][]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	files := make(map[Table][]string, len(AllTables))
	for _, table := range AllTables {
		entries := append([]manifestEntry(nil), b.entries[table]...)
		sort.SliceStable(entries, func(i, j int) bool {
			if !entries[i].date.Equal(entries[j].date) {
				return entries[i].date.Before(entries[j].date)
			}
			return entries[i].path < entries[j].path
		})
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.path
		}
		files[table] = paths
	}
	return files
}

// FinalizeInput carries the run facts the metadata row summarizes.
type FinalizeInput struct {
	RunID         string
	Seed          int64
	Range         calendar.Range
	TotalStores   int
	TotalProducts int
	GeneratedAt   time.Time
}

// Finalize computes GenerationMetadata from the accumulated files, writes it
// through w as the last file of the run, and returns the complete manifest.
func (b *ManifestBuilder) Finalize(ctx context.Context, w Writer, in FinalizeInput) (*Manifest, error) {
	files := b.Files()

	meta := GenerationMetadata{
		RunID:          in.RunID,
		Seed:           in.Seed,
		GenerationDate: in.GeneratedAt,
		StartDate:      in.Range.Start,
		EndDate:        in.Range.End,
		TotalStores:    in.TotalStores,
		TotalProducts:  in.TotalProducts,
		FileCount:      make(map[Table]int, len(DataTables)),
	}
	for _, table := range DataTables {
		meta.FileCount[table] = len(files[table])
		meta.TotalFiles += len(files[table])
	}

	path, err := w.WriteOnce(ctx, MetadataBatch{meta})
	if err != nil {
		return nil, asStorageError(TableMetadata, err)
	}
	files[TableMetadata] = append(files[TableMetadata], path)

	return &Manifest{
		RunID:    in.RunID,
		Seed:     in.Seed,
		Files:    files,
		Metadata: meta,
	}, nil
}
