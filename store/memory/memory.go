// Package memory provides an in-memory generator.Writer (for testing/dev).
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/generator"
)

// Ext is the extension used in synthesized paths.
const Ext = ".mem"

// =============================================================================
// MEMORY WRITER
// =============================================================================

// Writer keeps every batch it receives, keyed by the path a file writer with
// the same root would have produced.
type Writer struct {
	mu      sync.RWMutex
	root    string
	batches map[string]generator.Batch
	order   []string

	// FailOn makes Write/WriteOnce fail for the given table.
	FailOn map[generator.Table]error
}

func NewWriter(root string) *Writer {
	return &Writer{
		root:    root,
		batches: make(map[string]generator.Batch),
	}
}

func (w *Writer) Root() string { return w.root }

// Write stores one day's batch.
func (w *Writer) Write(_ context.Context, batch generator.Batch, date calendar.Date) (string, error) {
	path := generator.PartitionFile(w.root, batch.Table(), date, Ext)
	return path, w.put(path, batch)
}

// WriteOnce stores a single-file table.
func (w *Writer) WriteOnce(_ context.Context, batch generator.Batch) (string, error) {
	path := generator.TableFile(w.root, batch.Table(), Ext)
	return path, w.put(path, batch)
}

func (w *Writer) put(path string, batch generator.Batch) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err, ok := w.FailOn[batch.Table()]; ok {
		return &generator.StorageWriteError{Table: batch.Table(), Path: path, Err: err}
	}
	if _, exists := w.batches[path]; exists {
		return &generator.StorageWriteError{Table: batch.Table(), Path: path, Err: errors.New("path already written")}
	}
	w.batches[path] = batch
	w.order = append(w.order, path)
	return nil
}

// Batch returns the batch stored at path.
func (w *Writer) Batch(path string) (generator.Batch, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.batches[path]
	return b, ok
}

// Paths returns every stored path in write order.
func (w *Writer) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.order...)
}

// Sales returns all sales rows found at the given paths, in path order.
func (w *Writer) Sales(paths []string) []generator.SalesRecord {
	var out []generator.SalesRecord
	for _, p := range paths {
		if b, ok := w.Batch(p); ok {
			out = append(out, b.(generator.SalesBatch)...)
		}
	}
	return out
}

// Traffic returns all traffic rows found at the given paths, in path order.
func (w *Writer) Traffic(paths []string) []generator.TrafficRecord {
	var out []generator.TrafficRecord
	for _, p := range paths {
		if b, ok := w.Batch(p); ok {
			out = append(out, b.(generator.TrafficBatch)...)
		}
	}
	return out
}

// Inventory returns all inventory rows found at the given paths, in path order.
func (w *Writer) Inventory(paths []string) []generator.InventoryRecord {
	var out []generator.InventoryRecord
	for _, p := range paths {
		if b, ok := w.Batch(p); ok {
			out = append(out, b.(generator.InventoryBatch)...)
		}
	}
	return out
}

// Promotions returns the promotions table, if written.
func (w *Writer) Promotions() generator.PromotionBatch {
	b, _ := w.Batch(generator.TableFile(w.root, generator.TablePromotions, Ext))
	promotions, _ := b.(generator.PromotionBatch)
	return promotions
}

// StoreEvents returns the store events table, if written.
func (w *Writer) StoreEvents() generator.StoreEventBatch {
	b, _ := w.Batch(generator.TableFile(w.root, generator.TableStoreEvents, Ext))
	events, _ := b.(generator.StoreEventBatch)
	return events
}

// Metadata returns the metadata row, if written.
func (w *Writer) Metadata() (generator.GenerationMetadata, bool) {
	b, _ := w.Batch(generator.TableFile(w.root, generator.TableMetadata, Ext))
	meta, ok := b.(generator.MetadataBatch)
	if !ok || len(meta) == 0 {
		return generator.GenerationMetadata{}, false
	}
	return meta[0], true
}
