/*
Package parquet writes generated tables as snappy-compressed Parquet files
in a date-partitioned directory tree.

LAYOUT:
  <root>/promotions/promotions.parquet
  <root>/store_events/store_events.parquet
  <root>/sales/year=YYYY/month=MM/day=DD/sales_YYYY-MM-DD.parquet
  <root>/customer_traffic/year=YYYY/month=MM/day=DD/traffic_YYYY-MM-DD.parquet
  <root>/inventory/year=YYYY/month=MM/day=DD/inventory_YYYY-MM-DD.parquet
  <root>/metadata/generation_metadata.parquet

Each file is written to a temporary name in its final directory and renamed
into place, so readers never see a half-written partition. Re-running into
the same root replaces files.
*/
package parquet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	goparquet "github.com/parquet-go/parquet-go"
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/generator"
)

// Ext is the file extension of every table file.
const Ext = ".parquet"

// Writer is a generator.Writer backed by the local filesystem. Distinct
// partitions never share a path, so concurrent writes need no locking.
type Writer struct {
	root string
}

// NewWriter returns a writer rooted at dir. The directory is created lazily.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Root is the output directory.
func (w *Writer) Root() string { return w.root }

// Write persists one day of a partitioned table.
func (w *Writer) Write(ctx context.Context, batch generator.Batch, date calendar.Date) (string, error) {
	path := generator.PartitionFile(w.root, batch.Table(), date, Ext)
	return path, w.write(ctx, path, batch)
}

// WriteOnce persists a single-file table.
func (w *Writer) WriteOnce(ctx context.Context, batch generator.Batch) (string, error) {
	path := generator.TableFile(w.root, batch.Table(), Ext)
	return path, w.write(ctx, path, batch)
}

func (w *Writer) write(ctx context.Context, path string, batch generator.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fail := func(err error) error {
		return &generator.StorageWriteError{Table: batch.Table(), Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fail(err)
	}

	tmp := path + ".tmp"
	if err := encode(tmp, batch); err != nil {
		os.Remove(tmp)
		return fail(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fail(err)
	}
	return nil
}

func encode(path string, batch generator.Batch) error {
	switch b := batch.(type) {
	case generator.PromotionBatch:
		return writeFile(path, promotionRows(b))
	case generator.StoreEventBatch:
		return writeFile(path, storeEventRows(b))
	case generator.SalesBatch:
		return writeFile(path, salesRows(b))
	case generator.TrafficBatch:
		return writeFile(path, trafficRows(b))
	case generator.InventoryBatch:
		return writeFile(path, inventoryRows(b))
	case generator.MetadataBatch:
		return writeFile(path, metadataRows(b))
	default:
		return fmt.Errorf("unsupported batch type %T", batch)
	}
}

func writeFile[T any](path string, rows []T) error {
	return goparquet.WriteFile(path, rows, goparquet.Compression(&goparquet.Snappy))
}

func readFile[T any](path string) ([]T, error) {
	rows, err := goparquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
