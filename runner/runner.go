/*
Package runner is the entry point external schedulers call.

It wires the default stack around generator.Engine: the Parquet writer
rooted at the output directory, the built-in (or a YAML) catalog, and an
optional run catalog.

USAGE:
  manifest, err := runner.Generate(ctx, "2024-01-01", "2024-03-31", "tmp/sales_data",
      runner.WithSeed(42),
      runner.WithWorkers(4),
  )
*/
package runner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/warp/retail-datagen/catalog"
	"github.com/warp/retail-datagen/generator"
	"github.com/warp/retail-datagen/store/parquet"
)

type options struct {
	catalog     *catalog.Catalog
	catalogPath string
	writer      generator.Writer
	engineOpts  []generator.Option
}

// Option configures Generate.
type Option func(*options)

// WithSeed fixes the seed. 0 draws a random one.
func WithSeed(seed int64) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, generator.WithSeed(seed)) }
}

// WithWorkers bounds day-level concurrency.
func WithWorkers(n int) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, generator.WithWorkers(n)) }
}

// WithLogger sets the run logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, generator.WithLogger(l)) }
}

// WithRecorder records the run, typically into a sqlite.Store.
func WithRecorder(r generator.RunRecorder) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, generator.WithRecorder(r)) }
}

// WithRunID fixes the run id, e.g. when outputRoot is derived from it.
func WithRunID(id string) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, generator.WithRunID(id)) }
}

// WithCatalog uses c instead of the built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithCatalogFile loads the catalog from a YAML file. Ignored when
// WithCatalog is also given.
func WithCatalogFile(path string) Option {
	return func(o *options) { o.catalogPath = path }
}

// WithWriter replaces the Parquet writer; outputRoot is then unused.
func WithWriter(w generator.Writer) Option {
	return func(o *options) { o.writer = w }
}

// Generate writes every table for [start, end] under outputRoot and returns
// the manifest.
func Generate(ctx context.Context, start, end, outputRoot string, opts ...Option) (*generator.Manifest, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cat := o.catalog
	if cat == nil {
		var err error
		if cat, err = catalog.LoadFile(o.catalogPath); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	w := o.writer
	if w == nil {
		if outputRoot == "" {
			return nil, fmt.Errorf("output root is required")
		}
		w = parquet.NewWriter(outputRoot)
	}

	return generator.NewEngine(cat, w, o.engineOpts...).Generate(ctx, start, end)
}
