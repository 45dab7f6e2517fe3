/*
engine.go - Generation run orchestration

PURPOSE:
  Runs one generation over a date range: builds the reference tables once,
  simulates every day, streams each day to the Writer, then writes the
  metadata row and returns the manifest.

RUN SEQUENCE:
  1. Validate the range (InvalidRangeError before anything is generated)
  2. Resolve the seed (0 draws one from crypto/rand; it is logged and kept
     in the manifest so the run can be replayed)
  3. Generate promotions and store events, write them, index them
  4. Simulate days on a bounded worker pool, writing each day as it finishes
  5. Barrier, then Finalize: metadata row + manifest

CONCURRENCY:
  Workers share only read-only state (catalog, index, holiday calendar) and
  the mutex-guarded ManifestBuilder. Each day draws from DayStream(seed, day)
  so the dataset is the same for any worker count. The first failing write
  cancels the remaining days; there is no partial-success continuation.

EXAMPLE:
  engine := generator.NewEngine(catalog.Default(), writer,
      generator.WithSeed(42),
      generator.WithWorkers(4),
  )
  manifest, err := engine.Generate(ctx, "2024-01-01", "2024-03-31")

SEE ALSO:
  - simulator.go: per-day model
  - manifest.go: path accumulation and metadata
  - runner/runner.go: wiring with the parquet writer and run catalog
*/
package generator

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/catalog"
	"golang.org/x/sync/errgroup"
)

// Engine runs generations for a fixed catalog and writer.
type Engine struct {
	catalog  *catalog.Catalog
	writer   Writer
	holidays calendar.HolidayCalendar
	recorder RunRecorder
	logger   zerolog.Logger
	seed     int64
	workers  int
	now      func() time.Time
	newRunID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed fixes the run seed. 0 means draw a fresh one per run.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithWorkers bounds the number of days simulated concurrently. Values
// below 1 mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithLogger sets the run logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRecorder attaches a run audit trail.
func WithRecorder(r RunRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithHolidayCalendar overrides the default US holiday calendar.
func WithHolidayCalendar(h calendar.HolidayCalendar) Option {
	return func(e *Engine) { e.holidays = h }
}

// WithClock overrides the clock used for the metadata generation date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRunID makes every run use the given id.
func WithRunID(id string) Option {
	return func(e *Engine) { e.newRunID = func() string { return id } }
}

// NewEngine creates an engine. The catalog is shared read-only.
func NewEngine(cat *catalog.Catalog, w Writer, opts ...Option) *Engine {
	e := &Engine{
		catalog:  cat,
		writer:   w,
		logger:   zerolog.Nop(),
		workers:  1,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Generate parses YYYY-MM-DD bounds and runs the generation.
func (e *Engine) Generate(ctx context.Context, start, end string) (*Manifest, error) {
	r, err := ParseRange(start, end)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, r)
}

// ParseRange parses and validates an inclusive date range.
func ParseRange(start, end string) (calendar.Range, error) {
	s, err := calendar.ParseDate(start)
	if err != nil {
		return calendar.Range{}, fmt.Errorf("start date: %w: %w", ErrInvalidDate, err)
	}
	t, err := calendar.ParseDate(end)
	if err != nil {
		return calendar.Range{}, fmt.Errorf("end date: %w: %w", ErrInvalidDate, err)
	}
	r := calendar.Range{Start: s, End: t}
	if !r.Valid() {
		return calendar.Range{}, &InvalidRangeError{Start: s, End: t}
	}
	return r, nil
}

// Run generates every table for r.
func (e *Engine) Run(ctx context.Context, r calendar.Range) (*Manifest, error) {
	if !r.Valid() {
		return nil, &InvalidRangeError{Start: r.Start, End: r.End}
	}

	seed := e.seed
	if seed == 0 {
		var err error
		if seed, err = NewSeed(); err != nil {
			return nil, err
		}
	}

	runID := e.newRunID()
	log := e.logger.With().Str("run_id", runID).Logger()
	log.Info().
		Str("start", r.Start.String()).
		Str("end", r.End.String()).
		Int64("seed", seed).
		Int("workers", e.workers).
		Int("stores", e.catalog.NumStores()).
		Int("products", e.catalog.NumProducts()).
		Msg("generation started")

	if e.recorder != nil {
		info := RunInfo{ID: runID, Seed: seed, Range: r, StartedAt: e.now()}
		if rooted, ok := e.writer.(interface{ Root() string }); ok {
			info.OutputRoot = rooted.Root()
		}
		if err := e.recorder.BeginRun(ctx, info); err != nil {
			return nil, fmt.Errorf("begin run: %w", err)
		}
	}

	manifest, err := e.run(ctx, log, runID, seed, r)
	if err != nil {
		log.Error().Err(err).Msg("generation failed")
		e.failRun(ctx, log, runID, err)
		return nil, err
	}

	if e.recorder != nil {
		if err := e.recorder.CompleteRun(ctx, manifest); err != nil {
			err = fmt.Errorf("complete run: %w", err)
			log.Error().Err(err).Msg("record completed run")
			e.failRun(ctx, log, runID, err)
			return nil, err
		}
	}

	log.Info().
		Int("sales_files", manifest.Count(TableSales)).
		Int("traffic_files", manifest.Count(TableTraffic)).
		Int("inventory_files", manifest.Count(TableInventory)).
		Int("total_files", manifest.Metadata.TotalFiles).
		Msg("generation complete")
	return manifest, nil
}

// failRun records cause against the run. It runs even when ctx is cancelled.
func (e *Engine) failRun(ctx context.Context, log zerolog.Logger, runID string, cause error) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.FailRun(context.WithoutCancel(ctx), runID, cause); err != nil {
		log.Error().Err(err).Msg("record failed run")
	}
}

func (e *Engine) run(ctx context.Context, log zerolog.Logger, runID string, seed int64, r calendar.Range) (*Manifest, error) {
	promotions, err := GeneratePromotions(e.catalog, r, NewStream(seed, streamPromotions))
	if err != nil {
		return nil, err
	}
	events := GenerateStoreEvents(e.catalog, r, NewStream(seed, streamStoreEvents))
	log.Debug().Int("promotions", len(promotions)).Int("store_events", len(events)).Msg("reference tables generated")

	builder := NewManifestBuilder()
	if err := e.writeOnce(ctx, builder, PromotionBatch(promotions)); err != nil {
		return nil, err
	}
	if err := e.writeOnce(ctx, builder, StoreEventBatch(events)); err != nil {
		return nil, err
	}

	holidays := e.holidays
	if holidays == nil {
		holidays = calendar.NewUSHolidays(r)
	}
	sim := &Simulator{
		Catalog:  e.catalog,
		Index:    NewIndex(promotions, events),
		Holidays: holidays,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, day := range r.Dates() {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bundle := sim.SimulateDay(day, DayStream(seed, day))
			log.Debug().
				Str("date", day.String()).
				Int("sales", len(bundle.Sales)).
				Msg("day simulated")
			return e.writeDay(gctx, builder, bundle)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return builder.Finalize(ctx, e.writer, FinalizeInput{
		RunID:         runID,
		Seed:          seed,
		Range:         r,
		TotalStores:   e.catalog.NumStores(),
		TotalProducts: e.catalog.NumProducts(),
		GeneratedAt:   e.now().UTC(),
	})
}

func (e *Engine) writeOnce(ctx context.Context, builder *ManifestBuilder, batch Batch) error {
	path, err := e.writer.WriteOnce(ctx, batch)
	if err != nil {
		return asStorageError(batch.Table(), err)
	}
	builder.Add(batch.Table(), calendar.Date{}, path)
	return nil
}

func (e *Engine) writeDay(ctx context.Context, builder *ManifestBuilder, bundle DayBundle) error {
	batches := make([]Batch, 0, 3)
	if len(bundle.Sales) > 0 {
		batches = append(batches, bundle.Sales)
	}
	batches = append(batches, bundle.Traffic)
	if bundle.PersistInventory() {
		batches = append(batches, bundle.Inventory)
	}

	for _, batch := range batches {
		path, err := e.writer.Write(ctx, batch, bundle.Date)
		if err != nil {
			return asStorageError(batch.Table(), err)
		}
		builder.Add(batch.Table(), bundle.Date, path)
	}
	return nil
}
