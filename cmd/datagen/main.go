/*
main.go - One-shot generation CLI

PURPOSE:
  Generates one date range into a Parquet tree and prints the manifest as
  JSON on stdout. Logs go to stderr. This is what a scheduler task calls.

FLAGS (override DATAGEN_* environment variables, see package config):
  -start, -end   inclusive range (YYYY-MM-DD)
  -out           output root (default tmp/sales_data)
  -seed          0 draws a random seed; the seed used is in the manifest
  -workers       days simulated concurrently
  -catalog       YAML catalog override
  -db            run catalog path; empty disables recording

EXIT CODES:
  0 success, 1 generation or storage failure, 2 invalid configuration or input

EXAMPLES:
  ./datagen -start=2024-01-01 -end=2024-03-31 -seed=42
  DATAGEN_OUTPUT_DIR=/data/retail ./datagen -workers=0
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/retail-datagen/catalog"
	"github.com/warp/retail-datagen/config"
	"github.com/warp/retail-datagen/generator"
	"github.com/warp/retail-datagen/runner"
	"github.com/warp/retail-datagen/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("datagen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, err := config.ParseConfig(fs, args)
	if err != nil {
		fmt.Fprintf(stderr, "datagen: %v\n", err)
		return 2
	}
	log := cfg.NewLogger(stderr)

	opts := []runner.Option{
		runner.WithSeed(cfg.Seed),
		runner.WithWorkers(cfg.Workers),
		runner.WithCatalogFile(cfg.CatalogPath),
		runner.WithLogger(log),
	}
	if cfg.DBPath != "" {
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			log.Error().Err(err).Str("db", cfg.DBPath).Msg("open run catalog")
			return 1
		}
		defer store.Close()
		opts = append(opts, runner.WithRecorder(store))
	}

	manifest, err := runner.Generate(ctx, cfg.StartDate, cfg.EndDate, cfg.OutputDir, opts...)
	if err != nil {
		log.Error().Err(err).Msg("generation failed")
		if generator.IsClientError(err) || errors.Is(err, catalog.ErrInvalidCatalog) {
			return 2
		}
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		log.Error().Err(err).Msg("write manifest")
		return 1
	}
	log.Info().Str("output", cfg.OutputDir).Msg("dataset written")
	return 0
}
