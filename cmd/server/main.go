/*
main.go - HTTP server entry point

PURPOSE:
  Serves the run catalog and on-demand generation over HTTP.

STARTUP SEQUENCE:
  1. Parse configuration (env, then flags)
  2. Load the catalog and open the SQLite run catalog
  3. Create API handler and router
  4. Start server with graceful shutdown

FLAGS: see package config (-port, -db, -out, -catalog, -workers, ...)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

EXAMPLES:
  ./server -db="./data/runs.db" -out=/data/retail
  ./server -db=":memory:" -port=3000
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/retail-datagen/api"
	"github.com/warp/retail-datagen/catalog"
	"github.com/warp/retail-datagen/config"
	"github.com/warp/retail-datagen/store/sqlite"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(2)
	}
	log := cfg.NewLogger(os.Stderr)

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = ":memory:"
	}
	store, err := sqlite.New(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", dbPath).Msg("failed to initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store, cat, cfg.OutputDir)
	handler.Workers = cfg.Workers
	handler.Logger = log

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // POST /api/runs generates synchronously
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Int("port", cfg.Port).
			Str("db", dbPath).
			Str("output", cfg.OutputDir).
			Int("stores", cat.NumStores()).
			Int("products", cat.NumProducts()).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
