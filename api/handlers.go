/*
handlers.go - HTTP API handlers for the retail data generator

PURPOSE:
  Exposes the catalog, the run catalog and on-demand generation over REST.
  Handles HTTP request/response, JSON serialization, and delegates to the
  generator.

ENDPOINTS:
  GET    /api/health             Liveness and catalog size
  GET    /api/catalog/stores     Stores being simulated
  GET    /api/catalog/products   Products being simulated
  GET    /api/runs               Recorded runs, newest first (?status=)
  GET    /api/runs/{id}          One run with its file listing
  POST   /api/runs               Generate a range, returns the manifest

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Run catalog
  - Catalog: Stores and products every run simulates
  - OutputDir: Each run writes under OutputDir/<run id>

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid dates or range, catalog too small for the range
  - 404: Unknown run
  - 500: Storage and internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warp/retail-datagen/catalog"
	"github.com/warp/retail-datagen/generator"
	"github.com/warp/retail-datagen/runner"
	"github.com/warp/retail-datagen/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Catalog   *catalog.Catalog
	OutputDir string
	Workers   int
	Logger    zerolog.Logger

	newRunID func() string
}

// NewHandler creates a new handler. Runs write under outputDir.
func NewHandler(store *sqlite.Store, cat *catalog.Catalog, outputDir string) *Handler {
	return &Handler{
		Store:     store,
		Catalog:   cat,
		OutputDir: outputDir,
		Workers:   1,
		Logger:    zerolog.Nop(),
		newRunID:  uuid.NewString,
	}
}

// =============================================================================
// HEALTH AND CATALOG
// =============================================================================

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Stores:   h.Catalog.NumStores(),
		Products: h.Catalog.NumProducts(),
	})
}

// ListStores returns the catalog's stores in catalog order.
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores := h.Catalog.Stores()
	dtos := make([]StoreDTO, len(stores))
	for i, s := range stores {
		dtos[i] = toStoreDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListProducts returns the catalog's products in catalog order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.Catalog.Products()
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RUN ENDPOINTS
// =============================================================================

// ListRuns returns recorded runs, optionally filtered by ?status=.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	status := sqlite.RunStatus(r.URL.Query().Get("status"))
	switch status {
	case "", sqlite.StatusRunning, sqlite.StatusCompleted, sqlite.StatusFailed:
	default:
		writeError(w, http.StatusBadRequest, "invalid status filter", nil)
		return
	}

	runs, err := h.Store.ListRuns(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one run and the files it wrote.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetRun(r.Context(), id)
	if errors.Is(err, sqlite.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run", err)
		return
	}

	manifest, err := h.Store.Manifest(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run files", err)
		return
	}

	writeJSON(w, http.StatusOK, RunDetailResponse{
		Run:   toRunDTO(*run),
		Files: manifest.Files,
	})
}

// CreateRun generates the requested range synchronously and returns the
// manifest.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	// Reject bad ranges before a run row is created.
	if _, err := generator.ParseRange(req.StartDate, req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err)
		return
	}

	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	}

	manifest, err := h.Generate(r.Context(), req.StartDate, req.EndDate, seed)
	if err != nil {
		writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, manifest)
}

// Generate runs one recorded generation into OutputDir/<run id>.
func (h *Handler) Generate(ctx context.Context, start, end string, seed int64) (*generator.Manifest, error) {
	runID := h.newRunID()
	return runner.Generate(ctx, start, end, filepath.Join(h.OutputDir, runID),
		runner.WithCatalog(h.Catalog),
		runner.WithSeed(seed),
		runner.WithWorkers(h.Workers),
		runner.WithRecorder(h.Store),
		runner.WithLogger(h.Logger),
		runner.WithRunID(runID),
	)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeRunError maps generation errors to HTTP status codes.
func writeRunError(w http.ResponseWriter, err error) {
	switch {
	case generator.IsClientError(err):
		writeError(w, http.StatusBadRequest, "invalid generation request", err)
	case generator.IsStorageError(err):
		writeError(w, http.StatusInternalServerError, "failed to write dataset", err)
	default:
		writeError(w, http.StatusInternalServerError, "generation failed", err)
	}
}
