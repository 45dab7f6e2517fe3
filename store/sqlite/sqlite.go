/*
Package sqlite provides the SQLite-backed run catalog.

PURPOSE:
  Records every generation run and every file it wrote, so a dataset on disk
  can be traced back to the seed and range that produced it. Implements
  generator.RunRecorder and serves the read side of the HTTP API.

KEY TABLES:
  runs:      One row per run (status, seed, range, output root, metadata)
  run_files: Every file a completed run wrote, in manifest order

RUN LIFECYCLE:
  BeginRun    -> status 'running'
  CompleteRun -> status 'completed', files inserted in one transaction
  FailRun     -> status 'failed', error text kept

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; the engine calls the recorder from a
  single goroutine but the HTTP API reads concurrently.

WAL MODE:
  SQLite is opened with WAL so API reads do not block an in-flight run.

USAGE:
  catalog, err := sqlite.New("./data/runs.db")
  if err != nil {
      log.Fatal(err)
  }
  defer catalog.Close()

  engine := generator.NewEngine(cat, writer, generator.WithRecorder(catalog))

MIGRATION:
  Schema is auto-migrated on New().
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/generator"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run is one row of the runs table.
type Run struct {
	ID          string
	Seed        int64
	StartDate   calendar.Date
	EndDate     calendar.Date
	OutputRoot  string
	Status      RunStatus
	Error       string
	Metadata    *generator.GenerationMetadata
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Store is the run catalog.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// New opens (or creates) the catalog at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		output_root TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		metadata_json TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at
		ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_status
		ON runs(status);

	CREATE TABLE IF NOT EXISTS run_files (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		table_name TEXT NOT NULL,
		partition_date TEXT,
		path TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_run_files_table
		ON run_files(run_id, table_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN RECORDER
// =============================================================================

// BeginRun inserts a run in the running state.
func (s *Store) BeginRun(ctx context.Context, run generator.RunInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, start_date, end_date, output_root, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Seed, run.Range.Start.String(), run.Range.End.String(),
		run.OutputRoot, StatusRunning, run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// CompleteRun marks the run completed and stores its files and metadata
// atomically.
func (s *Store) CompleteRun(ctx context.Context, m *generator.Manifest) error {
	metadataJSON, err := json.Marshal(m.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	res, err := sqlTx.ExecContext(ctx, `
		UPDATE runs SET status = ?, metadata_json = ?, completed_at = ?, error = ''
		WHERE id = ?
	`, StatusCompleted, string(metadataJSON), s.now().UTC().Format(time.RFC3339Nano), m.RunID)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", m.RunID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", m.RunID, err)
	}
	if n == 0 {
		return fmt.Errorf("complete run %s: %w", m.RunID, ErrRunNotFound)
	}

	stmt, err := sqlTx.PrepareContext(ctx, `
		INSERT INTO run_files (run_id, seq, table_name, partition_date, path)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for _, table := range generator.AllTables {
		for _, path := range m.Paths(table) {
			var partition sql.NullString
			if d, err := generator.ParsePartition(path); err == nil {
				partition = sql.NullString{String: d.String(), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, m.RunID, seq, string(table), partition, path); err != nil {
				return fmt.Errorf("failed to insert file %s: %w", path, err)
			}
			seq++
		}
	}

	return sqlTx.Commit()
}

// FailRun marks the run failed with the error text.
func (s *Store) FailRun(ctx context.Context, runID string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, completed_at = ?
		WHERE id = ?
	`, StatusFailed, msg, s.now().UTC().Format(time.RFC3339Nano), runID)
	if err != nil {
		return fmt.Errorf("failed to mark run %s failed: %w", runID, err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

const runColumns = `id, seed, start_date, end_date, output_root, status, error, metadata_json, started_at, completed_at`

// ListRuns returns runs newest first. An empty status returns every run.
func (s *Store) ListRuns(ctx context.Context, status RunStatus) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	var args []any
	if status != "" {
		query = `SELECT ` + runColumns + ` FROM runs WHERE status = ? ORDER BY started_at DESC, id`
		args = []any{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Manifest rebuilds the manifest of a completed run. Runs that have not
// completed return a manifest with no files.
func (s *Store) Manifest(ctx context.Context, id string) (*generator.Manifest, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT table_name, path FROM run_files WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := &generator.Manifest{
		RunID: run.ID,
		Seed:  run.Seed,
		Files: make(map[generator.Table][]string, len(generator.AllTables)),
	}
	for _, table := range generator.AllTables {
		m.Files[table] = []string{}
	}
	if run.Metadata != nil {
		m.Metadata = *run.Metadata
	}

	for rows.Next() {
		var table, path string
		if err := rows.Scan(&table, &path); err != nil {
			return nil, err
		}
		m.Files[generator.Table(table)] = append(m.Files[generator.Table(table)], path)
	}
	return m, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var status, startDate, endDate, startedAt string
	var metadataJSON, completedAt sql.NullString

	if err := row.Scan(
		&r.ID, &r.Seed, &startDate, &endDate, &r.OutputRoot, &status, &r.Error,
		&metadataJSON, &startedAt, &completedAt,
	); err != nil {
		return Run{}, err
	}
	r.Status = RunStatus(status)

	var err error
	if r.StartDate, err = calendar.ParseDate(startDate); err != nil {
		return Run{}, err
	}
	if r.EndDate, err = calendar.ParseDate(endDate); err != nil {
		return Run{}, err
	}
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return Run{}, fmt.Errorf("run %s: decode started_at: %w", r.ID, err)
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return Run{}, fmt.Errorf("run %s: decode completed_at: %w", r.ID, err)
		}
		r.CompletedAt = &t
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		var meta generator.GenerationMetadata
		if err := json.Unmarshal([]byte(metadataJSON.String), &meta); err != nil {
			return Run{}, fmt.Errorf("run %s: decode metadata: %w", r.ID, err)
		}
		r.Metadata = &meta
	}
	return r, nil
}
