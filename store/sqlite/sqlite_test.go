package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/catalog"
	"github.com/warp/retail-datagen/generator"
	"github.com/warp/retail-datagen/store/memory"
	"github.com/warp/retail-datagen/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func runInfo(id string, startedAt time.Time) generator.RunInfo {
	return generator.RunInfo{
		ID:   id,
		Seed: 42,
		Range: calendar.Range{
			Start: calendar.MustParseDate("2024-01-01"),
			End:   calendar.MustParseDate("2024-01-07"),
		},
		OutputRoot: "out",
		StartedAt:  startedAt,
	}
}

func TestStore_BeginThenGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.BeginRun(ctx, runInfo("r1", started)))

	run, err := s.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, sqlite.StatusRunning, run.Status)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, "2024-01-01", run.StartDate.String())
	assert.Equal(t, "2024-01-07", run.EndDate.String())
	assert.Equal(t, "out", run.OutputRoot)
	assert.True(t, started.Equal(run.StartedAt))
	assert.Nil(t, run.CompletedAt)
	assert.Nil(t, run.Metadata)
}

func TestStore_DuplicateRunID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.BeginRun(ctx, runInfo("r1", time.Now())))
	assert.Error(t, s.BeginRun(ctx, runInfo("r1", time.Now())))
}

func TestStore_GetRunNotFound(t *testing.T) {
	_, err := newStore(t).GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, sqlite.ErrRunNotFound)
}

func TestStore_RecordsEngineRun(t *testing.T) {
	// GIVEN: An engine recording into the catalog
	ctx := context.Background()
	s := newStore(t)
	w := memory.NewWriter("out")
	engine := generator.NewEngine(catalog.Default(), w,
		generator.WithSeed(7),
		generator.WithRecorder(s),
		generator.WithRunID("run-7"),
	)

	// WHEN: A run completes
	m, err := engine.Generate(ctx, "2024-01-01", "2024-01-07")
	require.NoError(t, err)

	// THEN: The run is completed with metadata and its manifest reloads
	run, err := s.GetRun(ctx, "run-7")
	require.NoError(t, err)
	assert.Equal(t, sqlite.StatusCompleted, run.Status)
	require.NotNil(t, run.CompletedAt)
	require.NotNil(t, run.Metadata)
	assert.Equal(t, 10, run.Metadata.TotalStores)
	assert.Equal(t, m.Metadata.FileCount, run.Metadata.FileCount)

	reloaded, err := s.Manifest(ctx, "run-7")
	require.NoError(t, err)
	assert.Equal(t, m.Files, reloaded.Files)
	assert.Equal(t, m.Seed, reloaded.Seed)
}

func TestStore_RecordsFailedRun(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	w := memory.NewWriter("out")
	w.FailOn = map[generator.Table]error{generator.TableSales: errors.New("disk full")}

	_, err := generator.NewEngine(catalog.Default(), w,
		generator.WithSeed(7),
		generator.WithRecorder(s),
		generator.WithRunID("bad-run"),
	).Generate(ctx, "2024-01-01", "2024-01-03")
	require.Error(t, err)

	run, err := s.GetRun(ctx, "bad-run")
	require.NoError(t, err)
	assert.Equal(t, sqlite.StatusFailed, run.Status)
	assert.Contains(t, run.Error, "disk full")

	m, err := s.Manifest(ctx, "bad-run")
	require.NoError(t, err)
	assert.Empty(t, m.Paths(generator.TableSales))
}

func TestStore_ListRuns(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.BeginRun(ctx, runInfo("old", base)))
	require.NoError(t, s.BeginRun(ctx, runInfo("new", base.Add(time.Hour))))
	require.NoError(t, s.FailRun(ctx, "old", errors.New("boom")))

	all, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[1].ID)

	failed, err := s.ListRuns(ctx, sqlite.StatusFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "old", failed[0].ID)

	completed, err := s.ListRuns(ctx, sqlite.StatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestStore_CompleteUnknownRun(t *testing.T) {
	err := newStore(t).CompleteRun(context.Background(), &generator.Manifest{RunID: "ghost"})
	assert.ErrorIs(t, err, sqlite.ErrRunNotFound)
}

func TestStore_CorruptTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		column string
	}{
		{"started_at", "started_at"},
		{"completed_at", "completed_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN: A run whose timestamp was overwritten with garbage
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "runs.db")
			s, err := sqlite.New(path)
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			require.NoError(t, s.BeginRun(ctx, runInfo("r1", time.Now())))

			raw, err := sql.Open("sqlite3", path)
			require.NoError(t, err)
			defer raw.Close()
			_, err = raw.ExecContext(ctx, `UPDATE runs SET `+tt.column+` = 'yesterday' WHERE id = 'r1'`)
			require.NoError(t, err)

			// WHEN: Loading it
			_, getErr := s.GetRun(ctx, "r1")
			_, listErr := s.ListRuns(ctx, "")

			// THEN: The decode error surfaces instead of a zero time
			require.Error(t, getErr)
			assert.Contains(t, getErr.Error(), tt.column)
			assert.Error(t, listErr)
		})
	}
}
