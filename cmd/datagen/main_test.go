package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/retail-datagen/generator"
)

func TestRun_PrintsManifest(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{
		"-start", "2024-01-06", "-end", "2024-01-07",
		"-out", filepath.Join(dir, "out"),
		"-db", filepath.Join(dir, "runs.db"),
		"-seed", "42",
		"-log-format", "json",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var m generator.Manifest
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &m))
	assert.Equal(t, int64(42), m.Seed)
	assert.Len(t, m.Files[generator.TableTraffic], 2)
	assert.Len(t, m.Files[generator.TableInventory], 1)
	assert.Contains(t, stderr.String(), "generation complete")
}

func TestRun_InvalidRangeExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-start", "2024-02-01", "-end", "2024-01-01",
		"-out", t.TempDir(), "-db", "",
	}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Empty(t, stdout.String())
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-nope"}, &stdout, &stderr))
}

func TestRun_InvalidCatalogExitCode(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "stores: [\n"},
		{"negative price", "products:\n  - {id: Bad_001, name: Bad, category: Electronics, price: -1, margin: 0.2, seasonality: none}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN: A catalog override that does not validate
			dir := t.TempDir()
			path := filepath.Join(dir, "catalog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			// WHEN: Running against it
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), []string{
				"-start", "2024-01-01", "-end", "2024-01-02",
				"-out", filepath.Join(dir, "out"), "-db", "", "-catalog", path,
			}, &stdout, &stderr)

			// THEN: It is reported as bad configuration and nothing is written
			assert.Equal(t, 2, code, stderr.String())
			assert.Empty(t, stdout.String())
			assert.NoDirExists(t, filepath.Join(dir, "out"))
		})
	}
}
