package generator_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/generator"
)

func TestPartitionFile(t *testing.T) {
	d := calendar.MustParseDate("2024-01-07")

	tests := []struct {
		table generator.Table
		want  string
	}{
		{generator.TableSales, "out/sales/year=2024/month=01/day=07/sales_2024-01-07.parquet"},
		{generator.TableTraffic, "out/customer_traffic/year=2024/month=01/day=07/traffic_2024-01-07.parquet"},
		{generator.TableInventory, "out/inventory/year=2024/month=01/day=07/inventory_2024-01-07.parquet"},
	}
	for _, tt := range tests {
		got := generator.PartitionFile("out", tt.table, d, ".parquet")
		assert.Equal(t, filepath.FromSlash(tt.want), got)
	}
}

func TestTableFile(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("out/promotions/promotions.parquet"),
		generator.TableFile("out", generator.TablePromotions, ".parquet"))
	assert.Equal(t, filepath.FromSlash("out/store_events/store_events.parquet"),
		generator.TableFile("out", generator.TableStoreEvents, ".parquet"))
	assert.Equal(t, filepath.FromSlash("out/metadata/generation_metadata.parquet"),
		generator.TableFile("out", generator.TableMetadata, ".parquet"))
}

func TestParsePartition_RoundTrip(t *testing.T) {
	d := calendar.MustParseDate("2025-12-31")
	got, err := generator.ParsePartition(generator.PartitionFile("/data", generator.TableSales, d, ".parquet"))
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestParsePartition_Errors(t *testing.T) {
	for _, path := range []string{
		"sales/sales_2024-01-01.parquet",
		"sales/year=2024/month=01/x.parquet",
		"sales/year=2024/month=xx/day=01/x.parquet",
		"sales/year=2024/month=02/day=30/x.parquet",
	} {
		_, err := generator.ParsePartition(path)
		assert.Error(t, err, path)
	}
}
