package parquet_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	goparquet "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/generator"
	"github.com/warp/retail-datagen/store/parquet"
)

func TestWriter_TrafficRoundTrip(t *testing.T) {
	// GIVEN: A day of traffic
	root := t.TempDir()
	w := parquet.NewWriter(root)
	d := calendar.MustParseDate("2024-01-07")
	batch := generator.TrafficBatch{
		{StoreID: "store_001", Date: d, CustomerTraffic: 812, WeatherImpact: 1.04, IsHoliday: false},
		{StoreID: "store_002", Date: d, CustomerTraffic: 0, WeatherImpact: 0.93, IsHoliday: false},
	}

	// WHEN: Writing the partition
	path, err := w.Write(context.Background(), batch, d)
	require.NoError(t, err)

	// THEN: It lands in the dated partition and reads back unchanged
	assert.Equal(t, filepath.Join(root, "customer_traffic", "year=2024", "month=01", "day=07", "traffic_2024-01-07.parquet"), path)
	got, err := parquet.ReadTraffic(path)
	require.NoError(t, err)
	assert.Equal(t, []generator.TrafficRecord(batch), got)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")
}

func TestWriter_SalesRoundTrip(t *testing.T) {
	root := t.TempDir()
	w := parquet.NewWriter(root)
	d := calendar.MustParseDate("2024-03-01")
	batch := generator.SalesBatch{{
		Date: d, StoreID: "store_003", ProductID: "Cloth_002", Category: "Clothing",
		QuantitySold: 3, UnitPrice: 25, Revenue: 56.25, Cost: 1.5, DiscountPercent: 25, Profit: 54.75,
	}}

	path, err := w.Write(context.Background(), batch, d)
	require.NoError(t, err)

	got, err := parquet.ReadSales(path)
	require.NoError(t, err)
	assert.Equal(t, []generator.SalesRecord(batch), got)
}

func TestWriter_SingleFileTables(t *testing.T) {
	root := t.TempDir()
	w := parquet.NewWriter(root)
	d := calendar.MustParseDate("2024-01-01")

	path, err := w.WriteOnce(context.Background(), generator.PromotionBatch{
		{ProductID: "Elec_001", Date: d, DiscountPercent: 10, PromotionType: "New Year Sale"},
	})
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(root, "promotions", "promotions.parquet"), path)

	// An empty table still produces a readable file.
	path, err = w.WriteOnce(context.Background(), generator.StoreEventBatch{})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriter_MetadataRoundTrip(t *testing.T) {
	root := t.TempDir()
	w := parquet.NewWriter(root)
	meta := generator.GenerationMetadata{
		RunID:          "run-1",
		Seed:           42,
		GenerationDate: time.Date(2024, 4, 1, 9, 15, 0, 0, time.UTC),
		StartDate:      calendar.MustParseDate("2024-01-01"),
		EndDate:        calendar.MustParseDate("2024-01-07"),
		TotalStores:    10,
		TotalProducts:  20,
		FileCount: map[generator.Table]int{
			generator.TableSales:       7,
			generator.TableInventory:   1,
			generator.TableTraffic:     7,
			generator.TablePromotions:  1,
			generator.TableStoreEvents: 1,
		},
		TotalFiles: 17,
	}

	path, err := w.WriteOnce(context.Background(), generator.MetadataBatch{meta})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "metadata", "generation_metadata.parquet"), path)

	got, err := parquet.ReadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, meta.RunID, got.RunID)
	assert.Equal(t, meta.Seed, got.Seed)
	assert.True(t, meta.GenerationDate.Equal(got.GenerationDate))
	assert.Equal(t, meta.StartDate, got.StartDate)
	assert.Equal(t, meta.EndDate, got.EndDate)
	assert.Equal(t, meta.FileCount, got.FileCount)
	assert.Equal(t, meta.TotalFiles, got.TotalFiles)
}

func TestWriter_UnwritableRoot(t *testing.T) {
	// GIVEN: A root that is a regular file
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	w := parquet.NewWriter(file)

	// WHEN: Writing
	_, err := w.WriteOnce(context.Background(), generator.PromotionBatch{})

	// THEN: A StorageWriteError names the table and path
	require.Error(t, err)
	assert.True(t, generator.IsStorageError(err))
	var swErr *generator.StorageWriteError
	require.ErrorAs(t, err, &swErr)
	assert.Equal(t, generator.TablePromotions, swErr.Table)
	assert.Contains(t, swErr.Path, "promotions.parquet")
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := t.TempDir()
	_, err := parquet.NewWriter(root).Write(ctx, generator.TrafficBatch{}, calendar.MustParseDate("2024-01-01"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, filepath.Join(root, "customer_traffic"))
}

func columnNames(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)

	pf, err := goparquet.OpenFile(f, info.Size())
	require.NoError(t, err)

	var names []string
	for _, field := range pf.Schema().Fields() {
		names = append(names, field.Name())
	}
	return names
}

func TestWriter_ColumnNames(t *testing.T) {
	// GIVEN: One sales partition and the promotions file
	root := t.TempDir()
	w := parquet.NewWriter(root)
	d := calendar.MustParseDate("2024-01-01")

	salesPath, err := w.Write(context.Background(), generator.SalesBatch{{
		Date: d, StoreID: "store_001", ProductID: "Elec_001", Category: "Electronics",
		QuantitySold: 1, UnitPrice: 499.99, Revenue: 449.99, Cost: 0.6, DiscountPercent: 10, Profit: 449.39,
	}}, d)
	require.NoError(t, err)
	promoPath, err := w.WriteOnce(context.Background(), generator.PromotionBatch{
		{ProductID: "Elec_001", Date: d, DiscountPercent: 10, PromotionType: "New Year Sale"},
	})
	require.NoError(t, err)

	// WHEN: Reading the file schemas directly
	sales := columnNames(t, salesPath)
	promos := columnNames(t, promoPath)

	// THEN: Downstream readers find the documented column names
	assert.ElementsMatch(t, []string{
		"date", "store_id", "product_id", "category", "quantity_sold",
		"unit_price", "revenue", "cost", "discount_percent", "profit",
	}, sales)
	assert.ElementsMatch(t, []string{"product_id", "date", "discount_percent", "promotion_type"}, promos)
}
