package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/catalog"
	"github.com/warp/retail-datagen/generator"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dateRange(start, end string) calendar.Range {
	return calendar.Range{Start: calendar.MustParseDate(start), End: calendar.MustParseDate(end)}
}

func promoStream() *generator.Stream {
	return generator.NewStream(42, 1)
}

type typeDay struct {
	promotionType string
	date          string
}

func groupPromotions(promotions []generator.Promotion) map[typeDay][]generator.Promotion {
	groups := make(map[typeDay][]generator.Promotion)
	for _, p := range promotions {
		k := typeDay{p.PromotionType, p.Date.String()}
		groups[k] = append(groups[k], p)
	}
	return groups
}

func datesOf(promotions []generator.Promotion, promotionType string) map[string]bool {
	dates := make(map[string]bool)
	for _, p := range promotions {
		if p.PromotionType == promotionType {
			dates[p.Date.String()] = true
		}
	}
	return dates
}

func smallCatalog(t *testing.T, nProducts int) *catalog.Catalog {
	t.Helper()
	products := catalog.DefaultProducts()[:nProducts]
	c, err := catalog.New(catalog.DefaultStores()[:2], products)
	require.NoError(t, err)
	return c
}

// =============================================================================
// ANNUAL EVENT TESTS
// =============================================================================

func TestGeneratePromotions_AnnualEventWindows2024(t *testing.T) {
	// GIVEN: A full calendar year
	// WHEN: Generating promotions
	// THEN: Every annual event covers exactly its window

	r := dateRange("2024-01-01", "2024-12-31")
	promotions, err := generator.GeneratePromotions(catalog.Default(), r, promoStream())
	require.NoError(t, err)

	expected := map[string][]string{
		"New Year Sale":         {"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"},
		"Presidents Day Sale":   {"2024-02-03", "2024-02-04", "2024-02-05"},
		"Memorial Day Sale":     {"2024-05-25", "2024-05-26", "2024-05-27"},
		"Independence Day Sale": {"2024-07-04", "2024-07-05", "2024-07-06"},
		"Labor Day Sale":        {"2024-09-01", "2024-09-02", "2024-09-03", "2024-09-04"},
		"Black Friday":          {"2024-11-29", "2024-11-30", "2024-12-01", "2024-12-02", "2024-12-03"},
		"Christmas Sale":        {"2024-12-25", "2024-12-26", "2024-12-27", "2024-12-28", "2024-12-29", "2024-12-30", "2024-12-31"},
	}
	for name, days := range expected {
		got := datesOf(promotions, name)
		assert.Len(t, got, len(days), name)
		for _, d := range days {
			assert.True(t, got[d], "%s should run on %s", name, d)
		}
	}
}

func TestGeneratePromotions_EventDiscountsAndSampleSizes(t *testing.T) {
	r := dateRange("2024-01-01", "2024-12-31")
	promotions, err := generator.GeneratePromotions(catalog.Default(), r, promoStream())
	require.NoError(t, err)

	discounts := map[string]float64{
		"Black Friday":          25,
		"Christmas Sale":        15,
		"New Year Sale":         10,
		"Presidents Day Sale":   20,
		"Memorial Day Sale":     15,
		"Independence Day Sale": 15,
		"Labor Day Sale":        20,
	}

	for key, rows := range groupPromotions(promotions) {
		if key.promotionType == generator.FlashSaleType {
			continue
		}
		for _, p := range rows {
			assert.Equal(t, discounts[key.promotionType], p.DiscountPercent, key.promotionType)
		}
		if key.promotionType == "Labor Day Sale" {
			// Both Labor Day windows share a name; Sep 2-3 carry two samples.
			continue
		}
		assert.GreaterOrEqual(t, len(rows), 5, "%v", key)
		assert.LessOrEqual(t, len(rows), 15, "%v", key)

		seen := make(map[string]bool)
		for _, p := range rows {
			assert.False(t, seen[p.ProductID], "product %s sampled twice on %v", p.ProductID, key)
			seen[p.ProductID] = true
		}
	}
}

func TestGeneratePromotions_AnchorOutsideRangeSkipsEvent(t *testing.T) {
	// GIVEN: A range that starts after New Year's day
	// THEN: The New Year sale is skipped entirely, even its in-range days
	r := dateRange("2024-01-03", "2024-01-20")
	promotions, err := generator.GeneratePromotions(catalog.Default(), r, promoStream())
	require.NoError(t, err)

	assert.Empty(t, datesOf(promotions, "New Year Sale"))
}

func TestGeneratePromotions_WindowClippedToRangeEnd(t *testing.T) {
	r := dateRange("2024-12-20", "2024-12-27")
	promotions, err := generator.GeneratePromotions(catalog.Default(), r, promoStream())
	require.NoError(t, err)

	got := datesOf(promotions, "Christmas Sale")
	assert.Equal(t, map[string]bool{"2024-12-25": true, "2024-12-26": true, "2024-12-27": true}, got)
}

func TestGeneratePromotions_EveryYearInRange(t *testing.T) {
	// A range starting mid-year still reaches the next year's New Year sale.
	r := dateRange("2024-06-01", "2025-03-01")
	promotions, err := generator.GeneratePromotions(catalog.Default(), r, promoStream())
	require.NoError(t, err)

	assert.True(t, datesOf(promotions, "New Year Sale")["2025-01-01"])
	assert.True(t, datesOf(promotions, "Black Friday")["2024-11-29"])
}

func TestGeneratePromotions_DatesWithinRange(t *testing.T) {
	r := dateRange("2023-11-15", "2025-02-10")
	promotions, err := generator.GeneratePromotions(catalog.Default(), r, promoStream())
	require.NoError(t, err)
	require.NotEmpty(t, promotions)

	for _, p := range promotions {
		assert.True(t, r.Contains(p.Date), "promotion on %s outside %s", p.Date, r)
	}
}

// =============================================================================
// FLASH SALE TESTS
// =============================================================================

func TestFlashSaleDates_CountAndSpacing(t *testing.T) {
	tests := []struct {
		name  string
		r     calendar.Range
		dates []string
	}{
		{"one week has none", dateRange("2024-01-01", "2024-01-07"), nil},
		{"ten days round half up", dateRange("2024-01-01", "2024-01-10"), []string{"2024-01-01"}},
		{"thirty days", dateRange("2024-01-01", "2024-01-30"), []string{"2024-01-01", "2024-01-30"}},
		{"quarter", dateRange("2024-01-01", "2024-03-31"),
			[]string{"2024-01-01", "2024-01-23", "2024-02-15", "2024-03-08", "2024-03-31"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generator.FlashSaleDates(tt.r)
			require.Len(t, got, len(tt.dates))
			for i, d := range tt.dates {
				assert.Equal(t, d, got[i].String())
			}
		})
	}
}

func TestGeneratePromotions_EveryFlashDateEmitsRows(t *testing.T) {
	// GIVEN: A quarter, which has five flash dates
	// WHEN: Generating promotions
	// THEN: Each flash date has 3-8 distinct products at 10-30 percent off
	r := dateRange("2024-01-01", "2024-03-31")
	promotions, err := generator.GeneratePromotions(catalog.Default(), r, promoStream())
	require.NoError(t, err)

	groups := groupPromotions(promotions)
	for _, d := range generator.FlashSaleDates(r) {
		rows := groups[typeDay{generator.FlashSaleType, d.String()}]
		assert.GreaterOrEqual(t, len(rows), 3, d.String())
		assert.LessOrEqual(t, len(rows), 8, d.String())

		seen := make(map[string]bool)
		for _, p := range rows {
			assert.GreaterOrEqual(t, p.DiscountPercent, 10.0)
			assert.Less(t, p.DiscountPercent, 30.0)
			assert.False(t, seen[p.ProductID])
			seen[p.ProductID] = true
		}
	}
}

// =============================================================================
// CATALOG SIZE / DETERMINISM
// =============================================================================

func TestGeneratePromotions_InsufficientCatalog(t *testing.T) {
	// GIVEN: Three products, fewer than any event sample (5-15)
	// WHEN: The range contains an event anchor
	// THEN: Generation fails fast with InsufficientCatalogError
	cat := smallCatalog(t, 3)

	_, err := generator.GeneratePromotions(cat, dateRange("2024-01-01", "2024-01-03"), promoStream())
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrInsufficientCatalog)

	var catErr *generator.InsufficientCatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, 3, catErr.Available)
	assert.Greater(t, catErr.Requested, 3)
	assert.Equal(t, "New Year Sale", catErr.Step)
}

func TestGeneratePromotions_SmallCatalogWithoutEventsIsEmpty(t *testing.T) {
	cat := smallCatalog(t, 3)

	promotions, err := generator.GeneratePromotions(cat, dateRange("2024-03-10", "2024-03-16"), promoStream())
	require.NoError(t, err)
	assert.Empty(t, promotions)
}

func TestGeneratePromotions_SameSeedSameTable(t *testing.T) {
	r := dateRange("2024-01-01", "2024-12-31")

	a, err := generator.GeneratePromotions(catalog.Default(), r, generator.NewStream(7, 1))
	require.NoError(t, err)
	b, err := generator.GeneratePromotions(catalog.Default(), r, generator.NewStream(7, 1))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGeneratePromotions_InvertedRange(t *testing.T) {
	_, err := generator.GeneratePromotions(catalog.Default(), dateRange("2024-02-01", "2024-01-01"), promoStream())
	assert.ErrorIs(t, err, generator.ErrInvalidRange)
}
