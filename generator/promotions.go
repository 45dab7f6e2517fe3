package generator

import (
	"time"

	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/catalog"
)

// =============================================================================
// ANNUAL EVENTS
// =============================================================================

// AnnualEvent is a recurring sale whose first day is derived from the year.
type AnnualEvent struct {
	Name            string
	Anchor          func(year int) calendar.Date
	DurationDays    int
	DiscountPercent float64
}

func fixedDay(month time.Month, day int) func(int) calendar.Date {
	return func(year int) calendar.Date { return calendar.NewDate(year, month, day) }
}

// AnnualEvents is the retail event calendar. Labor Day appears twice: once
// on Sep 1 and once on the day after the first of the month, so the two
// windows overlap and the earlier row wins in lookups.
var AnnualEvents = []AnnualEvent{
	{
		Name: "Black Friday",
		Anchor: func(year int) calendar.Date {
			return calendar.NthWeekday(year, time.November, time.Thursday, 4).AddDays(1)
		},
		DurationDays:    5,
		DiscountPercent: 25,
	},
	{Name: "Labor Day Sale", Anchor: fixedDay(time.September, 1), DurationDays: 3, DiscountPercent: 20},
	{Name: "Christmas Sale", Anchor: fixedDay(time.December, 25), DurationDays: 7, DiscountPercent: 15},
	{Name: "New Year Sale", Anchor: fixedDay(time.January, 1), DurationDays: 7, DiscountPercent: 10},
	{Name: "Presidents Day Sale", Anchor: fixedDay(time.February, 3), DurationDays: 3, DiscountPercent: 20},
	{
		Name: "Memorial Day Sale",
		Anchor: func(year int) calendar.Date {
			return calendar.LastDayOfMonth(year, time.May).AddDays(-6)
		},
		DurationDays:    3,
		DiscountPercent: 15,
	},
	{Name: "Independence Day Sale", Anchor: fixedDay(time.July, 4), DurationDays: 3, DiscountPercent: 15},
	{
		Name: "Labor Day Sale",
		Anchor: func(year int) calendar.Date {
			return calendar.FirstDayOfMonth(year, time.September).AddDays(1)
		},
		DurationDays:    3,
		DiscountPercent: 20,
	},
}

// Sampling bounds, inclusive.
const (
	eventMinProducts = 5
	eventMaxProducts = 15
	flashMinProducts = 3
	flashMaxProducts = 8

	flashMinDiscount = 10.0
	flashMaxDiscount = 30.0

	// flashSharePercent of the days in the range get a flash sale.
	flashSharePercent = 5
)

// =============================================================================
// PROMOTION ENGINE
// =============================================================================

// GeneratePromotions builds the promotions table for r in one pass: annual
// events first (in AnnualEvents order, year by year), then flash sales.
func GeneratePromotions(cat *catalog.Catalog, r calendar.Range, rng *Stream) ([]Promotion, error) {
	if !r.Valid() {
		return nil, &InvalidRangeError{Start: r.Start, End: r.End}
	}

	var promotions []Promotion
	products := cat.ProductIDs()

	for year := r.Start.Year(); year <= r.End.Year(); year++ {
		for _, event := range AnnualEvents {
			anchor := event.Anchor(year)
			if !r.Contains(anchor) {
				continue
			}
			for d := 0; d < event.DurationDays; d++ {
				day := anchor.AddDays(d)
				if day.After(r.End) {
					break
				}
				picked, err := sampleProducts(rng, products, eventMinProducts, eventMaxProducts, event.Name)
				if err != nil {
					return nil, err
				}
				for _, id := range picked {
					promotions = append(promotions, Promotion{
						ProductID:       id,
						Date:            day,
						DiscountPercent: event.DiscountPercent,
						PromotionType:   event.Name,
					})
				}
			}
		}
	}

	for _, day := range FlashSaleDates(r) {
		picked, err := sampleProducts(rng, products, flashMinProducts, flashMaxProducts, FlashSaleType)
		if err != nil {
			return nil, err
		}
		for _, id := range picked {
			promotions = append(promotions, Promotion{
				ProductID:       id,
				Date:            day,
				DiscountPercent: rng.Uniform(flashMinDiscount, flashMaxDiscount),
				PromotionType:   FlashSaleType,
			})
		}
	}

	return promotions, nil
}

// FlashSaleDates spreads round(5% of the days in r) dates evenly across r,
// both endpoints included.
func FlashSaleDates(r calendar.Range) []calendar.Date {
	days := r.Days()
	n := (days*flashSharePercent + 50) / 100
	return spreadInclusive(r, n)
}

// spreadInclusive returns n dates from Start to End at even spacing,
// truncated to whole days. n == 1 yields Start.
func spreadInclusive(r calendar.Range, n int) []calendar.Date {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []calendar.Date{r.Start}
	}
	span := r.Days() - 1
	dates := make([]calendar.Date, n)
	for i := range dates {
		dates[i] = r.Start.AddDays(i * span / (n - 1))
	}
	return dates
}

func sampleProducts(rng *Stream, products []string, lo, hi int, step string) ([]string, error) {
	k := rng.IntRange(lo, hi)
	if k > len(products) {
		return nil, &InsufficientCatalogError{Requested: k, Available: len(products), Step: step}
	}
	idx := rng.Sample(len(products), k)
	picked := make([]string, k)
	for i, j := range idx {
		picked[i] = products[j]
	}
	return picked, nil
}
