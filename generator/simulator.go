/*
simulator.go - Per-day demand simulation

PURPOSE:
  Turns one calendar day into that day's traffic, sales and inventory rows.
  A day depends only on the catalog, the reference index, the holiday
  calendar and its own random stream, never on another day's output.

DEMAND MODEL (per store):
  traffic  = round(base * dow * holiday * weather * event * U(0.9, 1.1))

DEMAND MODEL (per store and product):
  quantity = floor(traffic * 0.05 * size * priceFactor * season * promo * U(1.0, 0.2))
  revenue  = round2(quantity * price * (1 - discount/100))
  cost     = round2(quantity * (1 - margin))
  profit   = revenue - cost

  The cost term does not scale with price. back_to_school products follow
  the day-of-week factor. Both are kept as-is; see DESIGN.md.

RANDOM DRAW ORDER:
  Per store: weather, traffic noise. Per product: quantity noise, inventory
  level, reorder point. Changing the order changes every seeded dataset.
*/
package generator

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/catalog"
)

const (
	weatherMean   = 1.0
	weatherStdDev = 0.1
	weatherMin    = 0.7
	weatherMax    = 1.3

	trafficNoiseLow  = 0.9
	trafficNoiseHigh = 1.1

	// conversionRate is the share of traffic that might buy a given product.
	conversionRate = 0.05

	quantityNoiseFrom = 1.0
	quantityNoiseTo   = 0.2

	seasonHigh = 1.2
	seasonLow  = 0.8
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Simulator produces DayBundles. It holds only read-only state and can be
// shared by any number of goroutines, each bringing its own Stream.
type Simulator struct {
	Catalog  *catalog.Catalog
	Index    *Index
	Holidays calendar.HolidayCalendar
}

// SimulateDay simulates every store and product for d.
func (s *Simulator) SimulateDay(d calendar.Date, rng *Stream) DayBundle {
	stores := s.Catalog.Stores()
	products := s.Catalog.Products()

	bundle := DayBundle{
		Date:      d,
		Traffic:   make(TrafficBatch, 0, len(stores)),
		Inventory: make(InventoryBatch, 0, len(stores)*len(products)),
	}

	dow := calendar.DayOfWeekFactor(d)
	isHoliday := s.Holidays.IsHoliday(d)
	holiday := calendar.HolidayFactor(isHoliday)

	for _, store := range stores {
		weather := clamp(rng.Normal(weatherMean, weatherStdDev), weatherMin, weatherMax)

		eventImpact := 1.0
		if ev, ok := s.Index.StoreEvent(store.ID, d); ok {
			eventImpact = 1.0 + ev.Impact
		}

		traffic := int(math.Round(float64(store.BaseTraffic) * dow * holiday * weather * eventImpact *
			rng.Uniform(trafficNoiseLow, trafficNoiseHigh)))
		traffic = max(traffic, 0)

		bundle.Traffic = append(bundle.Traffic, TrafficRecord{
			StoreID:         store.ID,
			Date:            d,
			CustomerTraffic: traffic,
			WeatherImpact:   weather,
			IsHoliday:       isHoliday,
		})

		baseDemand := float64(traffic) * conversionRate * store.Size.Factor()

		for _, product := range products {
			season := seasonalityFactor(product.Seasonality, d, dow, holiday)

			discount := 0.0
			promotion := 1.0
			if promo, ok := s.Index.Promotion(product.ID, d); ok {
				discount = promo.DiscountPercent
				promotion = 1.0 + discount/100.0
			}

			priceFactor := 1.0 / (1.0 + product.Price/1000.0)
			quantity := int(math.Floor(baseDemand * priceFactor * season * promotion *
				rng.Uniform(quantityNoiseFrom, quantityNoiseTo)))
			quantity = max(quantity, 0)

			if quantity > 0 {
				bundle.Sales = append(bundle.Sales, saleRecord(d, store, product, quantity, discount))
			}

			level := rng.IntRange(MinInventoryLevel, MaxInventoryLevel)
			reorder := rng.IntRange(MinReorderPoint, MaxReorderPoint)
			bundle.Inventory = append(bundle.Inventory, InventoryRecord{
				Date:           d,
				StoreID:        store.ID,
				ProductID:      product.ID,
				InventoryLevel: level,
				ReorderPoint:   reorder,
				DaysOfSupply:   float64(level) / float64(max(1, quantity)),
			})
		}
	}

	return bundle
}

func saleRecord(d calendar.Date, store catalog.Store, product catalog.Product, quantity int, discount float64) SalesRecord {
	qty := decimal.NewFromInt(int64(quantity))
	price := decimal.NewFromFloat(product.Price)
	actualPrice := price.Mul(one.Sub(decimal.NewFromFloat(discount).Div(hundred)))

	revenue := qty.Mul(actualPrice).Round(2)
	cost := qty.Mul(one.Sub(decimal.NewFromFloat(product.Margin))).Round(2)

	return SalesRecord{
		Date:            d,
		StoreID:         store.ID,
		ProductID:       product.ID,
		Category:        product.Category,
		QuantitySold:    quantity,
		UnitPrice:       product.Price,
		Revenue:         revenue.InexactFloat64(),
		Cost:            cost.InexactFloat64(),
		DiscountPercent: discount,
		Profit:          revenue.Sub(cost).InexactFloat64(),
	}
}

func seasonalityFactor(season catalog.Seasonality, d calendar.Date, dow, holiday float64) float64 {
	switch season {
	case catalog.SeasonHolidays:
		return holiday
	case catalog.SeasonBackToSchool:
		return dow
	case catalog.SeasonSummer:
		if calendar.IsSummer(d) {
			return seasonHigh
		}
		return seasonLow
	case catalog.SeasonWinter:
		if calendar.IsWinter(d) {
			return seasonHigh
		}
		return seasonLow
	default:
		return 1.0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
