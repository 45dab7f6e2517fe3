package parquet

import (
	"fmt"
	"time"

	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/generator"
)

// =============================================================================
// ROW SCHEMAS - One flat struct per table, dates as YYYY-MM-DD strings
// =============================================================================

type promotionRow struct {
	ProductID       string  `parquet:"product_id"`
	Date            string  `parquet:"date"`
	DiscountPercent float64 `parquet:"discount_percent"`
	PromotionType   string  `parquet:"promotion_type"`
}

type storeEventRow struct {
	StoreID   string  `parquet:"store_id"`
	Date      string  `parquet:"date"`
	EventType string  `parquet:"event_type"`
	Impact    float64 `parquet:"impact"`
}

type salesRow struct {
	Date            string  `parquet:"date"`
	StoreID         string  `parquet:"store_id"`
	ProductID       string  `parquet:"product_id"`
	Category        string  `parquet:"category"`
	QuantitySold    int64   `parquet:"quantity_sold"`
	UnitPrice       float64 `parquet:"unit_price"`
	Revenue         float64 `parquet:"revenue"`
	Cost            float64 `parquet:"cost"`
	DiscountPercent float64 `parquet:"discount_percent"`
	Profit          float64 `parquet:"profit"`
}

type trafficRow struct {
	StoreID         string  `parquet:"store_id"`
	Date            string  `parquet:"date"`
	CustomerTraffic int64   `parquet:"customer_traffic"`
	WeatherImpact   float64 `parquet:"weather_impact"`
	IsHoliday       bool    `parquet:"is_holiday"`
}

type inventoryRow struct {
	Date           string  `parquet:"date"`
	StoreID        string  `parquet:"store_id"`
	ProductID      string  `parquet:"product_id"`
	InventoryLevel int64   `parquet:"inventory_level"`
	ReorderPoint   int64   `parquet:"reorder_point"`
	DaysOfSupply   float64 `parquet:"days_of_supply"`
}

// metadataRow flattens the per-table file counts into columns.
type metadataRow struct {
	RunID                string `parquet:"run_id"`
	Seed                 int64  `parquet:"seed"`
	GenerationDate       string `parquet:"generation_date"`
	StartDate            string `parquet:"start_date"`
	EndDate              string `parquet:"end_date"`
	TotalStores          int64  `parquet:"total_stores"`
	TotalProducts        int64  `parquet:"total_products"`
	SalesFiles           int64  `parquet:"sales_files"`
	InventoryFiles       int64  `parquet:"inventory_files"`
	CustomerTrafficFiles int64  `parquet:"customer_traffic_files"`
	PromotionsFiles      int64  `parquet:"promotions_files"`
	StoreEventsFiles     int64  `parquet:"store_events_files"`
	TotalFiles           int64  `parquet:"total_files"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func promotionRows(b generator.PromotionBatch) []promotionRow {
	rows := make([]promotionRow, len(b))
	for i, p := range b {
		rows[i] = promotionRow{
			ProductID:       p.ProductID,
			Date:            p.Date.String(),
			DiscountPercent: p.DiscountPercent,
			PromotionType:   p.PromotionType,
		}
	}
	return rows
}

func storeEventRows(b generator.StoreEventBatch) []storeEventRow {
	rows := make([]storeEventRow, len(b))
	for i, e := range b {
		rows[i] = storeEventRow{
			StoreID:   e.StoreID,
			Date:      e.Date.String(),
			EventType: string(e.EventType),
			Impact:    e.Impact,
		}
	}
	return rows
}

func salesRows(b generator.SalesBatch) []salesRow {
	rows := make([]salesRow, len(b))
	for i, s := range b {
		rows[i] = salesRow{
			Date:            s.Date.String(),
			StoreID:         s.StoreID,
			ProductID:       s.ProductID,
			Category:        s.Category,
			QuantitySold:    int64(s.QuantitySold),
			UnitPrice:       s.UnitPrice,
			Revenue:         s.Revenue,
			Cost:            s.Cost,
			DiscountPercent: s.DiscountPercent,
			Profit:          s.Profit,
		}
	}
	return rows
}

func trafficRows(b generator.TrafficBatch) []trafficRow {
	rows := make([]trafficRow, len(b))
	for i, t := range b {
		rows[i] = trafficRow{
			StoreID:         t.StoreID,
			Date:            t.Date.String(),
			CustomerTraffic: int64(t.CustomerTraffic),
			WeatherImpact:   t.WeatherImpact,
			IsHoliday:       t.IsHoliday,
		}
	}
	return rows
}

func inventoryRows(b generator.InventoryBatch) []inventoryRow {
	rows := make([]inventoryRow, len(b))
	for i, inv := range b {
		rows[i] = inventoryRow{
			Date:           inv.Date.String(),
			StoreID:        inv.StoreID,
			ProductID:      inv.ProductID,
			InventoryLevel: int64(inv.InventoryLevel),
			ReorderPoint:   int64(inv.ReorderPoint),
			DaysOfSupply:   inv.DaysOfSupply,
		}
	}
	return rows
}

func metadataRows(b generator.MetadataBatch) []metadataRow {
	rows := make([]metadataRow, len(b))
	for i, m := range b {
		rows[i] = metadataRow{
			RunID:                m.RunID,
			Seed:                 m.Seed,
			GenerationDate:       m.GenerationDate.UTC().Format(time.RFC3339),
			StartDate:            m.StartDate.String(),
			EndDate:              m.EndDate.String(),
			TotalStores:          int64(m.TotalStores),
			TotalProducts:        int64(m.TotalProducts),
			SalesFiles:           int64(m.FileCount[generator.TableSales]),
			InventoryFiles:       int64(m.FileCount[generator.TableInventory]),
			CustomerTrafficFiles: int64(m.FileCount[generator.TableTraffic]),
			PromotionsFiles:      int64(m.FileCount[generator.TablePromotions]),
			StoreEventsFiles:     int64(m.FileCount[generator.TableStoreEvents]),
			TotalFiles:           int64(m.TotalFiles),
		}
	}
	return rows
}

// =============================================================================
// READ BACK - Used by tests and tooling that inspects a generated tree
// =============================================================================

// ReadTraffic loads a customer_traffic partition file.
func ReadTraffic(path string) ([]generator.TrafficRecord, error) {
	rows, err := readFile[trafficRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]generator.TrafficRecord, len(rows))
	for i, r := range rows {
		d, err := calendar.ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		out[i] = generator.TrafficRecord{
			StoreID:         r.StoreID,
			Date:            d,
			CustomerTraffic: int(r.CustomerTraffic),
			WeatherImpact:   r.WeatherImpact,
			IsHoliday:       r.IsHoliday,
		}
	}
	return out, nil
}

// ReadSales loads a sales partition file.
func ReadSales(path string) ([]generator.SalesRecord, error) {
	rows, err := readFile[salesRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]generator.SalesRecord, len(rows))
	for i, r := range rows {
		d, err := calendar.ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		out[i] = generator.SalesRecord{
			Date:            d,
			StoreID:         r.StoreID,
			ProductID:       r.ProductID,
			Category:        r.Category,
			QuantitySold:    int(r.QuantitySold),
			UnitPrice:       r.UnitPrice,
			Revenue:         r.Revenue,
			Cost:            r.Cost,
			DiscountPercent: r.DiscountPercent,
			Profit:          r.Profit,
		}
	}
	return out, nil
}

// ReadMetadata loads the generation metadata file.
func ReadMetadata(path string) (generator.GenerationMetadata, error) {
	rows, err := readFile[metadataRow](path)
	if err != nil {
		return generator.GenerationMetadata{}, err
	}
	if len(rows) != 1 {
		return generator.GenerationMetadata{}, fmt.Errorf("read %s: expected 1 metadata row, got %d", path, len(rows))
	}
	r := rows[0]

	meta := generator.GenerationMetadata{
		RunID:         r.RunID,
		Seed:          r.Seed,
		TotalStores:   int(r.TotalStores),
		TotalProducts: int(r.TotalProducts),
		TotalFiles:    int(r.TotalFiles),
		FileCount: map[generator.Table]int{
			generator.TableSales:       int(r.SalesFiles),
			generator.TableInventory:   int(r.InventoryFiles),
			generator.TableTraffic:     int(r.CustomerTrafficFiles),
			generator.TablePromotions:  int(r.PromotionsFiles),
			generator.TableStoreEvents: int(r.StoreEventsFiles),
		},
	}
	if meta.GenerationDate, err = time.Parse(time.RFC3339, r.GenerationDate); err != nil {
		return generator.GenerationMetadata{}, fmt.Errorf("read %s: generation_date: %w", path, err)
	}
	if meta.StartDate, err = calendar.ParseDate(r.StartDate); err != nil {
		return generator.GenerationMetadata{}, fmt.Errorf("read %s: start_date: %w", path, err)
	}
	if meta.EndDate, err = calendar.ParseDate(r.EndDate); err != nil {
		return generator.GenerationMetadata{}, fmt.Errorf("read %s: end_date: %w", path, err)
	}
	return meta, nil
}
