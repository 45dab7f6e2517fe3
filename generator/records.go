/*
records.go - Logical tables produced by a generation run

PURPOSE:
  Row types for every table the engine writes and the Batch wrappers the
  Writer receives. Reference rows (Promotion, StoreEvent) are generated once
  per run and are read-only afterwards; daily rows (Sales, Traffic,
  Inventory) live only as long as the day that produced them.

TABLES:
  promotions        one file, all promotion days in the range
  store_events      one file, closures and renovation days
  sales             one partition per day with at least one sale
  customer_traffic  one partition per day
  inventory         one partition per weekly cadence day (Sunday)
  metadata          one file, written last

UNITS:
  DiscountPercent is always in percent units (25 means 25% off), for annual
  events and flash sales alike. Money fields are dollars rounded to cents.
*/
package generator

import (
	"time"

	"github.com/warp/retail-datagen/calendar"
)

// Table names a logical output table.
type Table string

const (
	TablePromotions  Table = "promotions"
	TableStoreEvents Table = "store_events"
	TableSales       Table = "sales"
	TableTraffic     Table = "customer_traffic"
	TableInventory   Table = "inventory"
	TableMetadata    Table = "metadata"
)

// DataTables are the tables counted in GenerationMetadata.FileCount.
var DataTables = []Table{TableSales, TableInventory, TableTraffic, TablePromotions, TableStoreEvents}

// AllTables lists every manifest key, metadata last.
var AllTables = append(append([]Table{}, DataTables...), TableMetadata)

// InventoryCadenceDay is the weekday on which inventory snapshots persist.
const InventoryCadenceDay = time.Sunday

// =============================================================================
// REFERENCE ROWS
// =============================================================================

// FlashSaleType is the PromotionType of flash sale rows.
const FlashSaleType = "Flash Sale"

// Promotion discounts one product on one day.
type Promotion struct {
	ProductID       string        `json:"product_id"`
	Date            calendar.Date `json:"date"`
	DiscountPercent float64       `json:"discount_percent"`
	PromotionType   string        `json:"promotion_type"`
}

// EventType classifies a store event.
type EventType string

const (
	EventClosure    EventType = "closure"
	EventRenovation EventType = "renovation"
)

// Fixed store event impacts on demand.
const (
	ClosureImpact    = -1.0
	RenovationImpact = -0.3
)

// Impact returns the fixed impact for the event type.
func (t EventType) Impact() float64 {
	if t == EventClosure {
		return ClosureImpact
	}
	return RenovationImpact
}

// StoreEvent reduces a store's traffic on one day by Impact (a fraction).
type StoreEvent struct {
	StoreID   string        `json:"store_id"`
	Date      calendar.Date `json:"date"`
	EventType EventType     `json:"event_type"`
	Impact    float64       `json:"impact"`
}

// =============================================================================
// DAILY ROWS
// =============================================================================

// SalesRecord is one product's sales at one store on one day.
type SalesRecord struct {
	Date            calendar.Date `json:"date"`
	StoreID         string        `json:"store_id"`
	ProductID       string        `json:"product_id"`
	Category        string        `json:"category"`
	QuantitySold    int           `json:"quantity_sold"`
	UnitPrice       float64       `json:"unit_price"`
	Revenue         float64       `json:"revenue"`
	Cost            float64       `json:"cost"`
	DiscountPercent float64       `json:"discount_percent"`
	Profit          float64       `json:"profit"`
}

// TrafficRecord is a store's customer count for one day.
type TrafficRecord struct {
	StoreID         string        `json:"store_id"`
	Date            calendar.Date `json:"date"`
	CustomerTraffic int           `json:"customer_traffic"`
	WeatherImpact   float64       `json:"weather_impact"`
	IsHoliday       bool          `json:"is_holiday"`
}

// InventoryRecord is a product's stock position at a store.
type InventoryRecord struct {
	Date           calendar.Date `json:"date"`
	StoreID        string        `json:"store_id"`
	ProductID      string        `json:"product_id"`
	InventoryLevel int           `json:"inventory_level"`
	ReorderPoint   int           `json:"reorder_point"`
	DaysOfSupply   float64       `json:"days_of_supply"`
}

// Inventory and reorder bounds, inclusive.
const (
	MinInventoryLevel = 50
	MaxInventoryLevel = 200
	MinReorderPoint   = 20
	MaxReorderPoint   = 50
)

// GenerationMetadata summarizes a completed run.
type GenerationMetadata struct {
	RunID          string        `json:"run_id"`
	Seed           int64         `json:"seed"`
	GenerationDate time.Time     `json:"generation_date"`
	StartDate      calendar.Date `json:"start_date"`
	EndDate        calendar.Date `json:"end_date"`
	TotalStores    int           `json:"total_stores"`
	TotalProducts  int           `json:"total_products"`
	FileCount      map[Table]int `json:"file_count"`
	TotalFiles     int           `json:"total_files"`
}

// =============================================================================
// BATCHES - What a Writer persists
// =============================================================================

// Batch is a set of rows belonging to one table.
type Batch interface {
	Table() Table
	Len() int
}

type (
	PromotionBatch  []Promotion
	StoreEventBatch []StoreEvent
	SalesBatch      []SalesRecord
	TrafficBatch    []TrafficRecord
	InventoryBatch  []InventoryRecord
	MetadataBatch   []GenerationMetadata
)

func (PromotionBatch) Table() Table  { return TablePromotions }
func (StoreEventBatch) Table() Table { return TableStoreEvents }
func (SalesBatch) Table() Table      { return TableSales }
func (TrafficBatch) Table() Table    { return TableTraffic }
func (InventoryBatch) Table() Table  { return TableInventory }
func (MetadataBatch) Table() Table   { return TableMetadata }

func (b PromotionBatch) Len() int  { return len(b) }
func (b StoreEventBatch) Len() int { return len(b) }
func (b SalesBatch) Len() int      { return len(b) }
func (b TrafficBatch) Len() int    { return len(b) }
func (b InventoryBatch) Len() int  { return len(b) }
func (b MetadataBatch) Len() int   { return len(b) }

// DayBundle is the immutable output of simulating one day.
type DayBundle struct {
	Date      calendar.Date
	Sales     SalesBatch
	Traffic   TrafficBatch
	Inventory InventoryBatch
}

// PersistInventory reports whether the day falls on the inventory cadence.
func (b DayBundle) PersistInventory() bool {
	return b.Date.Weekday() == InventoryCadenceDay
}
