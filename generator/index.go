package generator

import "github.com/warp/retail-datagen/calendar"

type productDay struct {
	productID string
	day       int64
}

type storeDay struct {
	storeID string
	day     int64
}

// Index gives O(1) lookup into the reference tables. It is built once after
// generation and only read afterwards, so it is safe to share between
// workers. When several rows share a key the first generated row wins.
type Index struct {
	promotions map[productDay]Promotion
	events     map[storeDay]StoreEvent
}

// NewIndex indexes promotions by (product, date) and events by (store, date).
func NewIndex(promotions []Promotion, events []StoreEvent) *Index {
	idx := &Index{
		promotions: make(map[productDay]Promotion, len(promotions)),
		events:     make(map[storeDay]StoreEvent, len(events)),
	}
	for _, p := range promotions {
		k := productDay{productID: p.ProductID, day: p.Date.Ordinal()}
		if _, ok := idx.promotions[k]; !ok {
			idx.promotions[k] = p
		}
	}
	for _, e := range events {
		k := storeDay{storeID: e.StoreID, day: e.Date.Ordinal()}
		if _, ok := idx.events[k]; !ok {
			idx.events[k] = e
		}
	}
	return idx
}

// Promotion returns the promotion for product on d, if any.
func (idx *Index) Promotion(productID string, d calendar.Date) (Promotion, bool) {
	p, ok := idx.promotions[productDay{productID: productID, day: d.Ordinal()}]
	return p, ok
}

// StoreEvent returns the event for store on d, if any.
func (idx *Index) StoreEvent(storeID string, d calendar.Date) (StoreEvent, bool) {
	e, ok := idx.events[storeDay{storeID: storeID, day: d.Ordinal()}]
	return e, ok
}
