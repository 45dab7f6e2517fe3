package generator

import (
	"github.com/warp/retail-datagen/calendar"
	"github.com/warp/retail-datagen/catalog"
)

// Store event parameters, inclusive bounds.
const (
	minClosures = 2
	maxClosures = 5

	renovationChance   = 0.3
	renovationMinDelay = 100
	renovationMaxDelay = 600
	renovationMinDays  = 7
	renovationMaxDays  = 30
)

// GenerateStoreEvents builds the store events table for r in one pass,
// store by store in catalog order.
//
// Each store gets 2-5 single-day closures placed at the centres of equal
// segments of the range. With probability 0.3 a renovation window of 7-30
// days opens 100-600 days after the store's last closure; only its days
// inside r are emitted.
func GenerateStoreEvents(cat *catalog.Catalog, r calendar.Range, rng *Stream) []StoreEvent {
	if !r.Valid() {
		return nil
	}

	var events []StoreEvent
	for _, store := range cat.Stores() {
		n := rng.IntRange(minClosures, maxClosures)
		closures := spreadCentered(r, n)
		for _, day := range closures {
			events = append(events, StoreEvent{
				StoreID:   store.ID,
				Date:      day,
				EventType: EventClosure,
				Impact:    EventClosure.Impact(),
			})
		}

		if !rng.Chance(renovationChance) {
			continue
		}
		start := closures[len(closures)-1].AddDays(rng.IntRange(renovationMinDelay, renovationMaxDelay))
		duration := rng.IntRange(renovationMinDays, renovationMaxDays)
		for d := 0; d < duration; d++ {
			day := start.AddDays(d)
			if day.After(r.End) {
				break
			}
			events = append(events, StoreEvent{
				StoreID:   store.ID,
				Date:      day,
				EventType: EventRenovation,
				Impact:    EventRenovation.Impact(),
			})
		}
	}
	return events
}

// spreadCentered places n dates at the middle of n equal segments of r.
// On ranges shorter than n days some dates repeat.
func spreadCentered(r calendar.Range, n int) []calendar.Date {
	days := r.Days()
	dates := make([]calendar.Date, n)
	for i := range dates {
		dates[i] = r.Start.AddDays((2*i + 1) * days / (2 * n))
	}
	return dates
}
