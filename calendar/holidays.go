package calendar

import (
	"sync"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar answers holiday membership for a day.
// Implementations must be safe for concurrent use.
type HolidayCalendar interface {
	IsHoliday(d Date) bool
}

// NoHolidays is a calendar without any holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(Date) bool { return false }

// USHolidays is the US federal holiday calendar. Both the actual date and
// the observed weekday of a holiday count as holidays.
//
// Membership for the years given at construction is precomputed into a set;
// other years are resolved on demand and memoized.
type USHolidays struct {
	mu   sync.RWMutex
	days map[int64]bool
	cal  *cal.BusinessCalendar
}

// NewUSHolidays builds the calendar and precomputes every year touched by r.
func NewUSHolidays(r Range) *USHolidays {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)

	h := &USHolidays{
		days: make(map[int64]bool),
		cal:  c,
	}
	if r.Valid() {
		for year := r.Start.Year(); year <= r.End.Year(); year++ {
			h.precomputeYear(year)
		}
	}
	return h
}

func (h *USHolidays) precomputeYear(year int) {
	// Dec 31 of the previous year can be the observed New Year's Day, so
	// the scan covers the whole year.
	for d := NewDate(year, time.January, 1); d.Year() == year; d = d.AddDays(1) {
		actual, observed, _ := h.cal.IsHoliday(d.Time())
		h.days[d.Ordinal()] = actual || observed
	}
}

// IsHoliday reports whether d is a US holiday (actual or observed).
func (h *USHolidays) IsHoliday(d Date) bool {
	h.mu.RLock()
	holiday, ok := h.days[d.Ordinal()]
	h.mu.RUnlock()
	if ok {
		return holiday
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.days[d.Ordinal()]; !ok {
		h.precomputeYear(d.Year())
	}
	return h.days[d.Ordinal()]
}
