/*
Package calendar provides the date arithmetic and calendar-driven demand
factors used by the simulator.

PURPOSE:
  Every generated record is keyed by a day. Date is a UTC-midnight wrapper
  that makes day arithmetic and comparison unambiguous, and Range is the
  inclusive window a run covers.

KEY CONCEPTS:
  - Date: a calendar day (no time-of-day, always UTC)
  - Range: inclusive [Start, End] window
  - DayOfWeekFactor / HolidayFactor: pure demand multipliers (factors.go)
  - HolidayCalendar: holiday membership (holidays.go)

SEE ALSO:
  - generator/simulator.go: consumes the factors per store and product
  - generator/promotions.go: uses NthWeekday / LastDayOfMonth for anchors
*/
package calendar

import (
	"fmt"
	"time"
)

// Layout is the canonical textual form of a Date.
const Layout = "2006-01-02"

// =============================================================================
// DATE - A calendar day
// =============================================================================

// Date is a single calendar day at UTC midnight.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its components. Out-of-range components are
// normalized the way time.Date does (Jan 32 becomes Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar day in t's own location.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParseDate is ParseDate for literals in tests and presets.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool { return !d.t.Before(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) Time() time.Time { return d.t }
func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) String() string { return d.t.Format(Layout) }

// Ordinal is the number of days since 1970-01-01. It is a stable integer key
// for a day, used to derive per-day random streams.
func (d Date) Ordinal() int64 {
	return d.t.Unix() / 86400
}

// DaysBetween returns the signed number of days from a to b.
func DaysBetween(a, b Date) int {
	return int(b.Ordinal() - a.Ordinal())
}

// MarshalText renders the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a YYYY-MM-DD date.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// RANGE - Inclusive window of days
// =============================================================================

// Range is the inclusive window [Start, End].
type Range struct {
	Start Date
	End   Date
}

// Valid reports whether Start does not come after End.
func (r Range) Valid() bool {
	return r.Start.BeforeOrEqual(r.End)
}

// Contains returns true if d is within [Start, End].
func (r Range) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Days returns the inclusive number of days in the range, 0 if invalid.
func (r Range) Days() int {
	if !r.Valid() {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// Dates returns every day of the range in order.
func (r Range) Dates() []Date {
	dates := make([]Date, 0, r.Days())
	for current := r.Start; current.BeforeOrEqual(r.End); current = current.AddDays(1) {
		dates = append(dates, current)
	}
	return dates
}

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// =============================================================================
// MONTH UTILITIES
// =============================================================================

// LastDayOfMonth returns the final day of month in year.
func LastDayOfMonth(year int, month time.Month) Date {
	return NewDate(year, month+1, 1).AddDays(-1)
}

// FirstDayOfMonth returns day 1 of month in year.
func FirstDayOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, 1)
}

// NthWeekday returns the nth (1-based) occurrence of weekday in month.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) Date {
	first := FirstDayOfMonth(year, month)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDays(offset + 7*(n-1))
}
