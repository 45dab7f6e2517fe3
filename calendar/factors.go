package calendar

import "time"

// Holiday demand multiplier.
const (
	HolidayMultiplier = 1.3
	RegularMultiplier = 1.0
)

// dayOfWeekFactors is indexed by time.Weekday (Sunday = 0).
var dayOfWeekFactors = [7]float64{
	time.Sunday:    1.3,
	time.Monday:    0.9,
	time.Tuesday:   0.9,
	time.Wednesday: 0.9,
	time.Thursday:  0.9,
	time.Friday:    0.9,
	time.Saturday:  1.2,
}

// DayOfWeekFactor is 0.9 on weekdays, 1.2 on Saturday and 1.3 on Sunday.
func DayOfWeekFactor(d Date) float64 {
	return dayOfWeekFactors[d.Weekday()]
}

// HolidayFactor is the traffic multiplier for a holiday flag.
func HolidayFactor(isHoliday bool) float64 {
	if isHoliday {
		return HolidayMultiplier
	}
	return RegularMultiplier
}

// IsSummer reports June through August.
func IsSummer(d Date) bool {
	m := d.Month()
	return m == time.June || m == time.July || m == time.August
}

// IsWinter reports December through February.
func IsWinter(d Date) bool {
	m := d.Month()
	return m == time.December || m == time.January || m == time.February
}
