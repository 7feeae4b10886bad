package format

import (
	"time"
)

// CreationDate converts the header's day-of-year and year to a UTC date.
// Day 1 is January 1st. ok is false when either field is zero or the day
// does not exist in that year.
func CreationDate(day, year uint16) (t time.Time, ok bool) {
	if day == 0 || year == 0 {
		return time.Time{}, false
	}
	t = time.Date(int(year), time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(day)-1)
	if t.Year() != int(year) {
		return time.Time{}, false
	}
	return t, true
}

// CreationFields returns the day-of-year and year stored for t.
func CreationFields(t time.Time) (day, year uint16) {
	t = t.UTC()
	return uint16(t.YearDay()), uint16(t.Year())
}
