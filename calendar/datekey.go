/*
Package calendar provides the date model for the mood calendar.

PURPOSE:
  This package contains the pure calendar math: canonical day identifiers
  (DateKey) and month-grid generation. It knows nothing about moods,
  persistence, or HTTP - it turns (year, month, day) triples into stable
  keys and month pages into ordered cell sequences.

KEY CONCEPTS IN THIS FILE (datekey.go):
  - DateKey: canonical string identifier for a calendar day, YYYY-MM-DD

DESIGN PRINCIPLES:
  1. Determinism: the same triple always yields the same DateKey
  2. Ordering: DateKeys compare lexicographically in calendar order
  3. Normalization: out-of-range months roll over through adjacent years,
     so month 0 of 2026 is December 2025 - never "2026-00"

USAGE:
  key := calendar.NewDateKey(2026, time.January, 15) // "2026-01-15"
  dec := calendar.NewDateKey(2026, 0, 31)            // "2025-12-31"

SEE ALSO:
  - grid.go: Month grid generation using DateKeys
*/
package calendar

import "time"

// =============================================================================
// DATE KEY - Canonical calendar-day identifier
// =============================================================================

// DateKey identifies a calendar day as YYYY-MM-DD with zero-padded month
// and day. Keys sort lexicographically in calendar order, so a DateKey can
// be used directly as a map key or an index column.
type DateKey string

const dateKeyLayout = "2006-01-02"

// NewDateKey derives the canonical key for a day. The month may lie outside
// [January, December]: time.Date normalizes it against the year, so month 0
// means December of the previous year and month 13 means January of the
// next. Filler cells at the edge of a grid rely on this - a trailing
// December day shown in a January page must key as {year-1}-12-DD.
func NewDateKey(year int, month time.Month, day int) DateKey {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return DateKey(t.Format(dateKeyLayout))
}

// KeyFor returns the DateKey of the day containing t, in t's location.
func KeyFor(t time.Time) DateKey {
	return NewDateKey(t.Year(), t.Month(), t.Day())
}

func (k DateKey) String() string { return string(k) }

// =============================================================================
// MONTH ARITHMETIC
// =============================================================================

// DaysIn returns the number of days in the given month. The month is
// normalized the same way as NewDateKey, so DaysIn(2026, 0) is the length
// of December 2025.
func DaysIn(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday (0=Sunday .. 6=Saturday) of day 1 of the
// given month.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}
