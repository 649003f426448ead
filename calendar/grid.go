/*
grid.go - Month grid generation

PURPOSE:
  Produces the ordered sequence of day cells a month page renders: leading
  filler cells from the tail of the previous month (for weekday alignment),
  then every day of the reference month. Row-major, left-to-right,
  top-to-bottom: the slice order IS the display order.

GRID SHAPE:
  A month whose day 1 falls on weekday W gets exactly W filler cells, then
  daysInMonth current cells. No trailing filler is emitted; grid length
  varies by month (e.g. April 2026: 3 filler + 30 = 33 cells).

FILLER KEYING:
  Filler cells belong to the previous calendar month and are keyed there.
  Across a year boundary this means January's filler cells carry
  {year-1}-12-DD keys; the rollover comes for free from DateKey
  normalization.

SEE ALSO:
  - datekey.go: DateKey derivation and month arithmetic
*/
package calendar

import "time"

// =============================================================================
// CELLS
// =============================================================================

// Cell is one day slot of a rendered month page. Cells are ephemeral: the
// grid is regenerated on every navigation, never persisted.
type Cell struct {
	// Day is the day-of-month number shown in the cell (in the cell's own
	// month - a filler cell for Dec 30 has Day 30).
	Day int

	// Key is the canonical DateKey of the day the cell represents.
	Key DateKey

	// OtherMonth marks leading filler cells from the previous month.
	OtherMonth bool

	// Today marks the single cell matching the reference "now", if the
	// page being rendered is the current month.
	Today bool
}

// =============================================================================
// GRID GENERATION
// =============================================================================

// Grid returns the cells of the month page for (year, month), in display
// order. today determines which current-month cell (if any) is flagged
// Today; pass time.Now() for live rendering or a fixed instant in tests.
// Grid never consults mood state - callers decorate cells as needed.
func Grid(year int, month time.Month, today time.Time) []Cell {
	firstWeekday := FirstWeekday(year, month)
	daysInMonth := DaysIn(year, month)
	daysInPrev := DaysIn(year, month-1)

	todayKey := KeyFor(today)
	cells := make([]Cell, 0, firstWeekday+daysInMonth)

	// Leading filler: the last firstWeekday days of the previous month,
	// ascending, keyed in the previous month/year.
	for day := daysInPrev - firstWeekday + 1; day <= daysInPrev; day++ {
		cells = append(cells, Cell{
			Day:        day,
			Key:        NewDateKey(year, month-1, day),
			OtherMonth: true,
		})
	}

	for day := 1; day <= daysInMonth; day++ {
		key := NewDateKey(year, month, day)
		cells = append(cells, Cell{
			Day:   day,
			Key:   key,
			Today: key == todayKey,
		})
	}

	return cells
}

// Label formats the month/year heading for a page, e.g. "January 2026".
func Label(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
