package attention

import (
	"time"
)

// Shared test fixtures. All scheduled on the same arbitrary weekday so the
// peak-hours math is stable.
var testDay = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

// at builds an item starting at the given clock time on the test day.
func at(id string, typ Type, clock string, durationMin int) Item {
	h, m, _ := parseClockParts(clock)
	return Item{
		ID:       id,
		Start:    time.Date(2026, time.March, 10, h, m, 0, 0, time.UTC),
		Duration: durationMin,
		Type:     typ,
		Title:    id,
		UserID:   "u1",
	}
}

func parseClockParts(clock string) (h, m int, ok bool) {
	total, ok := parseClock(clock)
	return total / 60, total % 60, ok
}
