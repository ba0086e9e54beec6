package market

import (
	"time"
	_ "time/tzdata"
)

// NewYork is the exchange time zone. The embedded tz database keeps it available
// on hosts without zoneinfo.
var NewYork = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// SessionStart returns the most recent New York wall-clock time at offset past
// midnight that is not after now. An offset of 4h gives the 04:00 ET pre-market open.
func SessionStart(now time.Time, offset time.Duration) time.Time {
	ny := now.In(NewYork)
	y, m, d := ny.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, NewYork).Add(offset)
	if start.After(now) {
		start = time.Date(y, m, d-1, 0, 0, 0, 0, NewYork).Add(offset)
	}
	return start
}
