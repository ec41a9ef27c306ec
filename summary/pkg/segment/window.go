package segment

import (
	"time"

	"ichor/summary/defs"

	"github.com/samber/lo"
)

// Window bounds as offsets from midnight, start inclusive and end exclusive. Readings at
// exactly 06:00:00 or from 23:59:59 on fall in neither window.
const (
	OvernightStart = 0
	OvernightEnd   = 6 * time.Hour
	DaytimeStart   = 6*time.Hour + time.Second
	DaytimeEnd     = 24*time.Hour - time.Second
)

// ByWindow splits readings into overnight and daytime readings, keeping their order.
func ByWindow(trs []defs.Reading) (overnight, daytime []defs.Reading) {
	overnight = lo.Filter(trs, func(tr defs.Reading, _ int) bool {
		return within(tr.Time, OvernightStart, OvernightEnd)
	})
	daytime = lo.Filter(trs, func(tr defs.Reading, _ int) bool {
		return within(tr.Time, DaytimeStart, DaytimeEnd)
	})
	return overnight, daytime
}

func within(t time.Time, start, end time.Duration) bool {
	offset := clock(t)
	return offset >= start && offset < end
}

func clock(t time.Time) time.Duration {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return t.Sub(midnight)
}
