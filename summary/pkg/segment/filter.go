// Package segment partitions CGM readings by day, pump mode and time of day.
package segment

import (
	"ichor/summary/defs"

	"github.com/samber/lo"
)

// FilterDays drops every reading of a day holding fewer than countThreshold or more than
// defs.ReadingsPerDay readings. Readings with missing glucose still count towards their day.
func FilterDays(trs []defs.Reading, countThreshold int) []defs.Reading {
	counts := lo.CountValuesBy(trs, defs.Reading.Day)
	return lo.Filter(trs, func(tr defs.Reading, _ int) bool {
		count := counts[tr.Day()]
		return count >= countThreshold && count <= defs.ReadingsPerDay
	})
}

// DroppedDays returns the days FilterDays would drop, in chronological order.
func DroppedDays(trs []defs.Reading, countThreshold int) []string {
	counts := lo.CountValuesBy(trs, defs.Reading.Day)
	days := lo.Uniq(lo.Map(trs, func(tr defs.Reading, _ int) string { return tr.Day() }))
	return lo.Filter(days, func(day string, _ int) bool {
		return counts[day] < countThreshold || counts[day] > defs.ReadingsPerDay
	})
}
