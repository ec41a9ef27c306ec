package stats

import (
	"errors"
	"slices"

	"ichor/summary/defs"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
)

var ErrEmptyDateGroup = errors.New("no days to aggregate")

// DailyPercentage returns the percentage of a full day's readings matching the metric,
// averaged over the days present in trs. Every day is measured against defs.ReadingsPerDay
// regardless of how many readings it holds. Missing readings never match.
func DailyPercentage(trs []defs.Reading, m defs.Metric) (float64, error) {
	days := lo.GroupBy(trs, defs.Reading.Day)
	if len(days) == 0 {
		return 0, ErrEmptyDateGroup
	}

	keys := lo.Keys(days)
	slices.Sort(keys)

	percentages := make(stats.Float64Data, len(keys))
	for i, day := range keys {
		count := lo.CountBy(days[day], func(tr defs.Reading) bool {
			return !tr.Missing && m.Match(tr.Mgdl)
		})
		percentages[i] = float64(count) / defs.ReadingsPerDay * 100
	}

	return stats.Mean(percentages)
}

// Percentages returns DailyPercentage for every metric, in defs.Metrics order.
func Percentages(trs []defs.Reading) ([]float64, error) {
	ps := make([]float64, len(defs.Metrics))
	for i, m := range defs.Metrics {
		p, err := DailyPercentage(trs, m)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

type SummaryStatistics struct {
	Count     int
	Average   float64
	Deviation float64
}

// GlucoseSummary describes the non-missing glucose values in trs.
func GlucoseSummary(trs []defs.Reading) SummaryStatistics {
	values := make(stats.Float64Data, 0, len(trs))
	for _, tr := range trs {
		if !tr.Missing {
			values = append(values, tr.Mgdl)
		}
	}
	if len(values) == 0 {
		return SummaryStatistics{}
	}

	avg, _ := stats.Mean(values)
	dev, _ := stats.StandardDeviation(values)
	return SummaryStatistics{Count: len(values), Average: avg, Deviation: dev}
}
