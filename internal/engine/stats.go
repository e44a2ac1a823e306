package engine

import (
	"fmt"

	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

// BuildTimeSeries computes one StatsPoint per day over the inclusive
// range [start, end], ascending. For each day the denominator is the
// number of habits scheduled that day (created on or before it, and not
// yet archived), the numerator the subset with at least one completion.
// Read-only: safe to call concurrently and with overlapping ranges.
func BuildTimeSeries(habits []*entity.Habit, start, end date.Local) ([]entity.StatsPoint, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, errorvalues.ErrInvalidDate
	}
	points := make([]entity.StatsPoint, 0, 32)
	for day := start; !day.After(end); day = day.Next() {
		scheduled, completed := 0, 0
		for _, h := range habits {
			if h == nil || h.ArchivedAsOf(day) {
				continue
			}
			if !IsScheduled(h.Recurrence, h.CreatedAt, day) {
				continue
			}
			scheduled++
			if h.Ledger.CompletedOn(day) {
				completed++
			}
		}
		rate := 0.0
		if scheduled > 0 {
			rate = float64(completed) / float64(scheduled)
		}
		points = append(points, entity.StatsPoint{
			Date:           day,
			ScheduledCount: scheduled,
			CompletedCount: completed,
			CompletionRate: rate,
		})
	}
	return points, nil
}

// GroupByISOWeek partitions a daily series into ISO 8601 week buckets
// keyed like "2024-W03".
func GroupByISOWeek(points []entity.StatsPoint) []entity.StatsBucket {
	return groupBy(points, func(d date.Local) string {
		year, week := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	})
}

// GroupByMonth partitions a daily series into calendar-month buckets
// keyed like "2024-01".
func GroupByMonth(points []entity.StatsPoint) []entity.StatsBucket {
	return groupBy(points, func(d date.Local) string {
		return d.Time().Format("2006-01")
	})
}

// groupBy averages CompletionRate per bucket as an unweighted mean of the
// daily rates. The mean is intentionally not re-derived from the raw
// scheduled/completed counts; the per-day rates are the contract.
func groupBy(points []entity.StatsPoint, keyFn func(date.Local) string) []entity.StatsBucket {
	buckets := make([]entity.StatsBucket, 0, 8)
	index := make(map[string]int, 8)
	sums := make(map[string]float64, 8)
	for _, p := range points {
		key := keyFn(p.Date)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, entity.StatsBucket{Key: key})
		}
		sums[key] += p.CompletionRate
		buckets[i].Days++
	}
	for i := range buckets {
		buckets[i].CompletionRate = sums[buckets[i].Key] / float64(buckets[i].Days)
	}
	return buckets
}
