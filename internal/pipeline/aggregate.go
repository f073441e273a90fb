package pipeline

import (
	"fmt"
	"sort"
	"time"

	"snakebite-dashboard/internal/model"
)

// DailyCounts groups case dates by calendar day, ascending, with a running
// cumulative total. Missing or unparseable dates are skipped.
func DailyCounts(dates []string) []model.DailyPoint {
	counts := make(map[string]int)
	for _, raw := range dates {
		t, ok := NormalizeDate(raw)
		if !ok {
			continue
		}
		counts[FormatDate(t)]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]model.DailyPoint, 0, len(keys))
	cumulative := 0
	for _, k := range keys {
		cumulative += counts[k]
		points = append(points, model.DailyPoint{
			Date:            k,
			DailyCount:      counts[k],
			CumulativeCount: cumulative,
		})
	}
	return points
}

// DailyCountsFromEvents is DailyCounts over dated events as read from storage.
func DailyCountsFromEvents(events []model.DateEvent) []model.DailyPoint {
	dates := make([]string, 0, len(events))
	for _, e := range events {
		if e.Date != nil {
			dates = append(dates, *e.Date)
		}
	}
	return DailyCounts(dates)
}

// MonthlyCounts maps storage-side monthly aggregates to chart points
// without recomputing anything.
func MonthlyCounts(rows []model.MonthlyAggregate) []model.MonthlyPoint {
	points := make([]model.MonthlyPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, model.MonthlyPoint{
			Date:          r.MonthStart,
			CountValue:    r.MonthlyCount,
			CumulativeYTD: r.YTDCount,
		})
	}
	return points
}

type quarterKey struct {
	year    int
	quarter int
}

type quarterBucket struct {
	count     int
	ytd       int
	lastMonth time.Month
}

// QuarterlyCounts sums monthly counts per (year, quarter). The YTD of a
// quarter is the YTD of its latest month. Rows whose month cannot be
// determined are ignored. Output is ascending by year then quarter.
func QuarterlyCounts(rows []model.MonthlyAggregate) []model.QuarterlyPoint {
	buckets := make(map[quarterKey]*quarterBucket)
	for _, r := range rows {
		year, month, ok := monthOf(r)
		if !ok {
			continue
		}
		key := quarterKey{year: year, quarter: (int(month)-1)/3 + 1}
		b, exists := buckets[key]
		if !exists {
			b = &quarterBucket{}
			buckets[key] = b
		}
		b.count += r.MonthlyCount
		if !exists || month >= b.lastMonth {
			b.lastMonth = month
			b.ytd = r.YTDCount
		}
	}

	keys := make([]quarterKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].quarter < keys[j].quarter
	})

	points := make([]model.QuarterlyPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		points = append(points, model.QuarterlyPoint{
			Date:           fmt.Sprintf("%d-Q%d", k.year, k.quarter),
			QuarterlyCount: b.count,
			YTDCount:       b.ytd,
		})
	}
	return points
}

// monthOf resolves the calendar month of an aggregate row from its month
// start. A non-zero Year column overrides the year of that date. Rows
// without a parseable month start are reported as unresolved.
func monthOf(r model.MonthlyAggregate) (int, time.Month, bool) {
	t, ok := NormalizeDate(r.MonthStart)
	if !ok {
		return 0, 0, false
	}
	year := t.Year()
	if r.Year != 0 {
		year = r.Year
	}
	return year, t.Month(), true
}

// ChartSeries shapes rows for the requested granularity. Daily points are
// computed from events; monthly and quarterly ones from aggregates.
func ChartSeries(g model.Granularity, events []model.DateEvent, rows []model.MonthlyAggregate) []model.ChartPoint {
	var out []model.ChartPoint
	switch g {
	case model.GranularityDaily:
		for _, p := range DailyCountsFromEvents(events) {
			out = append(out, p)
		}
	case model.GranularityQuarterly:
		for _, p := range QuarterlyCounts(rows) {
			out = append(out, p)
		}
	default:
		for _, p := range MonthlyCounts(rows) {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []model.ChartPoint{}
	}
	return out
}
