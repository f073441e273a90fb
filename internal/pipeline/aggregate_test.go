package pipeline

import (
	"reflect"
	"testing"

	"snakebite-dashboard/internal/model"
)

func TestDailyCounts(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := DailyCounts(nil)
		if got == nil || len(got) != 0 {
			t.Fatalf("DailyCounts(nil) = %#v, want empty slice", got)
		}
	})

	t.Run("same date", func(t *testing.T) {
		got := DailyCounts([]string{"2019-01-05", "2019-01-05T08:00:00Z", "01/05/2019"})
		want := []model.DailyPoint{{Date: "2019-01-05", DailyCount: 3, CumulativeCount: 3}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("DailyCounts() = %+v, want %+v", got, want)
		}
	})

	t.Run("sorted with running total", func(t *testing.T) {
		got := DailyCounts([]string{"2019-01-07", "", "2019-01-05", "garbage", "2019-01-07", "2018-12-31"})
		want := []model.DailyPoint{
			{Date: "2018-12-31", DailyCount: 1, CumulativeCount: 1},
			{Date: "2019-01-05", DailyCount: 1, CumulativeCount: 2},
			{Date: "2019-01-07", DailyCount: 2, CumulativeCount: 4},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("DailyCounts() = %+v, want %+v", got, want)
		}
	})
}

func TestDailyCountsFromEvents(t *testing.T) {
	d := "2019-02-01"
	got := DailyCountsFromEvents([]model.DateEvent{{Date: &d}, {Date: nil}, {Date: &d}})
	if len(got) != 1 || got[0].DailyCount != 2 {
		t.Fatalf("DailyCountsFromEvents() = %+v", got)
	}
}

func firstQuarterRows() []model.MonthlyAggregate {
	return []model.MonthlyAggregate{
		{Year: 2019, MonthStart: "2019-01-01", MonthName: "January", MonthlyCount: 3, YTDCount: 3},
		{Year: 2019, MonthStart: "2019-02-01", MonthName: "February", MonthlyCount: 2, YTDCount: 5},
		{Year: 2019, MonthStart: "2019-03-01", MonthName: "March", MonthlyCount: 1, YTDCount: 6},
	}
}

func TestMonthlyCounts(t *testing.T) {
	got := MonthlyCounts(firstQuarterRows())
	want := []model.MonthlyPoint{
		{Date: "2019-01-01", CountValue: 3, CumulativeYTD: 3},
		{Date: "2019-02-01", CountValue: 2, CumulativeYTD: 5},
		{Date: "2019-03-01", CountValue: 1, CumulativeYTD: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MonthlyCounts() = %+v, want %+v", got, want)
	}
	if got := MonthlyCounts(nil); got == nil || len(got) != 0 {
		t.Fatalf("MonthlyCounts(nil) = %#v, want empty slice", got)
	}
}

func TestQuarterlyCounts(t *testing.T) {
	t.Run("first quarter", func(t *testing.T) {
		got := QuarterlyCounts(firstQuarterRows())
		want := []model.QuarterlyPoint{{Date: "2019-Q1", QuarterlyCount: 6, YTDCount: 6}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("QuarterlyCounts() = %+v, want %+v", got, want)
		}
	})

	t.Run("closing ytd regardless of row order", func(t *testing.T) {
		rows := firstQuarterRows()
		rows[0], rows[2] = rows[2], rows[0]
		got := QuarterlyCounts(rows)
		if len(got) != 1 || got[0].YTDCount != 6 {
			t.Fatalf("QuarterlyCounts() = %+v, want ytd 6", got)
		}
	})

	t.Run("ordered across years", func(t *testing.T) {
		rows := []model.MonthlyAggregate{
			{Year: 2020, MonthStart: "2020-01-01", MonthlyCount: 4, YTDCount: 4},
			{Year: 2019, MonthStart: "2019-11-01", MonthlyCount: 2, YTDCount: 20},
			{Year: 2019, MonthStart: "2019-04-01", MonthlyCount: 5, YTDCount: 11},
			{Year: 2019, MonthStart: "2019-12-01", MonthlyCount: 1, YTDCount: 21},
			{Year: 2019, MonthStart: "", MonthlyCount: 9, YTDCount: 9},
		}
		got := QuarterlyCounts(rows)
		want := []model.QuarterlyPoint{
			{Date: "2019-Q2", QuarterlyCount: 5, YTDCount: 11},
			{Date: "2019-Q4", QuarterlyCount: 3, YTDCount: 21},
			{Date: "2020-Q1", QuarterlyCount: 4, YTDCount: 4},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("QuarterlyCounts() = %+v, want %+v", got, want)
		}
	})

	t.Run("month start decides the quarter", func(t *testing.T) {
		rows := []model.MonthlyAggregate{
			{Year: 2020, MonthStart: "2019-12-01", MonthlyCount: 2, YTDCount: 2},
			{Year: 0, MonthStart: "2019-05-01", MonthlyCount: 3, YTDCount: 3},
			{Year: 2019, MonthStart: "not a date", MonthlyCount: 7, YTDCount: 7},
		}
		got := QuarterlyCounts(rows)
		want := []model.QuarterlyPoint{
			{Date: "2019-Q2", QuarterlyCount: 3, YTDCount: 3},
			{Date: "2020-Q4", QuarterlyCount: 2, YTDCount: 2},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("QuarterlyCounts() = %+v, want %+v", got, want)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := QuarterlyCounts(nil); got == nil || len(got) != 0 {
			t.Fatalf("QuarterlyCounts(nil) = %#v, want empty slice", got)
		}
	})
}

func TestChartSeries(t *testing.T) {
	d := "2019-01-05"
	events := []model.DateEvent{{Date: &d}}
	rows := firstQuarterRows()

	tests := []struct {
		g         model.Granularity
		wantLen   int
		wantLabel string
		wantCount int
	}{
		{model.GranularityDaily, 1, "2019-01-05", 1},
		{model.GranularityMonthly, 3, "2019-01-01", 3},
		{model.GranularityQuarterly, 1, "2019-Q1", 6},
	}
	for _, tt := range tests {
		got := ChartSeries(tt.g, events, rows)
		if len(got) != tt.wantLen {
			t.Fatalf("%s: len = %d, want %d", tt.g, len(got), tt.wantLen)
		}
		if got[0].Label() != tt.wantLabel || got[0].Count() != tt.wantCount {
			t.Errorf("%s: first = %s/%d, want %s/%d", tt.g, got[0].Label(), got[0].Count(), tt.wantLabel, tt.wantCount)
		}
	}

	if got := ChartSeries(model.GranularityDaily, nil, nil); got == nil || len(got) != 0 {
		t.Errorf("ChartSeries(empty) = %#v, want empty slice", got)
	}
}
