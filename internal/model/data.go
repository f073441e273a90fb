package model

// MonthlyAggregate is one calendar month as produced by the storage-side
// aggregation (stored procedure or window query)
type MonthlyAggregate struct {
	Year         int    `json:"year" db:"year"`
	MonthStart   string `json:"month_start" db:"month_start"` // YYYY-MM-01
	MonthName    string `json:"month_name" db:"month_name"`
	MonthlyCount int    `json:"monthly_count" db:"monthly_count"`
	YTDCount     int    `json:"ytd_count" db:"ytd_count"`
}

// Granularity selects a chart point shape
type Granularity string

const (
	GranularityDaily     Granularity = "date"
	GranularityMonthly   Granularity = "month"
	GranularityQuarterly Granularity = "quarter"
)

// ParseGranularity accepts the chart group names and a few synonyms.
func ParseGranularity(s string) (Granularity, bool) {
	switch s {
	case "date", "day", "daily":
		return GranularityDaily, true
	case "month", "monthly", "":
		return GranularityMonthly, true
	case "quarter", "quarterly":
		return GranularityQuarterly, true
	}
	return "", false
}

// ChartPoint is implemented by the three point shapes.
type ChartPoint interface {
	Label() string
	Count() int
	Cumulative() int
}

// DailyPoint counts cases on one calendar date
type DailyPoint struct {
	Date            string `json:"date"`
	DailyCount      int    `json:"daily_count"`
	CumulativeCount int    `json:"cumulative_count"`
}

func (p DailyPoint) Label() string   { return p.Date }
func (p DailyPoint) Count() int      { return p.DailyCount }
func (p DailyPoint) Cumulative() int { return p.CumulativeCount }

// MonthlyPoint mirrors one MonthlyAggregate
type MonthlyPoint struct {
	Date          string `json:"date"`
	CountValue    int    `json:"count"`
	CumulativeYTD int    `json:"cumulative"`
}

func (p MonthlyPoint) Label() string   { return p.Date }
func (p MonthlyPoint) Count() int      { return p.CountValue }
func (p MonthlyPoint) Cumulative() int { return p.CumulativeYTD }

// QuarterlyPoint sums the months of one quarter; Date is "YYYY-Qn"
type QuarterlyPoint struct {
	Date           string `json:"date"`
	QuarterlyCount int    `json:"quarterly_count"`
	YTDCount       int    `json:"ytd_count"`
}

func (p QuarterlyPoint) Label() string   { return p.Date }
func (p QuarterlyPoint) Count() int      { return p.QuarterlyCount }
func (p QuarterlyPoint) Cumulative() int { return p.YTDCount }
