package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. Month-first wins over day-first when a
// slash date is ambiguous ("05/03/2019" is May 3rd).
var dateLayouts = []string{
	"2006-1-2",   // yyyy-MM-dd
	"1/2/2006",   // MM/dd/yyyy
	"2-1-2006",   // dd-MM-yyyy
	"2006/1/2",   // yyyy/MM/dd
	"2/1/2006",   // dd/MM/yyyy
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

const isoDate = "2006-01-02"

// NormalizeDate turns a loosely typed date into a UTC calendar date.
// The boolean is false when raw is absent or not a valid date; callers
// treat that as an unknown date, never as an error.
func NormalizeDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return dateOnlyUTC(v), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return NormalizeDate(*v)
	case *string:
		if v == nil {
			return time.Time{}, false
		}
		return parseDateString(*v)
	case []byte:
		return parseDateString(string(v))
	case string:
		return parseDateString(v)
	case fmt.Stringer:
		return parseDateString(v.String())
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnlyUTC(t), true
		}
	}
	return time.Time{}, false
}

// dateOnlyUTC keeps the calendar date as written, dropping the clock.
func dateOnlyUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(isoDate)
}

// CanonicalDate normalizes raw and renders it, or returns nil.
func CanonicalDate(raw any) *string {
	t, ok := NormalizeDate(raw)
	if !ok {
		return nil
	}
	s := FormatDate(t)
	return &s
}

// FormatDateForDisplay renders raw as M/D/YYYY for table output.
func FormatDateForDisplay(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "N/A"
	case string:
		if v == "" {
			return "N/A"
		}
	case *string:
		if v == nil || *v == "" {
			return "N/A"
		}
	}
	t, ok := NormalizeDate(raw)
	if !ok {
		return "Invalid Date"
	}
	return t.Format("1/2/2006")
}
