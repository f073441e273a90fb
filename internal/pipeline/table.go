package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"snakebite-dashboard/internal/model"
	"snakebite-dashboard/pkg/utils"
)

// ErrUnknownSortKey is returned when a sort key names no column.
var ErrUnknownSortKey = errors.New("unknown sort key")

// foldText lowercases s and strips diacritics so "Vípera" matches "vipera".
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// FilterCases keeps the records where any column's displayed value contains
// q, ignoring case and accents. Dates also match in M/D/YYYY form.
func FilterCases(records []model.CaseRecord, q string) []model.CaseRecord {
	needle := foldText(strings.TrimSpace(q))
	if needle == "" {
		return records
	}
	out := make([]model.CaseRecord, 0, len(records))
	for _, rec := range records {
		if matchRecord(rec, needle) {
			out = append(out, rec)
		}
	}
	return out
}

func matchRecord(rec model.CaseRecord, needle string) bool {
	for _, col := range model.Columns {
		v := rec.Get(col)
		if v == nil {
			continue
		}
		var hay string
		switch x := v.(type) {
		case string:
			hay = x
		case int:
			hay = fmt.Sprint(x)
		case float64:
			hay = utils.FormatNumber(x)
		}
		if col == model.ColArrivalDate {
			hay += " " + FormatDateForDisplay(v)
		}
		if strings.Contains(foldText(hay), needle) {
			return true
		}
	}
	return false
}

// SortCases orders records in place by the column with payload key key.
// Null values sort last in both directions; ties keep input order.
func SortCases(records []model.CaseRecord, key string, desc bool) error {
	col, ok := model.ColumnByJSONKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Get(col), records[j].Get(col)
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		}
		c := compareValues(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case int:
		if y, ok := b.(int); ok {
			return x - y
		}
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(foldText(x), foldText(y))
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
