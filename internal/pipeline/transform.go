package pipeline

import (
	"strings"

	"snakebite-dashboard/internal/model"
)

// HeaderMap maps each canonical column to the positions of its accepted
// headers in one CSV file, highest priority first.
type HeaderMap map[model.Column][]int

// ResolveHeaders matches a header row against the alias table. Header names
// are trimmed and stripped of stray quotes; unknown headers are ignored.
func ResolveHeaders(headers []string) HeaderMap {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		clean := strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
		if _, dup := index[clean]; !dup {
			index[clean] = i
		}
	}

	hm := make(HeaderMap, len(model.Columns))
	for _, col := range model.Columns {
		for _, alias := range col.Aliases() {
			if i, ok := index[alias]; ok {
				hm[col] = append(hm[col], i)
			}
		}
	}
	return hm
}

// Known reports whether at least one header resolved to a canonical column.
func (hm HeaderMap) Known() bool {
	return len(hm) > 0
}

// Cell returns the raw value for col in row: the first alias cell that is
// non-empty, or "" when none is.
func (hm HeaderMap) Cell(row []string, col model.Column) string {
	for _, i := range hm[col] {
		if i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return row[i]
		}
	}
	return ""
}

// TransformRow coerces one CSV row into a CaseRecord.
func (hm HeaderMap) TransformRow(row []string) model.CaseRecord {
	var rec model.CaseRecord
	for _, col := range model.Columns {
		rec.Set(col, CoerceField(col.Kind(), hm.Cell(row, col)))
	}
	return rec
}

// TransformMap coerces an already keyed row, as produced by JSON clients.
// Keys are matched against both the CSV aliases and the payload keys.
func TransformMap(row map[string]any) model.CaseRecord {
	var rec model.CaseRecord
	for _, col := range model.Columns {
		var raw any
		for _, key := range append(col.Aliases(), col.JSONKey()) {
			if v, ok := row[key]; ok && !isBlank(v) {
				raw = v
				break
			}
		}
		rec.Set(col, CoerceField(col.Kind(), raw))
	}
	return rec
}

func isBlank(v any) bool {
	s, present := rawString(v)
	return !present || strings.TrimSpace(s) == ""
}
