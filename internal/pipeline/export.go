package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"snakebite-dashboard/internal/model"
	"snakebite-dashboard/pkg/utils"
)

// Field is one key/value cell of an exported row.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered set of fields.
type Row []Field

// CaseRow renders rec with its payload keys, in column order.
func CaseRow(rec model.CaseRecord) Row {
	row := make(Row, 0, len(model.Columns))
	for _, col := range model.Columns {
		row = append(row, Field{Key: col.JSONKey(), Value: rec.Get(col)})
	}
	return row
}

// WriteCSV exports case records with a header of payload keys. An empty
// export still carries the full header so it re-imports cleanly.
func WriteCSV(w io.Writer, records []model.CaseRecord) error {
	if len(records) == 0 {
		header := make([]string, 0, len(model.Columns))
		for _, col := range model.Columns {
			header = append(header, col.JSONKey())
		}
		return writeTable(w, header, nil)
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, CaseRow(rec))
	}
	return WriteRows(w, rows)
}

// WriteRows writes rows as CSV. The header is the union of keys across
// rows in first-seen order; a row missing a key gets an empty cell.
// Strings are always quoted, numbers are written bare and nil is empty.
func WriteRows(w io.Writer, rows []Row) error {
	var header []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, f := range row {
			if !seen[f.Key] {
				seen[f.Key] = true
				header = append(header, f.Key)
			}
		}
	}
	return writeTable(w, header, rows)
}

func writeTable(w io.Writer, header []string, rows []Row) error {
	bw := bufio.NewWriter(w)
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = quoteCSV(h)
	}
	if _, err := bw.WriteString(strings.Join(cells, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		values := make(map[string]any, len(row))
		for _, f := range row {
			values[f.Key] = f.Value
		}
		for i, h := range header {
			cells[i] = formatCell(values[h])
		}
		if _, err := bw.WriteString(strings.Join(cells, ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return bw.Flush()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return quoteCSV(x)
	case *string:
		if x == nil {
			return ""
		}
		return quoteCSV(*x)
	case int:
		return strconv.Itoa(x)
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return utils.FormatNumber(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return quoteCSV(FormatDate(x))
	}
	return quoteCSV(fmt.Sprint(v))
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportFileName returns the download name for an export made at now.
func ExportFileName(base string, now time.Time) string {
	return utils.ExportFileName(base, now)
}
