package store

import (
	"fmt"
	"strings"

	"snakebite-dashboard/internal/model"
)

// columnType returns the engine type for a canonical column.
func (d Dialect) columnType(col model.Column) string {
	switch col.Kind() {
	case model.KindDate:
		if d == SQLite {
			return "TEXT"
		}
		return "DATE"
	case model.KindIntOrNull:
		return "INTEGER"
	case model.KindNumberOrZero:
		if d == SQLite {
			return "REAL NOT NULL DEFAULT 0"
		}
		return "DOUBLE PRECISION NOT NULL DEFAULT 0"
	}
	if d == MySQL {
		return "VARCHAR(255)"
	}
	return "TEXT"
}

// createTableSQL returns an idempotent CREATE TABLE for the case table.
func (d Dialect) createTableSQL(table string) string {
	defs := make([]string, 0, len(model.Columns))
	for _, col := range model.Columns {
		defs = append(defs, fmt.Sprintf("\t%s %s", d.Quote(col.StorageName()), d.columnType(col)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", d.Quote(table), strings.Join(defs, ",\n"))
}

// selectColumns lists every canonical column aliased to its struct tag.
func (d Dialect) selectColumns() string {
	cols := make([]string, 0, len(model.Columns))
	for _, col := range model.Columns {
		cols = append(cols, fmt.Sprintf("%s AS %s", d.Quote(col.StorageName()), col.FieldName()))
	}
	return strings.Join(cols, ", ")
}

// insertSQL returns a multi-row INSERT for rows records using ? placeholders.
func (d Dialect) insertSQL(table string, rows int) string {
	cols := make([]string, 0, len(model.Columns))
	for _, col := range model.Columns {
		cols = append(cols, d.Quote(col.StorageName()))
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(model.Columns)), ", ") + ")"
	tuples := make([]string, rows)
	for i := range tuples {
		tuples[i] = tuple
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		d.Quote(table), strings.Join(cols, ", "), strings.Join(tuples, ", "))
}
