package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"snakebite-dashboard/internal/model"
)

// ErrMalformedCSV is returned when an upload cannot be read as a CSV table.
var ErrMalformedCSV = errors.New("malformed csv")

// ErrMalformedJSON is returned when a JSON upload is not an array of objects.
var ErrMalformedJSON = errors.New("malformed json")

// decodeUpload strips a UTF-8 or UTF-16 byte order mark and converts the
// stream to UTF-8. Input without a BOM is read as UTF-8.
func decodeUpload(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ParseCases reads a CSV table with a header row and returns the coerced
// rows that pass the essential-field filter. Blank rows are skipped.
func ParseCases(r io.Reader) (model.ImportBatch, error) {
	batch := model.ImportBatch{Accepted: []model.CaseRecord{}}

	csvReader := csv.NewReader(decodeUpload(r))
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err == io.EOF {
		return batch, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
	}
	if err != nil {
		return batch, fmt.Errorf("%w: failed to read CSV header: %v", ErrMalformedCSV, err)
	}
	hm := ResolveHeaders(headers)
	if !hm.Known() {
		return batch, fmt.Errorf("%w: no recognized columns in header", ErrMalformedCSV)
	}

	var parsed []model.CaseRecord
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return batch, fmt.Errorf("%w: CSV read error: %v", ErrMalformedCSV, err)
		}
		if blankRow(row) {
			batch.Skipped++
			continue
		}

		parsed = append(parsed, hm.TransformRow(row))
	}
	batch.Accepted, batch.Rejected = ValidateRecords(parsed)

	fmt.Printf("📄 CSV parsed: %d accepted, %d rejected, %d skipped\n",
		len(batch.Accepted), batch.Rejected, batch.Skipped)
	return batch, nil
}

// ParseCasesJSON accepts an array of objects keyed by CSV headers or by the
// read API's payload keys, and applies the same coercion and filtering.
func ParseCasesJSON(r io.Reader) (model.ImportBatch, error) {
	batch := model.ImportBatch{Accepted: []model.CaseRecord{}}

	var rows []map[string]any
	dec := json.NewDecoder(decodeUpload(r))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return batch, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	parsed := make([]model.CaseRecord, 0, len(rows))
	for _, row := range rows {
		if blankMap(row) {
			batch.Skipped++
			continue
		}
		parsed = append(parsed, TransformMap(row))
	}
	batch.Accepted, batch.Rejected = ValidateRecords(parsed)

	fmt.Printf("🌐 JSON parsed: %d accepted, %d rejected, %d skipped\n",
		len(batch.Accepted), batch.Rejected, batch.Skipped)
	return batch, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func blankMap(row map[string]any) bool {
	for _, v := range row {
		if !isBlank(v) {
			return false
		}
	}
	return true
}
