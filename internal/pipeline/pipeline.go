package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"snakebite-dashboard/internal/metrics"
	"snakebite-dashboard/internal/model"
)

// DefaultBatchSize is the number of rows sent per insert statement.
const DefaultBatchSize = 100

// SampleSize is the number of accepted rows echoed back to the caller.
const SampleSize = 3

// CaseWriter persists batches of case records. Implementations write all
// batches or none.
type CaseWriter interface {
	InsertCases(ctx context.Context, batches [][]model.CaseRecord) (int, error)
}

// Format selects the upload parser.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Importer turns an upload into stored case records.
type Importer struct {
	Store     CaseWriter
	BatchSize int
}

// NewImporter returns an importer writing to store with the given batch
// size; non-positive sizes fall back to DefaultBatchSize.
func NewImporter(store CaseWriter, batchSize int) *Importer {
	return &Importer{Store: store, BatchSize: batchSize}
}

// Batches partitions records into slices of at most size rows, preserving
// order within and across batches.
func Batches(records []model.CaseRecord, size int) [][]model.CaseRecord {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(records) == 0 {
		return nil
	}
	return lo.Chunk(records, size)
}

// Import parses a CSV upload and stores the accepted rows.
func (im *Importer) Import(ctx context.Context, r io.Reader) (model.ImportResult, error) {
	return im.ImportFormat(ctx, r, FormatCSV)
}

// ImportFormat parses r as format and stores the accepted rows. Parse
// errors abort the import before anything is written.
func (im *Importer) ImportFormat(ctx context.Context, r io.Reader, format Format) (model.ImportResult, error) {
	importID := uuid.New().String()
	tracker := NewImportTracker(importID)
	log.Printf("🚀 Starting import %s (%s)", importID, format)

	var batch model.ImportBatch
	err := tracker.Track("parse", func() error {
		var perr error
		switch format {
		case FormatJSON:
			batch, perr = ParseCasesJSON(r)
		default:
			batch, perr = ParseCases(r)
		}
		return perr
	})
	if err != nil {
		return model.ImportResult{ImportID: importID}, err
	}
	tracker.RecordCounts(batch)

	batches := Batches(batch.Accepted, im.BatchSize)
	inserted := 0
	if len(batches) > 0 {
		err = tracker.Track("insert", func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, ierr := im.Store.InsertCases(ctx, batches)
			inserted = n
			return ierr
		})
		if err != nil {
			return model.ImportResult{ImportID: importID}, fmt.Errorf("import %s: %w", importID, err)
		}
	}
	metrics.RecordRows("inserted", inserted)
	metrics.RecordBatches(len(batches))

	result := model.ImportResult{
		Success:  true,
		ImportID: importID,
		Inserted: inserted,
		Rejected: batch.Rejected,
		Skipped:  batch.Skipped,
		Batches:  len(batches),
		Sample:   lo.Slice(batch.Accepted, 0, SampleSize),
		Duration: tracker.Elapsed(),
	}
	log.Printf("✅ Import %s complete: %d inserted in %d batches, %d rejected, %d skipped (%v)",
		importID, result.Inserted, result.Batches, result.Rejected, result.Skipped, result.Duration)
	return result, nil
}
