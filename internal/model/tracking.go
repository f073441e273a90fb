package model

import "time"

// ImportBatch is the parsed, coerced and filtered content of one CSV upload
type ImportBatch struct {
	Accepted []CaseRecord `json:"accepted"`
	Rejected int          `json:"rejected"` // rows without any essential field
	Skipped  int          `json:"skipped"`  // rows with no non-empty field at all
}

// ImportResult is returned by the import endpoint and CLI
type ImportResult struct {
	Success  bool          `json:"success"`
	ImportID string        `json:"importId"`
	Inserted int           `json:"inserted"`
	Rejected int           `json:"rejected"`
	Skipped  int           `json:"skipped"`
	Batches  int           `json:"batches"`
	Sample   []CaseRecord  `json:"sample"`
	Duration time.Duration `json:"-"`
}

// StageTiming records how long one import stage took
type StageTiming struct {
	Stage    string        `json:"stage"` // "parse", "insert"
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}
