package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OutputManager handles export file naming and placement
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// ExportFileName returns "<base>_<YYYY-MM-DD>.csv" for the given day.
func ExportFileName(base string, now time.Time) string {
	if base == "" {
		base = "data"
	}
	return fmt.Sprintf("%s_%s.csv", filepath.Base(base), now.Format("2006-01-02"))
}

// GetOutputFilePath returns the full path for a dated export, creating
// the output directory when needed.
func (om *OutputManager) GetOutputFilePath(base string, now time.Time) (string, error) {
	if err := om.EnsureOutputDirExists(); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(om.BaseOutputDir, ExportFileName(base, now)), nil
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
