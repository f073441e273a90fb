package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsNullToken(t *testing.T) {
	for _, s := range []string{"NaN", "nan", "N/A"} {
		if !IsNullToken(s) {
			t.Errorf("IsNullToken(%q) = false", s)
		}
	}
	for _, s := range []string{"", "NA", "null", "0"} {
		if IsNullToken(s) {
			t.Errorf("IsNullToken(%q) = true", s)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{" 12.5 ", 12.5, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if got := FormatNumber(20); got != "20" {
		t.Errorf("FormatNumber(20) = %q", got)
	}
}

func TestOutputManager(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	if got := ExportFileName("", now); got != "data_2024-03-09.csv" {
		t.Errorf("ExportFileName() = %q", got)
	}

	dir := filepath.Join(t.TempDir(), "nested", "exports")
	path, err := NewOutputManager(dir).GetOutputFilePath("snakebite", now)
	if err != nil {
		t.Fatalf("GetOutputFilePath() error = %v", err)
	}
	if path != filepath.Join(dir, "snakebite_2024-03-09.csv") {
		t.Errorf("path = %q", path)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("output dir not created: %v", err)
	}
}
