package pipeline

import (
	"testing"

	"snakebite-dashboard/internal/model"
)

func TestCoerceIntOrNull(t *testing.T) {
	tests := []struct {
		raw  any
		want *int
	}{
		{"", nil},
		{nil, nil},
		{"   ", nil},
		{"0", intPtr(0)},
		{"42", intPtr(42)},
		{" 7 ", intPtr(7)},
		{"41.6", intPtr(42)},
		{"-3", nil},
		{"abc", nil},
		{"N/A", nil},
		{"NaN", nil},
		{"Inf", nil},
		{12.0, intPtr(12)},
	}
	for _, tt := range tests {
		got := CoerceField(model.KindIntOrNull, tt.raw)
		if got.Text != nil || got.Number != nil {
			t.Errorf("CoerceField(int, %v) set wrong slot: %+v", tt.raw, got)
		}
		switch {
		case tt.want == nil && got.Int != nil:
			t.Errorf("CoerceField(int, %v) = %d, want null", tt.raw, *got.Int)
		case tt.want != nil && got.Int == nil:
			t.Errorf("CoerceField(int, %v) = null, want %d", tt.raw, *tt.want)
		case tt.want != nil && *got.Int != *tt.want:
			t.Errorf("CoerceField(int, %v) = %d, want %d", tt.raw, *got.Int, *tt.want)
		}
	}
}

func TestCoerceNumberOrZero(t *testing.T) {
	tests := []struct {
		raw  any
		want float64
	}{
		{"", 0},
		{nil, 0},
		{"12.5", 12.5},
		{"20", 20},
		{"abc", 0},
		{"-1", 0},
		{"NaN", 0},
		{"N/A", 0},
	}
	for _, tt := range tests {
		got := CoerceField(model.KindNumberOrZero, tt.raw)
		if got.Number == nil {
			t.Fatalf("CoerceField(number, %v) = null, want %v", tt.raw, tt.want)
		}
		if *got.Number != tt.want {
			t.Errorf("CoerceField(number, %v) = %v, want %v", tt.raw, *got.Number, tt.want)
		}
	}
}

func TestCoerceText(t *testing.T) {
	tests := []struct {
		raw  any
		want *string
	}{
		{" Cobra ", strPtr("Cobra")},
		{"Viper", strPtr("Viper")},
		{"", nil},
		{nil, nil},
		{"nan", nil},
		{"NaN", nil},
		{"N/A", nil},
		{"n/a", strPtr("n/a")},
	}
	for _, tt := range tests {
		got := CoerceField(model.KindText, tt.raw)
		switch {
		case tt.want == nil && got.Text != nil:
			t.Errorf("CoerceField(text, %v) = %q, want null", tt.raw, *got.Text)
		case tt.want != nil && (got.Text == nil || *got.Text != *tt.want):
			t.Errorf("CoerceField(text, %v) = %v, want %q", tt.raw, got.Text, *tt.want)
		}
	}
}

func TestCoerceDate(t *testing.T) {
	got := CoerceField(model.KindDate, "01/05/2019")
	if got.Text == nil || *got.Text != "2019-01-05" {
		t.Errorf("CoerceField(date, 01/05/2019) = %v, want 2019-01-05", got.Text)
	}
	if got := CoerceField(model.KindDate, "soon"); !got.IsNull() {
		t.Errorf("CoerceField(date, soon) = %+v, want null", got)
	}
	if got := CoerceField(model.KindDate, "N/A"); !got.IsNull() {
		t.Errorf("CoerceField(date, N/A) = %+v, want null", got)
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
