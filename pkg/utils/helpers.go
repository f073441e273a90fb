package utils

import (
	"math"
	"strconv"
	"strings"
)

// nullTokens are spreadsheet placeholders that mean "no value"
var nullTokens = map[string]struct{}{
	"NaN": {},
	"nan": {},
	"N/A": {},
}

// IsNullToken reports whether s is one of the recognized null placeholders.
func IsNullToken(s string) bool {
	_, ok := nullTokens[s]
	return ok
}

// ParseNumber parses a decimal number the way a spreadsheet export would
// write it. Surrounding whitespace is ignored; empty, NaN and infinite
// inputs are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders f without a trailing ".0" for whole numbers.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
