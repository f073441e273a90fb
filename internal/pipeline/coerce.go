package pipeline

import (
	"fmt"
	"math"
	"strings"

	"snakebite-dashboard/internal/model"
	"snakebite-dashboard/pkg/utils"
)

// CoerceField converts one raw cell according to the column kind. It never
// fails: malformed input degrades to the kind's null or default value.
func CoerceField(kind model.ColumnKind, raw any) model.Value {
	s, present := rawString(raw)
	if present && utils.IsNullToken(strings.TrimSpace(s)) {
		present = false
	}

	switch kind {
	case model.KindDate:
		if !present {
			return model.Value{}
		}
		return model.Value{Text: CanonicalDate(raw)}

	case model.KindIntOrNull:
		if !present {
			return model.Value{}
		}
		if strings.TrimSpace(s) == "0" {
			zero := 0
			return model.Value{Int: &zero}
		}
		f, ok := utils.ParseNumber(s)
		if !ok || f < 0 || f > math.MaxInt32 {
			return model.Value{}
		}
		n := int(math.Round(f))
		return model.Value{Int: &n}

	case model.KindNumberOrZero:
		f := 0.0
		if present {
			if parsed, ok := utils.ParseNumber(s); ok && parsed >= 0 {
				f = parsed
			}
		}
		return model.Value{Number: &f}

	case model.KindText:
		if !present {
			return model.Value{}
		}
		t := strings.TrimSpace(s)
		if t == "" {
			return model.Value{}
		}
		return model.Value{Text: &t}
	}
	return model.Value{}
}

// rawString stringifies raw; present is false for nil and blank values.
func rawString(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return v, strings.TrimSpace(v) != ""
	case *string:
		if v == nil {
			return "", false
		}
		return *v, strings.TrimSpace(*v) != ""
	case []byte:
		return string(v), strings.TrimSpace(string(v)) != ""
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		return utils.FormatNumber(v), true
	case int:
		return fmt.Sprint(v), true
	case int64:
		return fmt.Sprint(v), true
	}
	s := fmt.Sprint(raw)
	return s, strings.TrimSpace(s) != ""
}
