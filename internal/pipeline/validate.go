package pipeline

import (
	"fmt"

	"snakebite-dashboard/internal/model"
)

// KeepRecord applies the essential-field rule: a case is stored only when
// its date, sex, age or snake type is known.
func KeepRecord(rec model.CaseRecord) bool {
	return rec.HasEssentialField()
}

// ValidateRecords splits records into those worth persisting and a count of
// the rest. Input order is preserved.
func ValidateRecords(records []model.CaseRecord) ([]model.CaseRecord, int) {
	valid := make([]model.CaseRecord, 0, len(records))
	invalid := 0
	for _, rec := range records {
		if KeepRecord(rec) {
			valid = append(valid, rec)
			continue
		}
		invalid++
		if invalid <= 5 {
			fmt.Printf("❌ Validation: dropping record without date, sex, age or snake type\n")
		}
	}
	if invalid > 0 {
		fmt.Printf("🔍 Validation Summary: %d valid records, %d invalid records\n", len(valid), invalid)
	}
	return valid, invalid
}
