package model

// ColumnKind selects the coercion policy applied to a column
type ColumnKind int

const (
	KindDate ColumnKind = iota
	KindIntOrNull
	KindNumberOrZero
	KindText
)

func (k ColumnKind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindIntOrNull:
		return "integer-or-null"
	case KindNumberOrZero:
		return "non-negative-number-default-zero"
	case KindText:
		return "free-text-or-null"
	}
	return "unknown"
}

// Column enumerates the canonical fields of a CaseRecord
type Column int

const (
	ColArrivalDate Column = iota
	ColSex
	ColAge
	ColSnakeType
	ColSAVVolume
	ColBiteLocation
	ColArrivalPeriodNum
	ColArrivalPeriod
	ColTraditionalMedicine
	ColDiagnostic
	ColOutcome
	ColAgeGroup
)

// Columns lists every canonical column in storage order.
var Columns = []Column{
	ColArrivalDate,
	ColSex,
	ColAge,
	ColSnakeType,
	ColSAVVolume,
	ColBiteLocation,
	ColArrivalPeriodNum,
	ColArrivalPeriod,
	ColTraditionalMedicine,
	ColDiagnostic,
	ColOutcome,
	ColAgeGroup,
}

type columnInfo struct {
	storage string   // column name in the case table
	field   string   // alias used in SELECT, matches the db struct tag
	json    string   // key in API payloads and exported CSV
	kind    ColumnKind
	aliases []string // accepted CSV headers, highest priority first
}

var columnTable = map[Column]columnInfo{
	ColArrivalDate: {"Date of arrival", "arrival_date", "Date", KindDate,
		[]string{"Date of arrival", "Date"}},
	ColSex: {"Sex", "sex", "Sex", KindText,
		[]string{"Sex"}},
	ColAge: {"Age", "age", "Age", KindIntOrNull,
		[]string{"Age"}},
	ColSnakeType: {"Snake Type", "snake_type", "Snake_Type", KindText,
		[]string{"Snake Type", "Snake_Type"}},
	ColSAVVolume: {"SAV Volumn", "sav_volume", "SAV_Volumn", KindNumberOrZero,
		[]string{"SAV Volumn", "SAV_Volumn"}},
	ColBiteLocation: {"Location (Updated)", "bite_location", "Bite_Location", KindText,
		[]string{"Location (Updated)", "Bite Location", "Bite_Location"}},
	ColArrivalPeriodNum: {"Arrival Period - Num(Updated)", "arrival_period_num", "Arrival Period - Num(Updated)", KindIntOrNull,
		[]string{"Arrival Period - Num(Updated)"}},
	ColArrivalPeriod: {"Arrival Period (Updated)", "arrival_period", "Arrival Period (Updated)", KindText,
		[]string{"Arrival Period (Updated)"}},
	ColTraditionalMedicine: {"Traditional medicine or touniquet (Updated)", "traditional_medicine", "Traditional medicine or touniquet (Updated)", KindText,
		[]string{"Traditional medicine or touniquet (Updated)"}},
	ColDiagnostic: {"DIAGNOSTIC", "diagnostic", "Diagnostic", KindText,
		[]string{"DIAGNOSTIC", "Diagnostic"}},
	ColOutcome: {"Outcome (Updated)", "outcome", "Outcome", KindText,
		[]string{"Outcome (Updated)", "Outcome"}},
	ColAgeGroup: {"Age Group", "age_group", "Age_Group", KindText,
		[]string{"Age Group", "Age_Group"}},
}

func (c Column) StorageName() string { return columnTable[c].storage }
func (c Column) FieldName() string   { return columnTable[c].field }
func (c Column) JSONKey() string     { return columnTable[c].json }
func (c Column) Kind() ColumnKind    { return columnTable[c].kind }

// Aliases returns the accepted CSV headers for c, highest priority first.
func (c Column) Aliases() []string {
	return append([]string(nil), columnTable[c].aliases...)
}

func (c Column) String() string { return c.JSONKey() }

// ColumnByJSONKey looks up a canonical column by its payload key.
func ColumnByJSONKey(key string) (Column, bool) {
	for _, c := range Columns {
		if columnTable[c].json == key {
			return c, true
		}
	}
	return 0, false
}
