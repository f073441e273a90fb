package model

// CaseRecord represents a single snakebite case row
type CaseRecord struct {
	Date                *string `json:"Date" db:"arrival_date"` // YYYY-MM-DD
	Sex                 *string `json:"Sex" db:"sex"`
	Age                 *int    `json:"Age" db:"age"`
	SnakeType           *string `json:"Snake_Type" db:"snake_type"`
	SAVVolume           float64 `json:"SAV_Volumn" db:"sav_volume"` // never null, defaults to 0
	BiteLocation        *string `json:"Bite_Location" db:"bite_location"`
	ArrivalPeriodNum    *int    `json:"Arrival Period - Num(Updated)" db:"arrival_period_num"`
	ArrivalPeriod       *string `json:"Arrival Period (Updated)" db:"arrival_period"`
	TraditionalMedicine *string `json:"Traditional medicine or touniquet (Updated)" db:"traditional_medicine"`
	Diagnostic          *string `json:"Diagnostic" db:"diagnostic"`
	Outcome             *string `json:"Outcome" db:"outcome"`
	AgeGroup            *string `json:"Age_Group" db:"age_group"`
}

// HasEssentialField reports whether at least one of date, sex, age or snake
// type is present. Rows without any of them are not persisted.
func (c CaseRecord) HasEssentialField() bool {
	return c.Date != nil || c.Sex != nil || c.Age != nil || c.SnakeType != nil
}

// Set stores a coerced value into the field backing col.
func (c *CaseRecord) Set(col Column, v Value) {
	switch col {
	case ColArrivalDate:
		c.Date = v.Text
	case ColSex:
		c.Sex = v.Text
	case ColAge:
		c.Age = v.Int
	case ColSnakeType:
		c.SnakeType = v.Text
	case ColSAVVolume:
		if v.Number != nil {
			c.SAVVolume = *v.Number
		} else {
			c.SAVVolume = 0
		}
	case ColBiteLocation:
		c.BiteLocation = v.Text
	case ColArrivalPeriodNum:
		c.ArrivalPeriodNum = v.Int
	case ColArrivalPeriod:
		c.ArrivalPeriod = v.Text
	case ColTraditionalMedicine:
		c.TraditionalMedicine = v.Text
	case ColDiagnostic:
		c.Diagnostic = v.Text
	case ColOutcome:
		c.Outcome = v.Text
	case ColAgeGroup:
		c.AgeGroup = v.Text
	}
}

// Get returns the value of col as an untyped value; absent fields are nil.
func (c CaseRecord) Get(col Column) any {
	switch col {
	case ColArrivalDate:
		return deref(c.Date)
	case ColSex:
		return deref(c.Sex)
	case ColAge:
		return deref(c.Age)
	case ColSnakeType:
		return deref(c.SnakeType)
	case ColSAVVolume:
		return c.SAVVolume
	case ColBiteLocation:
		return deref(c.BiteLocation)
	case ColArrivalPeriodNum:
		return deref(c.ArrivalPeriodNum)
	case ColArrivalPeriod:
		return deref(c.ArrivalPeriod)
	case ColTraditionalMedicine:
		return deref(c.TraditionalMedicine)
	case ColDiagnostic:
		return deref(c.Diagnostic)
	case ColOutcome:
		return deref(c.Outcome)
	case ColAgeGroup:
		return deref(c.AgeGroup)
	}
	return nil
}

// Values returns the record in storage column order (see Columns).
func (c CaseRecord) Values() []any {
	out := make([]any, len(Columns))
	for i, col := range Columns {
		out[i] = c.Get(col)
	}
	return out
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Value is the result of coercing one raw CSV cell. At most one of the
// pointers is set; all nil means null.
type Value struct {
	Text   *string
	Int    *int
	Number *float64
}

// IsNull reports whether no pointer is set.
func (v Value) IsNull() bool {
	return v.Text == nil && v.Int == nil && v.Number == nil
}

// DateEvent is a single dated case as used by the daily chart
type DateEvent struct {
	Date *string `json:"Date" db:"arrival_date"`
}
