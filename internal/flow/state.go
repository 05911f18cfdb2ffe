package flow

import (
	"fmt"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/work"
)

// Step is a stage of the three-step form
type Step int

const (
	StepWork   Step = 1 // compensation and weekly time
	StepItem   Step = 2 // item name and price
	StepResult Step = 3 // result display
)

// Field names a user-editable entry of InputState
type Field string

const (
	FieldSalary       Field = "salary"
	FieldTaxRate      Field = "tax_rate"
	FieldHourlyRate   Field = "hourly_rate"
	FieldWorkHours    Field = "work_hours"
	FieldCommuteHours Field = "commute_hours"
	FieldPrepHours    Field = "prep_hours"
	FieldAfterHours   Field = "after_hours"
	FieldItemName     Field = "item_name"
	FieldItemPrice    Field = "item_price"
)

// Fields lists every editable field in form order
var Fields = []Field{
	FieldSalary, FieldTaxRate, FieldHourlyRate,
	FieldWorkHours, FieldCommuteHours, FieldPrepHours, FieldAfterHours,
	FieldItemName, FieldItemPrice,
}

// InputState is the user's entries exactly as typed, plus the active step.
// It is a plain value: With and WithMode return updated copies.
type InputState struct {
	Mode         calc.Mode `json:"mode"`
	Salary       string    `json:"salary"`
	TaxRate      string    `json:"tax_rate"`
	HourlyRate   string    `json:"hourly_rate"`
	WorkHours    string    `json:"work_hours"`
	CommuteHours string    `json:"commute_hours"`
	PrepHours    string    `json:"prep_hours"`
	AfterHours   string    `json:"after_hours"`
	ItemName     string    `json:"item_name"`
	ItemPrice    string    `json:"item_price"`
	Step         Step      `json:"step"`
}

// DefaultInputState is the state at session start
func DefaultInputState() InputState {
	return InputState{
		Mode:         calc.ModeSalary,
		WorkHours:    "40",
		CommuteHours: "0",
		PrepHours:    "0",
		AfterHours:   "0",
		Step:         StepWork,
	}
}

// With returns a copy of s with field set to value
func (s InputState) With(field Field, value string) (InputState, error) {
	switch field {
	case FieldSalary:
		s.Salary = value
	case FieldTaxRate:
		s.TaxRate = value
	case FieldHourlyRate:
		s.HourlyRate = value
	case FieldWorkHours:
		s.WorkHours = value
	case FieldCommuteHours:
		s.CommuteHours = value
	case FieldPrepHours:
		s.PrepHours = value
	case FieldAfterHours:
		s.AfterHours = value
	case FieldItemName:
		s.ItemName = value
	case FieldItemPrice:
		s.ItemPrice = value
	default:
		return s, fmt.Errorf("unknown field: %s", field)
	}
	return s, nil
}

// WithMode returns a copy of s using the given compensation mode
func (s InputState) WithMode(mode calc.Mode) (InputState, error) {
	if !mode.Valid() {
		return s, fmt.Errorf("unknown compensation mode: %s", mode)
	}
	s.Mode = mode
	return s, nil
}

// Value returns the raw text of field
func (s InputState) Value(field Field) string {
	switch field {
	case FieldSalary:
		return s.Salary
	case FieldTaxRate:
		return s.TaxRate
	case FieldHourlyRate:
		return s.HourlyRate
	case FieldWorkHours:
		return s.WorkHours
	case FieldCommuteHours:
		return s.CommuteHours
	case FieldPrepHours:
		return s.PrepHours
	case FieldAfterHours:
		return s.AfterHours
	case FieldItemName:
		return s.ItemName
	case FieldItemPrice:
		return s.ItemPrice
	}
	return ""
}

// Numbers parses every numeric field leniently: work hours default to 40,
// everything else to 0.
func (s InputState) Numbers() calc.Input {
	return calc.Input{
		Mode:           s.Mode,
		AnnualSalary:   calc.ParseLenient(s.Salary, 0),
		TaxRatePercent: calc.ParseLenient(s.TaxRate, 0),
		HourlyRate:     calc.ParseLenient(s.HourlyRate, 0),
		WorkHours:      calc.ParseLenient(s.WorkHours, work.DefaultWeeklyWorkHours),
		CommuteHours:   calc.ParseLenient(s.CommuteHours, 0),
		PrepHours:      calc.ParseLenient(s.PrepHours, 0),
		AfterHours:     calc.ParseLenient(s.AfterHours, 0),
		ItemName:       s.ItemName,
		ItemPrice:      calc.ParseLenient(s.ItemPrice, 0),
	}
}
