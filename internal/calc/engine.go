// Package calc turns a work profile and a price into life-hours.
//
// Everything here is a pure function of its input. Nothing is cached and
// nothing is remembered between calls.
package calc

import (
	"math"

	"github.com/lifeforce/internal/work"
)

// Mode selects how take-home pay is derived
type Mode string

const (
	ModeSalary Mode = "salary"
	ModeHourly Mode = "hourly"
)

// Valid reports whether m is a known compensation mode
func (m Mode) Valid() bool {
	return m == ModeSalary || m == ModeHourly
}

// Input is the numeric form of the user's entries. Build it with
// flow.InputState.Numbers so that every field passed through ParseLenient.
type Input struct {
	Mode           Mode
	AnnualSalary   float64
	TaxRatePercent float64
	HourlyRate     float64
	WorkHours      float64
	CommuteHours   float64
	PrepHours      float64
	AfterHours     float64
	ItemName       string
	ItemPrice      float64
}

// Rate is the outcome of DeriveTrueHourlyRate
type Rate struct {
	TrueHourlyRate   float64 `json:"true_hourly_rate"`
	TotalWeeklyHours float64 `json:"total_weekly_hours"`
	WorkHours        float64 `json:"work_hours"`
	AnnualLifeHours  float64 `json:"annual_life_hours"`
	AnnualTakeHome   float64 `json:"annual_take_home"`
}

// Result is what a purchase costs in working life
type Result struct {
	ItemName       string  `json:"item_name"`
	ItemPrice      float64 `json:"item_price"`
	TrueHourlyRate float64 `json:"true_hourly_rate"`
	LifeHours      float64 `json:"life_hours"`
	AvgDayLength   float64 `json:"avg_day_length"`
	WorkDays       float64 `json:"work_days"`
	WorkWeeks      float64 `json:"work_weeks"`
	Mornings       int     `json:"mornings"`
}

// DeriveTrueHourlyRate divides annual take-home pay by every hour the job
// consumes in a year. It never fails: with zero weekly hours the rate is
// ±Inf or NaN and callers must check before using it.
func DeriveTrueHourlyRate(in Input) Rate {
	total := work.TotalWeeklyHours(in.WorkHours, in.CommuteHours, in.PrepHours, in.AfterHours)
	annualLifeHours := work.AnnualHours(total)

	var takeHome float64
	if in.Mode == ModeHourly {
		takeHome = in.HourlyRate * work.AnnualHours(in.WorkHours)
	} else {
		takeHome = in.AnnualSalary * (1 - in.TaxRatePercent/100)
	}

	return Rate{
		TrueHourlyRate:   takeHome / annualLifeHours,
		TotalWeeklyHours: total,
		WorkHours:        in.WorkHours,
		AnnualLifeHours:  annualLifeHours,
		AnnualTakeHome:   takeHome,
	}
}

// DeriveResult prices the item in life-hours. It returns a *ValidationError
// when the true hourly rate or the price is not positive, or when the result
// is not a finite number.
func DeriveResult(in Input) (Result, error) {
	rate := DeriveTrueHourlyRate(in)

	if !(rate.TrueHourlyRate > 0) || !(in.ItemPrice > 0) {
		return Result{}, &ValidationError{Field: "item_price", Message: MsgInvalidNumbers}
	}

	name := in.ItemName
	if name == "" {
		name = work.DefaultItemName
	}

	avgDay := work.AverageDayLength(rate.TotalWeeklyHours)
	lifeHours := in.ItemPrice / rate.TrueHourlyRate
	mornings := math.Ceil(lifeHours / avgDay)

	// "Infinity" and "1e400" parse, but nothing past this point can hold them.
	if !isFinite(rate.TrueHourlyRate) || !isFinite(lifeHours) || !isFinite(mornings) || mornings > math.MaxInt32 {
		return Result{}, &ValidationError{Field: "item_price", Message: MsgInvalidNumbers}
	}

	return Result{
		ItemName:       name,
		ItemPrice:      in.ItemPrice,
		TrueHourlyRate: rate.TrueHourlyRate,
		LifeHours:      lifeHours,
		AvgDayLength:   avgDay,
		WorkDays:       lifeHours / avgDay,
		WorkWeeks:      lifeHours / rate.TotalWeeklyHours,
		Mornings:       int(mornings),
	}, nil
}

// ValidateStepOne checks that the field the chosen mode depends on was filled
// in at all. Whether it holds a usable number is decided later by DeriveResult.
func ValidateStepOne(mode Mode, salary, hourlyRate string) error {
	switch mode {
	case ModeHourly:
		if hourlyRate == "" {
			return &ValidationError{Field: "hourly_rate", Message: MsgHourlyRequired}
		}
	default:
		if salary == "" {
			return &ValidationError{Field: "salary", Message: MsgSalaryRequired}
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
