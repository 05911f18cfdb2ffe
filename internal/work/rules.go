package work

// =============================================================================
// WORK CALENDAR CONFIGURATION
// =============================================================================
// These values turn weekly hours into yearly and daily figures.
//
// To customize:
// 1. Change WeeksPerYear if you only count weeks you are actually paid for
// 2. Change WorkDaysPerWeek for a 4-day or 6-day week
// 3. Change DefaultWeeklyWorkHours to your contractual week
// =============================================================================

const (
	// WeeksPerYear - weeks used to annualize weekly hours and hourly pay
	WeeksPerYear = 52

	// WorkDaysPerWeek - standard work week (typically 5)
	WorkDaysPerWeek = 5

	// DefaultWeeklyWorkHours - hours at work when the field is left empty
	// US: 40 | Germany: 40 | France: 35 | Austria: 38.5
	DefaultWeeklyWorkHours = 40.0

	// DefaultItemName is shown when the purchase has no name
	DefaultItemName = "this item"
)

// AnnualHours converts weekly hours into hours per year
func AnnualHours(weeklyHours float64) float64 {
	return weeklyHours * WeeksPerYear
}

// AverageDayLength spreads the weekly hours evenly across the work days
func AverageDayLength(weeklyHours float64) float64 {
	return weeklyHours / WorkDaysPerWeek
}

// TotalWeeklyHours sums every weekly block of time the job consumes
func TotalWeeklyHours(blocks ...float64) float64 {
	total := 0.0
	for _, b := range blocks {
		total += b
	}
	return total
}
