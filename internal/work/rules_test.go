package work

import "testing"

func TestAnnualHours(t *testing.T) {
	tests := []struct {
		name     string
		weekly   float64
		expected float64
	}{
		{"Standard week", 40, 2080},
		{"Long week", 52, 2704},
		{"Part time", 20, 1040},
		{"Nothing", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnnualHours(tt.weekly)
			if result != tt.expected {
				t.Errorf("AnnualHours(%f) = %f, want %f", tt.weekly, result, tt.expected)
			}
		})
	}
}

func TestAverageDayLength(t *testing.T) {
	tests := []struct {
		name     string
		weekly   float64
		expected float64
	}{
		{"40 hours", 40, 8},
		{"52 hours", 52, 10.4},
		{"Zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AverageDayLength(tt.weekly)
			if result != tt.expected {
				t.Errorf("AverageDayLength(%f) = %f, want %f", tt.weekly, result, tt.expected)
			}
		})
	}
}

func TestTotalWeeklyHours(t *testing.T) {
	if got := TotalWeeklyHours(40, 5, 5, 2); got != 52 {
		t.Errorf("TotalWeeklyHours = %f, want 52", got)
	}
	if got := TotalWeeklyHours(); got != 0 {
		t.Errorf("TotalWeeklyHours() = %f, want 0", got)
	}
}

func TestConstants(t *testing.T) {
	// Verify the default week spreads into 8-hour days
	if AverageDayLength(DefaultWeeklyWorkHours) != 8 {
		t.Errorf("AverageDayLength(DefaultWeeklyWorkHours) = %f, expected 8", AverageDayLength(DefaultWeeklyWorkHours))
	}
	if DefaultItemName != "this item" {
		t.Errorf("DefaultItemName = %q", DefaultItemName)
	}
}
