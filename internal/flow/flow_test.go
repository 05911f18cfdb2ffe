package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeforce/internal/calc"
)

func salarySession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(DefaultInputState())
	for field, value := range map[Field]string{
		FieldSalary:       "80000",
		FieldTaxRate:      "30",
		FieldWorkHours:    "40",
		FieldCommuteHours: "5",
		FieldPrepHours:    "5",
		FieldAfterHours:   "2",
	} {
		require.NoError(t, s.Set(field, value))
	}
	return s
}

func TestDefaultInputState(t *testing.T) {
	s := DefaultInputState()

	assert.Equal(t, calc.ModeSalary, s.Mode)
	assert.Equal(t, "40", s.WorkHours)
	assert.Equal(t, "0", s.CommuteHours)
	assert.Equal(t, "0", s.PrepHours)
	assert.Equal(t, "0", s.AfterHours)
	assert.Equal(t, StepWork, s.Step)
}

func TestInputState_With(t *testing.T) {
	base := DefaultInputState()

	for _, field := range Fields {
		t.Run(string(field), func(t *testing.T) {
			next, err := base.With(field, "123")
			require.NoError(t, err)
			assert.Equal(t, "123", next.Value(field))
			// the receiver is a value and stays untouched
			assert.NotEqual(t, "123", base.Value(field))
		})
	}

	_, err := base.With(Field("bonus"), "1")
	assert.Error(t, err)
}

func TestInputState_WithMode(t *testing.T) {
	s, err := DefaultInputState().WithMode(calc.ModeHourly)
	require.NoError(t, err)
	assert.Equal(t, calc.ModeHourly, s.Mode)

	_, err = s.WithMode(calc.Mode("weekly"))
	assert.Error(t, err)
}

func TestInputState_NumbersDegradesSilently(t *testing.T) {
	s := DefaultInputState()
	s.Salary = "80000"
	s.TaxRate = "lots"
	s.WorkHours = ""
	s.CommuteHours = "x"

	in := s.Numbers()

	assert.Equal(t, 80000.0, in.AnnualSalary)
	assert.Equal(t, 0.0, in.TaxRatePercent)
	assert.Equal(t, 40.0, in.WorkHours)
	assert.Equal(t, 0.0, in.CommuteHours)
}

func TestSession_SalaryFlow(t *testing.T) {
	s := salarySession(t)

	require.NoError(t, s.Continue())
	assert.Equal(t, StepItem, s.Step())

	require.NoError(t, s.Set(FieldItemName, "Headphones"))
	require.NoError(t, s.Set(FieldItemPrice, "299"))

	res, err := s.Calculate()
	require.NoError(t, err)

	assert.Equal(t, StepResult, s.Step())
	assert.Equal(t, "Headphones", res.ItemName)
	assert.InDelta(t, 20.7101, res.TrueHourlyRate, 1e-4)
	require.NotNil(t, s.Result)
	assert.Equal(t, res, *s.Result)
}

func TestSession_HourlyFlow(t *testing.T) {
	s := NewSession(DefaultInputState())
	require.NoError(t, s.SetMode(calc.ModeHourly))
	require.NoError(t, s.Set(FieldHourlyRate, "25"))
	require.NoError(t, s.Continue())
	require.NoError(t, s.Set(FieldItemPrice, "100"))

	res, err := s.Calculate()
	require.NoError(t, err)

	assert.Equal(t, 25.0, res.TrueHourlyRate)
	assert.Equal(t, 4.0, res.LifeHours)
	assert.Equal(t, 1, res.Mornings)
	assert.Equal(t, "this item", res.ItemName)
}

func TestSession_ContinueBlockedWithoutSalary(t *testing.T) {
	s := NewSession(DefaultInputState())

	err := s.Continue()

	require.Error(t, err)
	assert.True(t, calc.IsValidationError(err))
	assert.Equal(t, calc.MsgSalaryRequired, err.Error())
	assert.Equal(t, StepWork, s.Step())
	assert.False(t, s.ValidateStepOneToTwo())
}

func TestSession_ContinueBlockedWithoutHourlyRate(t *testing.T) {
	s := NewSession(DefaultInputState())
	require.NoError(t, s.Set(FieldSalary, "80000"))
	require.NoError(t, s.SetMode(calc.ModeHourly))

	err := s.Continue()

	require.Error(t, err)
	assert.Equal(t, calc.MsgHourlyRequired, err.Error())
	assert.Equal(t, StepWork, s.Step())
}

func TestSession_UnparseableTaxIsIgnored(t *testing.T) {
	s := salarySession(t)
	require.NoError(t, s.Set(FieldTaxRate, "thirty"))
	require.NoError(t, s.Continue())
	require.NoError(t, s.Set(FieldItemPrice, "299"))

	res, err := s.Calculate()
	require.NoError(t, err)

	assert.InDelta(t, 80000.0/2704.0, res.TrueHourlyRate, 1e-9)
}

func TestSession_CalculateBlocked(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		salary  string
		wantMsg string
	}{
		{"zero price", "0", "80000", calc.MsgInvalidNumbers},
		{"empty price", "", "80000", calc.MsgInvalidNumbers},
		{"salary not a number", "299", "abc", calc.MsgInvalidNumbers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := salarySession(t)
			require.NoError(t, s.Set(FieldSalary, tt.salary))
			require.NoError(t, s.Continue())
			require.NoError(t, s.Set(FieldItemPrice, tt.price))

			_, err := s.Calculate()

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, StepItem, s.Step())
			assert.Nil(t, s.Result)
		})
	}
}

func TestSession_CalculateGuardsZeroWeeklyHours(t *testing.T) {
	s := salarySession(t)
	// work hours cannot reach zero through the default, but negatives can cancel out
	require.NoError(t, s.Set(FieldWorkHours, "10"))
	require.NoError(t, s.Set(FieldCommuteHours, "-10"))
	require.NoError(t, s.Set(FieldPrepHours, "0"))
	require.NoError(t, s.Set(FieldAfterHours, "0"))
	require.NoError(t, s.Continue())
	require.NoError(t, s.Set(FieldItemPrice, "299"))

	_, err := s.Calculate()

	require.Error(t, err)
	assert.True(t, calc.IsValidationError(err))
	assert.Equal(t, calc.MsgNoWeeklyHours, err.Error())
	assert.Equal(t, StepItem, s.Step())
}

func TestSession_ResetKeepsWorkProfile(t *testing.T) {
	s := salarySession(t)
	require.NoError(t, s.Continue())
	require.NoError(t, s.Set(FieldItemName, "Bike"))
	require.NoError(t, s.Set(FieldItemPrice, "1200"))
	_, err := s.Calculate()
	require.NoError(t, err)

	require.NoError(t, s.Reset())

	assert.Equal(t, StepWork, s.Step())
	assert.Empty(t, s.State.ItemName)
	assert.Empty(t, s.State.ItemPrice)
	assert.Nil(t, s.Result)
	assert.Equal(t, "80000", s.State.Salary)
	assert.Equal(t, "30", s.State.TaxRate)
	assert.Equal(t, "5", s.State.CommuteHours)
	assert.Equal(t, calc.ModeSalary, s.State.Mode)
}

func TestSession_ChangeItemKeepsResult(t *testing.T) {
	s := salarySession(t)
	require.NoError(t, s.Continue())
	require.NoError(t, s.Set(FieldItemPrice, "299"))
	first, err := s.Calculate()
	require.NoError(t, err)

	require.NoError(t, s.ChangeItem())
	assert.Equal(t, StepItem, s.Step())
	require.NotNil(t, s.Result)
	assert.Equal(t, first, *s.Result)

	// a failed recalculation leaves the earlier result in place
	require.NoError(t, s.Set(FieldItemPrice, "0"))
	_, err = s.Calculate()
	require.Error(t, err)
	assert.Equal(t, first, *s.Result)

	require.NoError(t, s.Set(FieldItemPrice, "598"))
	second, err := s.Calculate()
	require.NoError(t, err)
	assert.InDelta(t, first.LifeHours*2, second.LifeHours, 1e-9)
	assert.Equal(t, second, *s.Result)
}

func TestSession_BackKeepsFields(t *testing.T) {
	s := salarySession(t)
	require.NoError(t, s.Continue())
	require.NoError(t, s.Set(FieldItemName, "Bike"))

	require.NoError(t, s.Back())

	assert.Equal(t, StepWork, s.Step())
	assert.Equal(t, "Bike", s.State.ItemName)
	assert.Equal(t, "80000", s.State.Salary)
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := salarySession(t)

	tests := []struct {
		name string
		act  func() error
	}{
		{"back from step 1", s.Back},
		{"change item from step 1", s.ChangeItem},
		{"reset from step 1", s.Reset},
		{"calculate from step 1", func() error { _, err := s.Calculate(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.State
			err := tt.act()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			assert.Equal(t, before, s.State)
		})
	}

	require.NoError(t, s.Continue())
	err := s.Continue()
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, StepItem, s.Step())
}

func TestSession_Indicator(t *testing.T) {
	s := salarySession(t)

	assert.Equal(t, []StepDot{
		{StepWork, DotActive}, {StepItem, DotPending}, {StepResult, DotPending},
	}, s.Indicator())

	require.NoError(t, s.Continue())
	require.NoError(t, s.Set(FieldItemPrice, "10"))
	_, err := s.Calculate()
	require.NoError(t, err)

	assert.Equal(t, []StepDot{
		{StepWork, DotCompleted}, {StepItem, DotCompleted}, {StepResult, DotActive},
	}, s.Indicator())
}

func TestNewSessionStartsAtStepOne(t *testing.T) {
	state := DefaultInputState()
	state.Step = StepResult

	s := NewSession(state)

	assert.Equal(t, StepWork, s.Step())
	assert.Nil(t, s.Result)
}
