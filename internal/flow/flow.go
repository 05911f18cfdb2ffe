// Package flow holds the calculator's input state and the three-step flow
// that decides when a calculation may run.
package flow

import (
	"errors"
	"fmt"
	"math"

	"github.com/lifeforce/internal/calc"
)

// ErrInvalidTransition is returned when a navigation action is not allowed
// from the current step.
var ErrInvalidTransition = errors.New("invalid step transition")

// Session is one user's pass through the form. The zero value is not ready;
// use NewSession.
type Session struct {
	State  InputState   `json:"state"`
	Result *calc.Result `json:"result,omitempty"`
}

// NewSession starts a session from state. The step is forced back to 1
// since there is no result yet.
func NewSession(state InputState) *Session {
	state.Step = StepWork
	return &Session{State: state}
}

// Step returns the active step
func (s *Session) Step() Step {
	return s.State.Step
}

// Set applies a single field edit
func (s *Session) Set(field Field, value string) error {
	next, err := s.State.With(field, value)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}

// SetMode switches between salary and hourly compensation
func (s *Session) SetMode(mode calc.Mode) error {
	next, err := s.State.WithMode(mode)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}

// ValidateStepOneToTwo reports whether Continue would succeed
func (s *Session) ValidateStepOneToTwo() bool {
	return calc.ValidateStepOne(s.State.Mode, s.State.Salary, s.State.HourlyRate) == nil
}

// Continue moves from the work step to the item step once the field the
// chosen mode depends on is filled in.
func (s *Session) Continue() error {
	if err := s.expect(StepWork, "continue"); err != nil {
		return err
	}
	if err := calc.ValidateStepOne(s.State.Mode, s.State.Salary, s.State.HourlyRate); err != nil {
		return err
	}
	s.State.Step = StepItem
	return nil
}

// Calculate prices the item and moves to the result step. On a validation
// failure the session stays on the item step and keeps its previous result.
func (s *Session) Calculate() (calc.Result, error) {
	if err := s.expect(StepItem, "calculate"); err != nil {
		return calc.Result{}, err
	}

	in := s.State.Numbers()

	// the engine divides by these hours without checking them
	rate := calc.DeriveTrueHourlyRate(in)
	if !(rate.TotalWeeklyHours > 0) || math.IsInf(rate.TotalWeeklyHours, 0) {
		return calc.Result{}, &calc.ValidationError{Field: string(FieldWorkHours), Message: calc.MsgNoWeeklyHours}
	}

	res, err := calc.DeriveResult(in)
	if err != nil {
		return calc.Result{}, err
	}

	s.Result = &res
	s.State.Step = StepResult
	return res, nil
}

// Back returns from the item step to the work step without clearing anything
func (s *Session) Back() error {
	if err := s.expect(StepItem, "back"); err != nil {
		return err
	}
	s.State.Step = StepWork
	return nil
}

// ChangeItem returns from the result step to the item step
func (s *Session) ChangeItem() error {
	if err := s.expect(StepResult, "change item"); err != nil {
		return err
	}
	s.State.Step = StepItem
	return nil
}

// Reset starts over for another item. Only the item fields and the result are
// cleared; the work profile is kept.
func (s *Session) Reset() error {
	if err := s.expect(StepResult, "reset"); err != nil {
		return err
	}
	s.State.ItemName = ""
	s.State.ItemPrice = ""
	s.State.Step = StepWork
	s.Result = nil
	return nil
}

func (s *Session) expect(step Step, action string) error {
	if s.State.Step != step {
		return fmt.Errorf("%w: cannot %s from step %d", ErrInvalidTransition, action, s.State.Step)
	}
	return nil
}

// DotState is how a step indicator dot is drawn
type DotState string

const (
	DotPending   DotState = "pending"
	DotActive    DotState = "active"
	DotCompleted DotState = "completed"
)

// StepDot is one dot of the step indicator
type StepDot struct {
	Step  Step
	State DotState
}

// Indicator derives the step indicator from the active step
func (s *Session) Indicator() []StepDot {
	dots := make([]StepDot, 0, 3)
	for _, step := range []Step{StepWork, StepItem, StepResult} {
		state := DotPending
		switch {
		case step == s.State.Step:
			state = DotActive
		case step < s.State.Step:
			state = DotCompleted
		}
		dots = append(dots, StepDot{Step: step, State: state})
	}
	return dots
}
