package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/export"
	"github.com/lifeforce/internal/flow"
	"github.com/lifeforce/internal/theme"
)

var wizardCmd = &cobra.Command{
	Use:     "wizard",
	Aliases: []string{"w"},
	Short:   "Walk through the calculator step by step",
	Long: `Answer a few questions about your work, then price as many purchases as you
like. Press Enter to keep the value in brackets.

At the item step type "back" to change your work details. After a result,
type "again" for a new item from scratch, "change" to edit the item, or "quit".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := profileState(cmd)
		if err != nil {
			return err
		}
		return runWizard(cmd.InOrStdin(), cmd.OutOrStdout(), state)
	},
}

// errQuit ends the wizard without an error
var errQuit = errors.New("quit")

type wizard struct {
	reader  *bufio.Reader
	out     io.Writer
	session *flow.Session
}

func runWizard(in io.Reader, out io.Writer, state flow.InputState) error {
	wz := &wizard{
		reader:  bufio.NewReader(in),
		out:     out,
		session: flow.NewSession(state),
	}

	fmt.Fprintln(out, "=== Life Force Calculator ===")
	fmt.Fprintln(out, "What does that purchase really cost?")

	for {
		var err error
		switch wz.session.Step() {
		case flow.StepWork:
			err = wz.workStep()
		case flow.StepItem:
			err = wz.itemStep()
		case flow.StepResult:
			err = wz.resultStep()
		}

		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			fmt.Fprintln(out, "Bye.")
			return nil
		case calc.IsValidationError(err), errors.Is(err, flow.ErrInvalidTransition):
			fmt.Fprintln(out, err.Error())
		default:
			return err
		}
	}
}

func (wz *wizard) workStep() error {
	s := wz.session
	fmt.Fprintf(wz.out, "\n[1/3] Your Work Reality\n")

	mode, err := wz.ask("Paid by salary or hourly", string(s.State.Mode))
	if err != nil {
		return err
	}
	if err := s.SetMode(calc.Mode(strings.ToLower(mode))); err != nil {
		fmt.Fprintln(wz.out, "Please answer salary or hourly.")
		return nil
	}

	var fields []flow.Field
	if s.State.Mode == calc.ModeHourly {
		fields = []flow.Field{flow.FieldHourlyRate}
	} else {
		fields = []flow.Field{flow.FieldSalary, flow.FieldTaxRate}
	}
	fields = append(fields, flow.FieldWorkHours, flow.FieldCommuteHours, flow.FieldPrepHours, flow.FieldAfterHours)

	for _, field := range fields {
		if err := wz.askField(field); err != nil {
			return err
		}
	}

	return s.Continue()
}

func (wz *wizard) itemStep() error {
	s := wz.session
	fmt.Fprintf(wz.out, "\n[2/3] What are you considering? (type \"back\" to go back)\n")

	name, err := wz.ask(fieldLabels[flow.FieldItemName], s.State.ItemName)
	if err != nil {
		return err
	}
	if strings.EqualFold(name, "back") {
		return s.Back()
	}
	if err := s.Set(flow.FieldItemName, name); err != nil {
		return err
	}

	if err := wz.askField(flow.FieldItemPrice); err != nil {
		return err
	}

	_, err = s.Calculate()
	return err
}

func (wz *wizard) resultStep() error {
	s := wz.session
	fmt.Fprintf(wz.out, "\n[3/3] ")

	report := export.NewReport(s.State.Numbers(), *s.Result, theme.Light)
	if err := export.Write(wz.out, export.FormatText, report); err != nil {
		return err
	}

	for {
		answer, err := wz.ask("again, change or quit", "again")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "again", "a":
			return s.Reset()
		case "change", "c":
			return s.ChangeItem()
		case "quit", "q":
			return errQuit
		}
		fmt.Fprintln(wz.out, "Please answer again, change or quit.")
	}
}

var fieldLabels = map[flow.Field]string{
	flow.FieldSalary:       "Annual salary (gross)",
	flow.FieldTaxRate:      "Estimated tax rate %",
	flow.FieldHourlyRate:   "Hourly rate (take-home)",
	flow.FieldWorkHours:    "Hours at work per week",
	flow.FieldCommuteHours: "Commute hrs/week",
	flow.FieldPrepHours:    "Getting ready hrs/week",
	flow.FieldAfterHours:   "After-hours work hrs/week",
	flow.FieldItemName:     "Item or purchase",
	flow.FieldItemPrice:    "Price",
}

func (wz *wizard) askField(field flow.Field) error {
	value, err := wz.ask(fieldLabels[field], wz.session.State.Value(field))
	if err != nil {
		return err
	}
	return wz.session.Set(field, value)
}

// ask prompts for one line. An empty answer keeps current. io.EOF is only
// returned when the input ended before anything was typed.
func (wz *wizard) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(wz.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(wz.out, "%s: ", label)
	}

	line, err := wz.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	answer := strings.TrimSpace(line)
	if err == io.EOF && answer == "" {
		return "", io.EOF
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}
