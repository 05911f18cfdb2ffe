package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/config"
	"github.com/lifeforce/internal/export"
	"github.com/lifeforce/internal/flow"
	"github.com/lifeforce/internal/theme"
)

// profileFlags maps each shared flag to the field it fills
var profileFlags = []struct {
	name  string
	field flow.Field
	usage string
}{
	{"salary", flow.FieldSalary, "Annual salary before tax"},
	{"tax", flow.FieldTaxRate, "Estimated tax rate in percent"},
	{"hourly", flow.FieldHourlyRate, "Hourly pay (take-home)"},
	{"work", flow.FieldWorkHours, "Hours at work per week"},
	{"commute", flow.FieldCommuteHours, "Commute hours per week"},
	{"prep", flow.FieldPrepHours, "Hours per week getting ready for work"},
	{"after", flow.FieldAfterHours, "After-hours work per week (emails, calls, travel)"},
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("mode", "m", "", "Compensation mode: salary or hourly")
	for _, f := range profileFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// profileState starts from the configured profile and applies every profile
// flag the user set.
func profileState(cmd *cobra.Command) (flow.InputState, error) {
	state := cfg.InputState()

	if cmd.Flags().Changed("mode") {
		mode, _ := cmd.Flags().GetString("mode")
		next, err := state.WithMode(calc.Mode(strings.ToLower(mode)))
		if err != nil {
			return state, err
		}
		state = next
	}

	for _, f := range profileFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, _ := cmd.Flags().GetString(f.name)
		next, err := state.With(f.field, value)
		if err != nil {
			return state, err
		}
		state = next
	}

	return state, nil
}

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Show your true hourly rate",
	Long: `Divide your take-home pay by every hour your job consumes in a year:
time at work, commuting, getting ready and after-hours work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := profileState(cmd)
		if err != nil {
			return err
		}

		session := flow.NewSession(state)
		if err := session.Continue(); err != nil {
			return err
		}

		rate := calc.DeriveTrueHourlyRate(state.Numbers())
		if !(rate.TotalWeeklyHours > 0) || math.IsInf(rate.TotalWeeklyHours, 0) {
			return &calc.ValidationError{Field: string(flow.FieldWorkHours), Message: calc.MsgNoWeeklyHours}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "True hourly rate: $%s/hr\n", export.Money(rate.TrueHourlyRate))
		fmt.Fprintf(out, "Take-home: $%s/year | Weekly: %.1fh (work %.1fh) | Yearly: %sh\n",
			export.Money(rate.AnnualTakeHome), rate.TotalWeeklyHours, rate.WorkHours,
			humanize.Comma(int64(math.Round(rate.AnnualLifeHours))))
		return nil
	},
}

var calcCmd = &cobra.Command{
	Use:   "calc [item] <price>",
	Short: "Price a purchase in hours of your life",
	Long: `Run the whole calculation once. The last argument is the price; anything
before it is the item name.

Examples:
  lifeforce calc 299
  lifeforce calc new headphones 299 --salary 80000 --tax 30
  lifeforce calc bike 1200 --mode hourly --hourly 25 -f markdown -o bike.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		state, err := profileState(cmd)
		if err != nil {
			return err
		}
		state.ItemName, state.ItemPrice = splitItemArgs(args)

		session := flow.NewSession(state)
		if err := session.Continue(); err != nil {
			return err
		}
		result, err := session.Calculate()
		if err != nil {
			return err
		}

		logger.Debug("calculated", zap.String("item", result.ItemName), zap.Float64("life_hours", result.LifeHours))

		var w io.Writer = cmd.OutOrStdout()
		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		report := export.NewReport(session.State.Numbers(), result, theme.Resolve(cfg.Theme, false))
		if err := export.Write(w, format, report); err != nil {
			return err
		}

		if outputPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", format, outputPath)
		}
		return nil
	},
}

// splitItemArgs takes the last argument as the price and joins the rest into
// the item name.
func splitItemArgs(args []string) (name, price string) {
	if len(args) == 0 {
		return "", ""
	}
	return strings.Join(args[:len(args)-1], " "), args[len(args)-1]
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after the config file, .env and environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config: %s\n", config.Path())
		fmt.Fprintf(out, "Server: port=%d | DB=%s | log=%s | rate limit=%d/min\n",
			cfg.Port, cfg.DatabasePath, cfg.LogLevel, cfg.RateLimitPerMin)

		themeName := cfg.Theme
		if themeName == "" {
			themeName = "system"
		}
		fmt.Fprintf(out, "Theme: %s\n", themeName)

		p := cfg.Profile
		fmt.Fprintf(out, "Profile: mode=%s | salary=%q tax=%q hourly=%q\n", p.Mode, p.Salary, p.TaxRate, p.HourlyRate)
		fmt.Fprintf(out, "Week: work=%q commute=%q prep=%q after=%q\n", p.WorkHours, p.CommuteHours, p.PrepHours, p.AfterHours)
		return nil
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Save your work profile and server settings",
	Long: `Save the profile flags, port, theme and log level to the config file so
later commands and the web form start from them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := profileState(cmd)
		if err != nil {
			return err
		}

		cfg.Profile = config.Profile{
			Mode:         state.Mode,
			Salary:       state.Salary,
			TaxRate:      state.TaxRate,
			HourlyRate:   state.HourlyRate,
			WorkHours:    state.WorkHours,
			CommuteHours: state.CommuteHours,
			PrepHours:    state.PrepHours,
			AfterHours:   state.AfterHours,
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("theme") {
			cfg.Theme, _ = cmd.Flags().GetString("theme")
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration updated:\n")
		fmt.Fprintf(out, "  Mode: %s\n", cfg.Profile.Mode)
		fmt.Fprintf(out, "  Weekly hours: work %s, commute %s, prep %s, after %s\n",
			cfg.Profile.WorkHours, cfg.Profile.CommuteHours, cfg.Profile.PrepHours, cfg.Profile.AfterHours)
		fmt.Fprintf(out, "  Port: %d\n", cfg.Port)
		fmt.Fprintf(out, "  Saved to: %s\n", config.Path())
		return nil
	},
}

func init() {
	addProfileFlags(rateCmd)
	addProfileFlags(calcCmd)
	addProfileFlags(wizardCmd)
	addProfileFlags(serveCmd)
	addProfileFlags(setupCmd)

	calcCmd.Flags().StringP("format", "f", "text", "Output format: text, json, csv, markdown, html, svg")
	calcCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")

	setupCmd.Flags().Int("port", 0, "Port for serve")
	setupCmd.Flags().String("theme", "", "Theme: light or dark (empty follows the browser)")
}
