// Package export renders a single calculation in the formats the CLI can
// write: plain text, JSON, CSV, Markdown, a standalone HTML report or the
// mornings chart as SVG.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/theme"
	"github.com/lifeforce/internal/visualization"
)

// Format is an output format name
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatSVG      Format = "svg"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown, FormatHTML, FormatSVG}

// ParseFormat accepts a format name, plus "md" and "txt"
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "txt":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatText, FormatJSON, FormatCSV, FormatMarkdown, FormatHTML, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (use text, json, csv, markdown, html or svg)", s)
}

// Report is everything known about one calculation
type Report struct {
	Input       calc.Input
	Rate        calc.Rate
	Result      calc.Result
	Theme       theme.Theme
	GeneratedAt time.Time
}

// NewReport derives the rate for in and pairs it with result
func NewReport(in calc.Input, result calc.Result, t theme.Theme) Report {
	return Report{
		Input:       in,
		Rate:        calc.DeriveTrueHourlyRate(in),
		Result:      result,
		Theme:       t,
		GeneratedAt: time.Now(),
	}
}

// Write renders r to w in the given format
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatText:
		return writeText(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	case FormatMarkdown:
		_, err := io.WriteString(w, markdown(r))
		return err
	case FormatHTML:
		_, err := io.WriteString(w, visualization.New(r.Theme).GenerateHTMLReport(r.Input, r.Result))
		return err
	case FormatSVG:
		_, err := io.WriteString(w, visualization.New(r.Theme).GenerateResultSVG(r.Result))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

// Money formats an amount with thousands separators and two decimals
func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func writeText(w io.Writer, r Report) error {
	res := r.Result
	_, err := fmt.Fprintf(w, `To purchase %s (%s)

  %.1f hours of your life

That's equivalent to
  Work days:                %.1f
  Full work weeks:          %.2f
  Early mornings waking up: %d

Your true hourly rate: $%s/hr
`,
		res.ItemName, Money(res.ItemPrice),
		res.LifeHours,
		res.WorkDays,
		res.WorkWeeks,
		res.Mornings,
		Money(res.TrueHourlyRate),
	)
	return err
}

func writeJSON(w io.Writer, r Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{
		"export_date": r.GeneratedAt.Format(time.RFC3339),
		"mode":        r.Input.Mode,
		"rate":        r.Rate,
		"result":      r.Result,
	})
}

func writeCSV(w io.Writer, r Report) error {
	writer := csv.NewWriter(w)

	res := r.Result
	writer.Write([]string{"Item", "Price", "True Hourly Rate", "Life Hours", "Avg Day Length", "Work Days", "Work Weeks", "Mornings"})
	writer.Write([]string{
		res.ItemName,
		fmt.Sprintf("%.2f", res.ItemPrice),
		fmt.Sprintf("%.4f", res.TrueHourlyRate),
		fmt.Sprintf("%.3f", res.LifeHours),
		fmt.Sprintf("%.2f", res.AvgDayLength),
		fmt.Sprintf("%.3f", res.WorkDays),
		fmt.Sprintf("%.4f", res.WorkWeeks),
		fmt.Sprintf("%d", res.Mornings),
	})

	writer.Flush()
	return writer.Error()
}

func markdown(r Report) string {
	var sb strings.Builder
	res := r.Result

	sb.WriteString(fmt.Sprintf("# %s\n\n", res.ItemName))
	sb.WriteString(fmt.Sprintf("**%.1f hours of your life** for a price of %s.\n\n", res.LifeHours, Money(res.ItemPrice)))

	sb.WriteString("## Cost\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Work Days | %.1f |\n", res.WorkDays))
	sb.WriteString(fmt.Sprintf("| Full Work Weeks | %.2f |\n", res.WorkWeeks))
	sb.WriteString(fmt.Sprintf("| Early Mornings | %d |\n", res.Mornings))
	sb.WriteString(fmt.Sprintf("| True Hourly Rate | %s |\n", Money(res.TrueHourlyRate)))
	sb.WriteString("\n")

	sb.WriteString("## Weekly Hours\n\n")
	sb.WriteString("| Block | Hours |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Work | %.1f |\n", r.Input.WorkHours))
	sb.WriteString(fmt.Sprintf("| Commute | %.1f |\n", r.Input.CommuteHours))
	sb.WriteString(fmt.Sprintf("| Getting ready | %.1f |\n", r.Input.PrepHours))
	sb.WriteString(fmt.Sprintf("| After work | %.1f |\n", r.Input.AfterHours))
	sb.WriteString(fmt.Sprintf("| **Total** | %.1f |\n", r.Rate.TotalWeeklyHours))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("---\n*Generated: %s*\n", r.GeneratedAt.Format("2006-01-02 15:04")))

	return sb.String()
}
