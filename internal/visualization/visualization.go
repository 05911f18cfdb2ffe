package visualization

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/theme"
	"github.com/lifeforce/internal/work"
)

// MaxMorningBlocks caps how many mornings are drawn one by one
const MaxMorningBlocks = 30

type palette struct {
	bgTop, bgBottom string
	title, muted    string
	block, partial  string
	grid            string
}

var palettes = map[theme.Theme]palette{
	theme.Light: {"#f5f7fa", "#e4e8ec", "#2c3e50", "#7f8c8d", "#F39C12", "#F8C471", "#E0E0E0"},
	theme.Dark:  {"#1e2430", "#141820", "#ecf0f1", "#95a5a6", "#F5B041", "#7E5109", "#34495E"},
}

type Visualizer struct {
	colors palette
}

func New(t theme.Theme) *Visualizer {
	colors, ok := palettes[t]
	if !ok {
		colors = palettes[theme.Light]
	}
	return &Visualizer{colors: colors}
}

// GenerateResultSVG draws one block per morning the purchase costs. The last
// block is lighter when it is only partly used.
func (v *Visualizer) GenerateResultSVG(result calc.Result) string {
	width := 600
	height := 300
	padding := 40
	perRow := 10
	cell := float64(width-2*padding) / float64(perRow)

	drawn := result.Mornings
	if drawn > MaxMorningBlocks {
		drawn = MaxMorningBlocks
	}

	// share of the last morning actually needed
	lastShare := result.WorkDays - math.Floor(result.WorkDays)

	var blocks strings.Builder
	for i := 0; i < drawn; i++ {
		x := float64(padding) + float64(i%perRow)*cell + 4
		y := 80 + float64(i/perRow)*cell

		color := v.colors.block
		if i == result.Mornings-1 && lastShare > 0 {
			color = v.colors.partial
		}

		blocks.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s" rx="6"/>
    `, x, y, cell-8, cell-8, color))
	}

	overflow := ""
	if result.Mornings > MaxMorningBlocks {
		overflow = fmt.Sprintf(`<text x="%d" y="%d" text-anchor="end" font-size="12" fill="%s">+%d more</text>`,
			width-padding, height-12, v.colors.muted, result.Mornings-MaxMorningBlocks)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <defs>
    <linearGradient id="bgGrad" x1="0%%" y1="0%%" x2="0%%" y2="100%%">
      <stop offset="0%%" style="stop-color:%s"/>
      <stop offset="100%%" style="stop-color:%s"/>
    </linearGradient>
  </defs>
  <rect width="%d" height="%d" fill="url(#bgGrad)" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="%s">%s</text>
  <text x="%d" y="55" text-anchor="middle" font-size="12" fill="%s">%.1f life-hours | %d %s of %.1fh</text>

  <!-- Mornings -->
  %s
  %s
</svg>`,
		width, height, width, height,
		v.colors.bgTop, v.colors.bgBottom,
		width, height,
		width/2, v.colors.title, html.EscapeString(result.ItemName),
		width/2, v.colors.muted, result.LifeHours, result.Mornings, plural(result.Mornings, "morning"), result.AvgDayLength,
		blocks.String(),
		overflow,
	)
}

// GenerateWeekSVG draws the weekly hours the job takes, one bar per block
func (v *Visualizer) GenerateWeekSVG(in calc.Input) string {
	width := 600
	height := 300
	padding := 40

	labels := []string{"Work", "Commute", "Prep", "After"}
	hours := []float64{in.WorkHours, in.CommuteHours, in.PrepHours, in.AfterHours}
	barWidth := float64(width-2*padding) / float64(len(hours))

	maxHours := 0.0
	for _, h := range hours {
		maxHours = math.Max(maxHours, h)
	}
	if maxHours <= 0 {
		maxHours = work.DefaultWeeklyWorkHours
	}

	var bars strings.Builder
	for i, h := range hours {
		barHeight := math.Max(h, 0) / maxHours * float64(height-2*padding-30)

		x := float64(padding) + float64(i)*barWidth + 10
		y := float64(height) - float64(padding) - barHeight

		bars.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s" rx="4"/>
    <text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="%s">%.1fh</text>`,
			x, y, barWidth-20, barHeight, v.colors.block,
			x+barWidth/2-10, int(y)-5, v.colors.title, h))
	}

	total := work.TotalWeeklyHours(hours...)

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <rect width="%d" height="%d" fill="%s" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="%s">Weekly Hours</text>
  <text x="%d" y="55" text-anchor="middle" font-size="12" fill="%s">Total: %.1fh/week | %.0fh/year</text>

  <!-- Bars -->
  %s

  <!-- X-axis labels -->
  %s

  <!-- Grid lines -->
  %s
</svg>`,
		width, height, width, height,
		width, height, v.colors.bgTop,
		width/2, v.colors.title,
		width/2, v.colors.muted, total, work.AnnualHours(total),
		bars.String(),
		v.generateXLabels(labels, float64(padding), barWidth, float64(height-padding)),
		v.generateGridLines(height, padding, width),
	)
}

// GenerateHTMLReport builds a standalone page for one result
func (v *Visualizer) GenerateHTMLReport(in calc.Input, result calc.Result) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Life Force - %s</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 40px; background: %s; color: %s; }
    .container { max-width: 800px; margin: 0 auto; }
    .card { background: %s; border-radius: 10px; padding: 24px; margin-bottom: 20px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
    h1 { margin-bottom: 8px; }
    h2 { font-size: 18px; margin-bottom: 16px; }
    .subtitle { color: %s; margin-bottom: 30px; }
    .stat { display: inline-block; text-align: center; padding: 20px; margin: 10px; border-radius: 8px; min-width: 120px; }
    .stat-value { font-size: 32px; font-weight: bold; color: %s; }
    .stat-label { font-size: 12px; color: %s; margin-top: 4px; }
    table { width: 100%%; border-collapse: collapse; margin-top: 16px; }
    th, td { padding: 12px; text-align: left; border-bottom: 1px solid %s; }
    th { color: %s; font-weight: 500; }
    .chart svg { max-width: 100%%; height: auto; margin-top: 16px; }
  </style>
</head>
<body>
  <div class="container">
    <h1>%s costs %.1f hours of your life</h1>
    <p class="subtitle">Generated on %s</p>

    <div class="card">
      <h2>The Cost</h2>
      <div class="stat">
        <div class="stat-value">%.2f</div>
        <div class="stat-label">True Hourly Rate</div>
      </div>
      <div class="stat">
        <div class="stat-value">%.1f</div>
        <div class="stat-label">Work Days</div>
      </div>
      <div class="stat">
        <div class="stat-value">%.2f</div>
        <div class="stat-label">Work Weeks</div>
      </div>
      <div class="stat">
        <div class="stat-value">%d</div>
        <div class="stat-label">Mornings</div>
      </div>
    </div>

    <div class="card">
      <h2>Your Week</h2>
      <table>
        <tr><th>Block</th><th>Hours</th></tr>
        %s
      </table>
      <div class="chart">%s</div>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(result.ItemName),
		v.colors.bgBottom, v.colors.title,
		v.colors.bgTop,
		v.colors.muted,
		v.colors.block,
		v.colors.muted,
		v.colors.grid,
		v.colors.muted,
		html.EscapeString(result.ItemName), result.LifeHours,
		time.Now().Format("Monday, January 2, 2006"),
		result.TrueHourlyRate,
		result.WorkDays,
		result.WorkWeeks,
		result.Mornings,
		v.formatWeekRows(in),
		inlineSVG(v.GenerateWeekSVG(in)),
	)
}

// inlineSVG drops the XML declaration so the chart can sit inside HTML
func inlineSVG(svg string) string {
	if i := strings.Index(svg, "<svg"); i > 0 {
		return svg[i:]
	}
	return svg
}

func (v *Visualizer) formatWeekRows(in calc.Input) string {
	rows := []string{
		fmt.Sprintf("<tr><td>Work</td><td>%.1f hours</td></tr>", in.WorkHours),
		fmt.Sprintf("<tr><td>Commute</td><td>%.1f hours</td></tr>", in.CommuteHours),
		fmt.Sprintf("<tr><td>Getting ready</td><td>%.1f hours</td></tr>", in.PrepHours),
		fmt.Sprintf("<tr><td>After work</td><td>%.1f hours</td></tr>", in.AfterHours),
	}
	total := work.TotalWeeklyHours(in.WorkHours, in.CommuteHours, in.PrepHours, in.AfterHours)
	rows = append(rows, fmt.Sprintf("<tr><th>Total</th><th>%.1f hours</th></tr>", total))
	return strings.Join(rows, "\n        ")
}

func (v *Visualizer) generateXLabels(labels []string, padding float64, barWidth float64, y float64) string {
	var out strings.Builder
	for i, label := range labels {
		x := padding + float64(i)*barWidth + barWidth/2
		out.WriteString(fmt.Sprintf(`<text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="%s">%s</text>`,
			x, int(y)+20, v.colors.muted, label))
	}
	return out.String()
}

func (v *Visualizer) generateGridLines(height int, padding int, width int) string {
	var lines strings.Builder
	for i := 1; i <= 4; i++ {
		y := float64(height) - float64(padding) - (float64(i)/4.0)*float64(height-2*padding-30)
		lines.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.0f" x2="%d" y2="%.0f" stroke="%s"/>`,
			padding, y, width-padding, y, v.colors.grid))
	}
	return lines.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
