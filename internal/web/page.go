package web

import (
	"html/template"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/export"
	"github.com/lifeforce/internal/flow"
	"github.com/lifeforce/internal/theme"
)

// PageData is everything the page template reads
type PageData struct {
	Theme    theme.Theme
	Dots     []flow.StepDot
	Step     flow.Step
	State    flow.InputState
	IsHourly bool
	Result   *calc.Result
	Error    string
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"money": export.Money,
}).Parse(pageHTML))

const pageHTML = `<!doctype html>
<html data-theme="{{.Theme}}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Life Force Calculator</title>
  <style>
    :root { --bg: #f5f7fa; --card: #fff; --text: #2c3e50; --muted: #7f8c8d; --accent: #F39C12; --line: #e0e0e0; --err-bg: #ffebee; --err: #b00020; }
    [data-theme="dark"] { --bg: #141820; --card: #1e2430; --text: #ecf0f1; --muted: #95a5a6; --accent: #F5B041; --line: #34495E; --err-bg: #3b1f24; --err: #ff8a80; }
    * { box-sizing: border-box; }
    body { font-family: system-ui, sans-serif; margin: 0; padding: 24px; background: var(--bg); color: var(--text); }
    .container { max-width: 560px; margin: 0 auto; }
    header { text-align: center; margin-bottom: 16px; }
    .tagline { color: var(--muted); }
    .theme-toggle { position: fixed; top: 16px; right: 16px; }
    .theme-toggle button { background: var(--card); color: var(--text); border: 1px solid var(--line); border-radius: 50%; width: 40px; height: 40px; cursor: pointer; }
    .step-indicator { display: flex; justify-content: center; gap: 10px; margin-bottom: 20px; }
    .step-dot { width: 10px; height: 10px; border-radius: 50%; background: var(--line); }
    .step-dot.active { background: var(--accent); transform: scale(1.3); }
    .step-dot.completed { background: var(--muted); }
    .card { background: var(--card); border-radius: 10px; padding: 24px; margin-bottom: 16px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
    h2 { margin-top: 0; font-size: 1.1em; }
    .toggle-container { display: flex; gap: 8px; margin-bottom: 16px; }
    .toggle-btn { flex: 1; padding: 10px; border: 1px solid var(--line); border-radius: 6px; background: transparent; color: var(--text); cursor: pointer; }
    .toggle-btn.active { background: var(--accent); color: #fff; border-color: var(--accent); }
    .form-group { margin-bottom: 14px; }
    .form-group label { display: block; font-weight: 500; margin-bottom: 4px; }
    .form-group input { width: 100%; padding: 8px 10px; font-size: 1em; border: 1px solid var(--line); border-radius: 6px; background: var(--bg); color: var(--text); }
    .input-row { display: flex; gap: 16px; }
    .input-row .form-group { flex: 1; }
    .label-hint { color: var(--muted); font-weight: 400; font-size: 0.85em; }
    .err { color: var(--err); background: var(--err-bg); padding: 10px; border-radius: 6px; margin-bottom: 16px; }
    .btn { width: 100%; padding: 12px; font-size: 1em; border-radius: 6px; cursor: pointer; margin-top: 8px; }
    .btn-primary { background: var(--accent); color: #fff; border: none; }
    .btn-secondary { background: transparent; color: var(--text); border: 1px solid var(--line); }
    .result-card { text-align: center; }
    .item-name { font-weight: 600; }
    .life-hours { font-size: 64px; font-weight: 700; color: var(--accent); }
    .life-hours-label { color: var(--muted); margin-bottom: 20px; }
    .breakdown { text-align: left; }
    .breakdown-item { display: flex; justify-content: space-between; padding: 8px 0; border-top: 1px solid var(--line); }
    .breakdown-value { font-weight: 600; }
    .true-rate { margin-top: 20px; }
    .true-rate-label { color: var(--muted); font-size: 0.9em; }
    .true-rate-value { font-size: 1.5em; font-weight: 600; }
    .chart { width: 100%; margin-top: 16px; border-radius: 10px; }
    .quote { color: var(--muted); font-style: italic; }
  </style>
</head>
<body>
  <form class="theme-toggle" method="POST" action="/theme">
    <button type="submit" aria-label="Toggle dark mode">{{if eq .Theme "dark"}}&#9728;{{else}}&#9790;{{end}}</button>
  </form>

  <div class="container">
    <header>
      <h1>Life Force Calculator</h1>
      <p class="tagline">What does that purchase really cost?</p>
    </header>

    <div class="step-indicator">
      {{range .Dots}}<div class="step-dot {{.State}}" data-step="{{.Step}}"></div>{{end}}
    </div>

    {{if .Error}}<div class="err" role="alert">{{.Error}}</div>{{end}}

    {{if eq .Step 1}}
    <form method="POST" action="/continue" class="card">
      <h2>Your Work Reality</h2>

      <div class="toggle-container">
        <button type="submit" formaction="/mode" name="mode" value="salary" class="toggle-btn{{if not .IsHourly}} active{{end}}">Annual Salary</button>
        <button type="submit" formaction="/mode" name="mode" value="hourly" class="toggle-btn{{if .IsHourly}} active{{end}}">Hourly Rate</button>
      </div>

      {{if .IsHourly}}
      <div class="form-group">
        <label for="hourly_rate">Hourly Rate (take-home)</label>
        <input id="hourly_rate" name="hourly_rate" inputmode="decimal" placeholder="25" value="{{.State.HourlyRate}}">
      </div>
      {{else}}
      <div class="form-group">
        <label for="salary">Annual Salary (gross)</label>
        <input id="salary" name="salary" inputmode="decimal" placeholder="Enter your gross annual salary" value="{{.State.Salary}}">
      </div>
      <div class="form-group">
        <label for="tax_rate">Estimated Tax Rate <span class="label-hint">%</span></label>
        <input id="tax_rate" name="tax_rate" inputmode="decimal" placeholder="30" value="{{.State.TaxRate}}">
      </div>
      {{end}}

      <h2>Time Your Job Consumes</h2>

      <div class="form-group">
        <label for="work_hours">Hours at work per week</label>
        <input id="work_hours" name="work_hours" inputmode="decimal" placeholder="40" value="{{.State.WorkHours}}">
      </div>
      <div class="input-row">
        <div class="form-group">
          <label for="commute_hours">Commute <span class="label-hint">hrs/week</span></label>
          <input id="commute_hours" name="commute_hours" inputmode="decimal" placeholder="5" value="{{.State.CommuteHours}}">
        </div>
        <div class="form-group">
          <label for="prep_hours">Getting Ready <span class="label-hint">hrs/week</span></label>
          <input id="prep_hours" name="prep_hours" inputmode="decimal" placeholder="5" value="{{.State.PrepHours}}">
        </div>
      </div>
      <div class="form-group">
        <label for="after_hours">After-hours work <span class="label-hint">emails, calls, travel per week</span></label>
        <input id="after_hours" name="after_hours" inputmode="decimal" placeholder="2" value="{{.State.AfterHours}}">
      </div>

      <button type="submit" class="btn btn-primary">Continue</button>
    </form>
    {{end}}

    {{if eq .Step 2}}
    <form method="POST" action="/calculate" class="card">
      <h2>What are you considering?</h2>
      <div class="form-group">
        <label for="item_name">Item or purchase</label>
        <input id="item_name" name="item_name" placeholder="New headphones" value="{{.State.ItemName}}">
      </div>
      <div class="form-group">
        <label for="item_price">Price</label>
        <input id="item_price" name="item_price" inputmode="decimal" placeholder="299" value="{{.State.ItemPrice}}">
      </div>
      <button type="submit" class="btn btn-primary">Calculate Life Cost</button>
      <button type="submit" formaction="/back" class="btn btn-secondary">Back</button>
    </form>
    {{end}}

    {{if eq .Step 3}}{{with .Result}}
    <div class="card result-card">
      <p class="result-intro">To purchase <span class="item-name">{{.ItemName}}</span></p>
      <div class="life-hours">{{printf "%.1f" .LifeHours}}</div>
      <div class="life-hours-label">hours of your life</div>

      <div class="breakdown">
        <h3>That's equivalent to</h3>
        <div class="breakdown-item"><span>Work days</span><span class="breakdown-value">{{printf "%.1f" .WorkDays}}</span></div>
        <div class="breakdown-item"><span>Full work weeks</span><span class="breakdown-value">{{printf "%.2f" .WorkWeeks}}</span></div>
        <div class="breakdown-item"><span>Early mornings waking up</span><span class="breakdown-value">{{.Mornings}}</span></div>
      </div>

      <div class="true-rate">
        <div class="true-rate-label">Your true hourly rate</div>
        <div class="true-rate-value">${{money .TrueHourlyRate}}/hr</div>
      </div>

      <img class="chart" src="/chart.svg" alt="{{.Mornings}} mornings">
      <img class="chart" src="/week.svg" alt="Hours your job takes each week">

      <p class="quote">&ldquo;Every purchase is a trade. Time for things.&rdquo;</p>
    </div>
    {{end}}
    <form method="POST" action="/reset">
      <button type="submit" class="btn btn-primary">Calculate Another</button>
    </form>
    <form method="POST" action="/change-item">
      <button type="submit" class="btn btn-secondary">Change Item</button>
    </form>
    {{end}}
  </div>
</body>
</html>`
