package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/flow"
)

// callTool posts a tools/call request and returns the decoded text content,
// or the error string when the call failed.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) string {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"method": "tools/call",
		"params": map[string]interface{}{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if resp.Error != "" {
		return resp.Error
	}

	require.Len(t, resp.Result.Content, 1)
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Content[0].Text), out))
	return ""
}

func newTestServer() *Server {
	return NewServer(0, nil, 0, flow.DefaultInputState(), nil)
}

func TestDeriveResultHourly(t *testing.T) {
	var result calc.Result
	errText := callTool(t, newTestServer(), "derive_result", map[string]interface{}{
		"mode":        "hourly",
		"hourly_rate": 25,
		"item_name":   "Concert ticket",
		"item_price":  "100",
	}, &result)

	require.Empty(t, errText)
	assert.Equal(t, "Concert ticket", result.ItemName)
	assert.InDelta(t, 25.0, result.TrueHourlyRate, 1e-9)
	assert.InDelta(t, 4.0, result.LifeHours, 1e-9)
	assert.InDelta(t, 8.0, result.AvgDayLength, 1e-9)
	assert.InDelta(t, 0.5, result.WorkDays, 1e-9)
	assert.InDelta(t, 0.1, result.WorkWeeks, 1e-9)
	assert.Equal(t, 1, result.Mornings)
}

func TestDeriveResultValidation(t *testing.T) {
	s := newTestServer()
	var result calc.Result

	assert.Equal(t, calc.MsgSalaryRequired,
		callTool(t, s, "derive_result", map[string]interface{}{"item_price": "10"}, &result))

	assert.Equal(t, calc.MsgInvalidNumbers,
		callTool(t, s, "derive_result", map[string]interface{}{"salary": "50000"}, &result))

	assert.Contains(t,
		callTool(t, s, "derive_result", map[string]interface{}{"mode": "weekly"}, &result),
		"unknown compensation mode")
}

func TestDeriveTrueHourlyRateUsesBaseProfile(t *testing.T) {
	base := flow.DefaultInputState()
	base.Salary = "80000"
	base.TaxRate = "30"
	base.CommuteHours = "5"
	base.PrepHours = "5"
	base.AfterHours = "2"
	s := NewServer(0, nil, 0, base, nil)

	var rate calc.Rate
	require.Empty(t, callTool(t, s, "derive_true_hourly_rate", map[string]interface{}{}, &rate))

	assert.InDelta(t, 52.0, rate.TotalWeeklyHours, 1e-9)
	assert.InDelta(t, 2704.0, rate.AnnualLifeHours, 1e-9)
	assert.InDelta(t, 56000.0, rate.AnnualTakeHome, 1e-9)
	assert.InDelta(t, 20.7101, rate.TrueHourlyRate, 1e-4)

	// non-numeric tax is read as no tax
	require.Empty(t, callTool(t, s, "derive_true_hourly_rate", map[string]interface{}{"tax_rate": "lots"}, &rate))
	assert.InDelta(t, 80000.0, rate.AnnualTakeHome, 1e-9)
}

func TestValidateStepOne(t *testing.T) {
	s := newTestServer()

	var out struct {
		Valid   bool   `json:"valid"`
		Message string `json:"message"`
	}
	require.Empty(t, callTool(t, s, "validate_step_one", map[string]interface{}{"mode": "hourly"}, &out))
	assert.False(t, out.Valid)
	assert.Equal(t, calc.MsgHourlyRequired, out.Message)

	out.Message = ""
	require.Empty(t, callTool(t, s, "validate_step_one", map[string]interface{}{"salary": "abc"}, &out))
	assert.True(t, out.Valid)
	assert.Empty(t, out.Message)
}

func TestToolsRegistered(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"method":"tools/list"}`)))

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"derive_result", "derive_true_hourly_rate", "validate_step_one"}, names)
}

func TestUIMountedAtRoot(t *testing.T) {
	ui := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("form"))
	})
	s := NewServer(0, nil, 0, flow.DefaultInputState(), ui)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "form", rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
