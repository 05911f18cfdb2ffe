package web

import (
	"math"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/flow"
	"github.com/lifeforce/internal/mcp/core"
)

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// CalculationMetadata describes one API calculation
type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

// CalculationResponse is the body of POST /api/calculate
type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	Rate                *calc.Rate          `json:"rate,omitempty"`
	Result              *calc.Result        `json:"result,omitempty"`
	Error               string              `json:"error,omitempty"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// handleAPICalculate runs the whole form in one request. The live session is
// not touched.
func (h *Handler) handleAPICalculate(w http.ResponseWriter, r *http.Request) {
	state := h.base
	state.ItemName = ""
	state.ItemPrice = ""
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}
	if !state.Mode.Valid() {
		state.Mode = calc.ModeSalary
	}

	resp, status := Calculate(state)

	h.logger.Debug("api calculation",
		zap.String("id", resp.CalculationMetadata.CalculationID),
		zap.String("outcome", resp.CalculationMetadata.CalculationOutcome))

	core.WriteJSON(w, status, resp)
}

// Calculate runs state through the form steps and wraps the outcome
func Calculate(state flow.InputState) (CalculationResponse, int) {
	start := time.Now()

	outcome := OutcomeSuccess
	status := http.StatusOK
	var resp CalculationResponse

	session := flow.NewSession(state)
	result, err := runSteps(session)
	if err != nil {
		outcome = OutcomeFailure
		status = http.StatusUnprocessableEntity
		resp.Error = err.Error()
	} else {
		resp.Result = &result
	}

	rate := calc.DeriveTrueHourlyRate(session.State.Numbers())
	if isFinite(rate.TrueHourlyRate) && isFinite(rate.TotalWeeklyHours) && isFinite(rate.AnnualTakeHome) {
		resp.Rate = &rate
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	resp.CalculationMetadata = CalculationMetadata{
		CalculationID:          uuid.New().String(),
		CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
		CalculationCompletedAt: now.Format(time.RFC3339),
		CalculationDurationMs:  elapsed.Milliseconds(),
		CalculationOutcome:     outcome,
	}

	return resp, status
}

func runSteps(session *flow.Session) (calc.Result, error) {
	if err := session.Continue(); err != nil {
		return calc.Result{}, err
	}
	return session.Calculate()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
