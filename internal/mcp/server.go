package mcp

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/flow"
	"github.com/lifeforce/internal/mcp/core"
)

// Server wraps the core server with the calculator tools
type Server struct {
	*core.Server
	base flow.InputState
}

// NewServer creates the server. base prefills any field a tool call leaves
// out; ui, when set, is served at "/".
func NewServer(port int, logger *zap.Logger, rateLimitPerMin int, base flow.InputState, ui http.Handler) *Server {
	server := &Server{
		Server: core.NewServer(port, logger, rateLimitPerMin),
		base:   base,
	}

	server.registerTools()
	if ui != nil {
		server.Mount("/", ui)
	}
	return server
}

func profileParams(extra map[string]map[string]interface{}) map[string]map[string]interface{} {
	fields := map[string]map[string]interface{}{
		"mode":          core.StringParam("Compensation mode", []string{string(calc.ModeSalary), string(calc.ModeHourly)}),
		"salary":        core.StringParam("Annual salary before tax", nil),
		"tax_rate":      core.StringParam("Tax rate in percent", nil),
		"hourly_rate":   core.StringParam("Hourly pay", nil),
		"work_hours":    core.StringParam("Weekly hours at work (default 40)", nil),
		"commute_hours": core.StringParam("Weekly commute hours", nil),
		"prep_hours":    core.StringParam("Weekly hours getting ready for work", nil),
		"after_hours":   core.StringParam("Weekly hours of work outside work", nil),
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

func (s *Server) registerTools() {
	// RATE - what an hour of life is actually paid
	s.AddHandler(
		"derive_true_hourly_rate",
		"Compute take-home pay divided by every hour the job consumes",
		core.ToolParameters(profileParams(nil)),
		func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			state, err := s.stateFromArgs(args)
			if err != nil {
				return nil, err
			}
			return calc.DeriveTrueHourlyRate(state.Numbers()), nil
		},
	)

	// RESULT - price an item in life-hours
	s.AddHandler(
		"derive_result",
		"Price an item in hours of working life, work days, work weeks and mornings",
		core.ToolParameters(profileParams(map[string]map[string]interface{}{
			"item_name":  core.StringParam("What is being bought", nil),
			"item_price": core.StringParam("Price of the item", nil),
		}), "item_price"),
		func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			state, err := s.stateFromArgs(args)
			if err != nil {
				return nil, err
			}

			session := flow.NewSession(state)
			if err := session.Continue(); err != nil {
				return nil, err
			}
			return session.Calculate()
		},
	)

	// VALIDATE - would the first step let the user continue
	s.AddHandler(
		"validate_step_one",
		"Check whether the compensation field for the chosen mode is filled in",
		core.ToolParameters(profileParams(nil)),
		func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			state, err := s.stateFromArgs(args)
			if err != nil {
				return nil, err
			}

			result := map[string]interface{}{"valid": true}
			if err := calc.ValidateStepOne(state.Mode, state.Salary, state.HourlyRate); err != nil {
				result["valid"] = false
				result["message"] = err.Error()
			}
			return result, nil
		},
	)
}

// stateFromArgs applies every argument present in args on top of the base
// profile. Numbers are accepted as JSON numbers or as text.
func (s *Server) stateFromArgs(args map[string]interface{}) (flow.InputState, error) {
	state := s.base
	state.ItemName = ""
	state.ItemPrice = ""

	if mode, ok := argString(args, "mode"); ok {
		next, err := state.WithMode(calc.Mode(mode))
		if err != nil {
			return state, err
		}
		state = next
	}

	for _, field := range flow.Fields {
		value, ok := argString(args, string(field))
		if !ok {
			continue
		}
		next, err := state.With(field, value)
		if err != nil {
			return state, err
		}
		state = next
	}

	return state, nil
}

func argString(args map[string]interface{}, key string) (string, bool) {
	switch v := args[key].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}
