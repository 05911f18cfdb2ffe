package calc

import "errors"

// User-facing messages shown when a step cannot be completed.
const (
	MsgSalaryRequired = "Please enter your annual salary."
	MsgHourlyRequired = "Please enter your hourly rate."
	MsgInvalidNumbers = "Please fill in all required fields with valid numbers."
	MsgNoWeeklyHours  = "Please enter the hours your job takes each week."
)

// ValidationError is a user-correctable input problem. The flow stays on the
// current step and Message is shown as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is, or wraps, a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
