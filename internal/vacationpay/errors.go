package vacationpay

// InvalidInputError is returned when caller-supplied data violates a
// precondition. It is always detected before any calendar lookup.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// ConfigurationError signals a wiring defect, such as a missing
// working-day oracle for a date-range calculation
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func invalidInput(reason string) error {
	return &InvalidInputError{Reason: reason}
}
