package calendar

import "fmt"

// UpstreamDataError is returned when the calendar source is unreachable or
// answers with an empty or malformed payload for a year
type UpstreamDataError struct {
	Year   int
	Reason string
	Err    error
}

func newUpstreamError(year int, reason string, err error) *UpstreamDataError {
	return &UpstreamDataError{Year: year, Reason: reason, Err: err}
}

func (e *UpstreamDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calendar data for %d: %s: %v", e.Year, e.Reason, e.Err)
	}
	return fmt.Sprintf("calendar data for %d: %s", e.Year, e.Reason)
}

func (e *UpstreamDataError) Unwrap() error {
	return e.Err
}
