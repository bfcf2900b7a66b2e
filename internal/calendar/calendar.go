package calendar

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const (
	codeWorkday    = '0'
	codeNonWorking = '1'
)

// Source returns the working-day string for a whole year.
// One character per calendar day starting January 1:
// '0' = working day, any other digit = non-working day
type Source interface {
	FetchYear(ctx context.Context, year int) (string, error)
}

// YearCalendar is the parsed working-day mapping of a single year
type YearCalendar struct {
	Year      int
	FetchedAt time.Time
	days      []bool
}

// DaysIn returns the number of calendar days in the given year
func DaysIn(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

// ParseYear parses a year string as returned by a Source.
// Empty input, a length different from the number of days in the year
// and non-digit characters are rejected with *UpstreamDataError.
func ParseYear(year int, data string) (*YearCalendar, error) {
	if data == "" {
		return nil, newUpstreamError(year, "empty response", nil)
	}

	daysInYear := DaysIn(year)
	if len(data) != daysInYear {
		return nil, newUpstreamError(year,
			fmt.Sprintf("data length mismatch: expected %d, got %d", daysInYear, len(data)), nil)
	}

	days := make([]bool, daysInYear)
	for i := 0; i < len(data); i++ {
		code := data[i]
		if code < '0' || code > '9' {
			return nil, newUpstreamError(year,
				fmt.Sprintf("unknown code '%c' at position %d", code, i), nil)
		}
		days[i] = code == codeWorkday
	}

	return &YearCalendar{Year: year, days: days}, nil
}

// IsWorkingDay reports whether date is a working day.
// Dates outside the calendar's year are never working days.
func (yc *YearCalendar) IsWorkingDay(date civil.Date) bool {
	if date.Year != yc.Year || !date.IsValid() {
		return false
	}
	return yc.days[dayIndex(date)]
}

// Days returns the number of days in the calendar
func (yc *YearCalendar) Days() int {
	return len(yc.days)
}

// WorkingDays returns the number of working days in the calendar
func (yc *YearCalendar) WorkingDays() int {
	n := 0
	for _, working := range yc.days {
		if working {
			n++
		}
	}
	return n
}

// encodeYear builds a Source string from a per-day predicate
func encodeYear(year int, isWorkday func(civil.Date) bool) string {
	buf := make([]byte, 0, DaysIn(year))
	for d := (civil.Date{Year: year, Month: time.January, Day: 1}); d.Year == year; d = d.AddDays(1) {
		if isWorkday(d) {
			buf = append(buf, codeWorkday)
		} else {
			buf = append(buf, codeNonWorking)
		}
	}
	return string(buf)
}

func dayIndex(date civil.Date) int {
	return date.In(time.UTC).YearDay() - 1
}
