package dateutil

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// ParseISODate parses a strict YYYY-MM-DD date
func ParseISODate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (civil.Date, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return civil.DateOf(t), nil
		}
	}

	return civil.Date{}, fmt.Errorf("invalid date %q", dateStr)
}

// Today returns today's date in the given location
func Today(loc *time.Location) civil.Date {
	return civil.DateOf(time.Now().In(loc))
}

// YearsBetween returns every calendar year touched by [from, to]
func YearsBetween(from, to civil.Date) []int {
	if to.Before(from) {
		return nil
	}
	years := make([]int, 0, to.Year-from.Year+1)
	for y := from.Year; y <= to.Year; y++ {
		years = append(years, y)
	}
	return years
}
