package calendar

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rickar/cal/v2"
)

// Fixed-date public holidays of the Russian production calendar.
// Weekend transfers announced each year are not modelled here.
var russianHolidays = []*cal.Holiday{
	fixedHoliday("New Year holidays", time.January, 1),
	fixedHoliday("New Year holidays", time.January, 2),
	fixedHoliday("New Year holidays", time.January, 3),
	fixedHoliday("New Year holidays", time.January, 4),
	fixedHoliday("New Year holidays", time.January, 5),
	fixedHoliday("New Year holidays", time.January, 6),
	fixedHoliday("Orthodox Christmas", time.January, 7),
	fixedHoliday("New Year holidays", time.January, 8),
	fixedHoliday("Defender of the Fatherland Day", time.February, 23),
	fixedHoliday("International Women's Day", time.March, 8),
	fixedHoliday("Spring and Labour Day", time.May, 1),
	fixedHoliday("Victory Day", time.May, 9),
	fixedHoliday("Russia Day", time.June, 12),
	fixedHoliday("Unity Day", time.November, 4),
}

func fixedHoliday(name string, month time.Month, day int) *cal.Holiday {
	return &cal.Holiday{
		Name:  name,
		Type:  cal.ObservancePublic,
		Month: month,
		Day:   day,
		Func:  cal.CalcDayOfMonth,
	}
}

// BusinessCalendarSource implements Source offline: Saturday and Sunday
// plus fixed public holidays are non-working days
type BusinessCalendarSource struct {
	calendar *cal.BusinessCalendar
}

// NewBusinessCalendarSource creates a source with the Russian fixed
// holidays and any extra holidays given
func NewBusinessCalendarSource(extra ...*cal.Holiday) *BusinessCalendarSource {
	calendar := cal.NewBusinessCalendar()
	calendar.AddHoliday(russianHolidays...)
	calendar.AddHoliday(extra...)
	return &BusinessCalendarSource{calendar: calendar}
}

// FetchYear builds the year string locally
func (s *BusinessCalendarSource) FetchYear(ctx context.Context, year int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return encodeYear(year, func(d civil.Date) bool {
		return s.calendar.IsWorkday(d.In(time.UTC))
	}), nil
}
