package vacationpay

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// AverageMonthDays is the statutory average number of days per month
// used to derive a daily rate from a monthly salary
var AverageMonthDays = decimal.RequireFromString("29.3")

// WorkingDayOracle tells whether a calendar date is a working day
type WorkingDayOracle interface {
	IsWorkingDay(ctx context.Context, date civil.Date) (bool, error)
}

// Kind identifies a calculation strategy
type Kind int

const (
	KindFixedDays Kind = iota + 1
	KindDateRange
)

func (k Kind) String() string {
	switch k {
	case KindFixedDays:
		return "fixed_days"
	case KindDateRange:
		return "date_range"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Strategy is a validated calculation, one of a closed set of kinds.
// Only the fields of its Kind are meaningful.
type Strategy struct {
	Kind          Kind
	AverageSalary decimal.Decimal

	// KindFixedDays
	VacationDays int

	// KindDateRange
	StartDate civil.Date
	EndDate   civil.Date
	oracle    WorkingDayOracle
}

// Compute returns the vacation pay rounded to two decimal places
func (s Strategy) Compute(ctx context.Context) (decimal.Decimal, error) {
	switch s.Kind {
	case KindFixedDays:
		return payFor(s.AverageSalary, s.VacationDays), nil
	case KindDateRange:
		days, err := s.countWorkingDays(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return payFor(s.AverageSalary, days), nil
	default:
		return decimal.Zero, &ConfigurationError{Reason: fmt.Sprintf("unknown strategy %s", s.Kind)}
	}
}

// countWorkingDays walks [StartDate, EndDate] inclusive
func (s Strategy) countWorkingDays(ctx context.Context) (int, error) {
	if s.oracle == nil {
		return 0, &ConfigurationError{Reason: "oracle not initialized"}
	}

	workingDays := 0
	for d := s.StartDate; !d.After(s.EndDate); d = d.AddDays(1) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		working, err := s.oracle.IsWorkingDay(ctx, d)
		if err != nil {
			return 0, err
		}
		if working {
			workingDays++
		}
	}
	return workingDays, nil
}

// payFor = round2(salary * days / 29.3)
func payFor(averageSalary decimal.Decimal, days int) decimal.Decimal {
	return averageSalary.
		Mul(decimal.NewFromInt(int64(days))).
		Div(AverageMonthDays).
		Round(2)
}
