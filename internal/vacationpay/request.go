package vacationpay

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Request holds the inputs of one calculation. Unset fields are nil.
// When both dates are set they take precedence over VacationDays.
type Request struct {
	AverageSalary *decimal.Decimal
	VacationDays  *int
	StartDate     *civil.Date
	EndDate       *civil.Date
}

func (r Request) hasDates() bool {
	return r.StartDate != nil && r.EndDate != nil
}
