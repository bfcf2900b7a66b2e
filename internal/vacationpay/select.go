package vacationpay

// Select validates req and returns the matching strategy.
//
// Validation order:
//  1. average salary present and positive
//  2. both dates present: end not before start, oracle present -> date range
//  3. day count present: positive -> fixed days
//  4. otherwise the request is insufficient
//
// A lone start or end date counts as no dates at all.
func Select(req Request, oracle WorkingDayOracle) (Strategy, error) {
	if req.AverageSalary == nil {
		return Strategy{}, invalidInput("average salary is required")
	}
	if !req.AverageSalary.IsPositive() {
		return Strategy{}, invalidInput("average salary must be positive")
	}
	salary := *req.AverageSalary

	if req.hasDates() {
		start, end := *req.StartDate, *req.EndDate
		if !start.IsValid() || !end.IsValid() {
			return Strategy{}, invalidInput("invalid vacation date")
		}
		if end.Before(start) {
			return Strategy{}, invalidInput("end date before start date")
		}
		if oracle == nil {
			return Strategy{}, &ConfigurationError{Reason: "oracle not initialized"}
		}
		return Strategy{
			Kind:          KindDateRange,
			AverageSalary: salary,
			StartDate:     start,
			EndDate:       end,
			oracle:        oracle,
		}, nil
	}

	if req.VacationDays != nil {
		if *req.VacationDays <= 0 {
			return Strategy{}, invalidInput("vacation days must be positive")
		}
		return Strategy{
			Kind:          KindFixedDays,
			AverageSalary: salary,
			VacationDays:  *req.VacationDays,
		}, nil
	}

	return Strategy{}, invalidInput("insufficient data for calculation")
}
