package main

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/username/vacation-pay-calculator/internal/vacationpay"
	"github.com/username/vacation-pay-calculator/pkg/dateutil"
)

func calcCmd() *cobra.Command {
	var salary, start, end string
	var days int

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate vacation pay",
		Example: `  vacation-pay calc --salary 60000 --days 10
  vacation-pay calc --salary 100000 --start 2025-04-14 --end 2025-04-20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req vacationpay.Request

			if salary != "" {
				s, err := decimal.NewFromString(salary)
				if err != nil {
					return fmt.Errorf("invalid --salary %q: %w", salary, err)
				}
				req.AverageSalary = &s
			}
			if cmd.Flags().Changed("days") {
				req.VacationDays = &days
			}
			// A lone date is still validated; Select then ignores it
			for _, f := range []struct {
				name  string
				value string
				dst   **civil.Date
			}{
				{"start", start, &req.StartDate},
				{"end", end, &req.EndDate},
			} {
				if f.value == "" {
					continue
				}
				d, err := dateutil.ParseDate(f.value)
				if err != nil {
					return fmt.Errorf("invalid --%s: %w", f.name, err)
				}
				*f.dst = &d
			}

			oracle, closeStore, err := buildOracle(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			amount, err := vacationpay.NewCalculator(oracle, logger).Calculate(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), amount.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&salary, "salary", "", "Average monthly salary")
	cmd.Flags().IntVar(&days, "days", 0, "Number of vacation days")
	cmd.Flags().StringVar(&start, "start", "", "First vacation day (YYYY-MM-DD or DD.MM.YYYY)")
	cmd.Flags().StringVar(&end, "end", "", "Last vacation day (YYYY-MM-DD or DD.MM.YYYY)")

	return cmd
}
