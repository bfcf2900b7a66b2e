package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/vacation-pay-calculator/internal/calendar"
	"github.com/username/vacation-pay-calculator/pkg/dateutil"
)

func calendarCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show working-day totals of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = dateutil.Today(time.Local).Year
			}

			oracle, closeStore, err := buildOracle(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			yc, err := oracle.Year(cmd.Context(), year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Year:             %d\n", yc.Year)
			fmt.Fprintf(out, "Days:             %d\n", yc.Days())
			fmt.Fprintf(out, "Working days:     %d\n", yc.WorkingDays())
			fmt.Fprintf(out, "Non-working days: %d\n", yc.Days()-yc.WorkingDays())
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Calendar year (default: current year)")

	return cmd
}

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the persisted calendar years",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored calendar years",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListYears(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "YEAR\tWORKING\tFETCHED")
			for _, r := range records {
				working := "invalid"
				if yc, err := calendar.ParseYear(r.Year, r.Days); err == nil {
					working = fmt.Sprint(yc.WorkingDays())
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", r.Year, working, r.FetchedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	})

	var year int
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Forget a stored year so it is fetched again",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteYear(cmd.Context(), year); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", year)
			return nil
		},
	}
	deleteCmd.Flags().IntVar(&year, "year", 0, "Calendar year to delete")
	_ = deleteCmd.MarkFlagRequired("year")
	cmd.AddCommand(deleteCmd)

	return cmd
}
