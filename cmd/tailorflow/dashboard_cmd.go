package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/tailorflow/internal/application/analytics"
)

func dashboardCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show workshop and payment indicators",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := sessionApp(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s := analytics.NewDashboardUseCase(a.cache).GetSummary()

			w := newTable(a.out)
			fmt.Fprintf(w, "Active orders\t%d\n", s.ActiveOrders)
			fmt.Fprintf(w, "Urgent\t%d\n", s.UrgentOrders)
			fmt.Fprintf(w, "Completed\t%d\n", s.CompletedCount)
			fmt.Fprintf(w, "Total revenue\t%s\n", s.TotalRevenue.StringFixed(2))
			fmt.Fprintf(w, "Collected\t%s\n", s.Collected.StringFixed(2))
			fmt.Fprintf(w, "Pending collection\t%s\n", s.PendingPayment.StringFixed(2))
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "\nBy status:")
			w = newTable(a.out)
			for _, sc := range s.StatusCounts {
				fmt.Fprintf(w, "  %s\t%d\n", sc.Status, sc.Count)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "\nApproaching deadlines:")
			w = newTable(a.out)
			for _, u := range s.Upcoming {
				urgent := ""
				if u.IsUrgent {
					urgent = "URGENT"
				}
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n", u.DueDate, u.OrderID, u.CustomerName, u.GarmentType, u.Status, urgent)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "\nRevenue (weekly):")
			w = newTable(a.out)
			for _, p := range s.RevenueTrend {
				fmt.Fprintf(w, "  %s\t%s\n", p.Label, p.Revenue.StringFixed(0))
			}
			return w.Flush()
		},
	}
}
