package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/report"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show staff statistics (managers)",
	Long: `Show hours worked and staff counts per day, the average hours per day and
the top staff by hours. Defaults to the current week through today.

Examples:
  punch dashboard
  punch dashboard --from 2026-10-01 --to 2026-10-31`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}

		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		from, to, err := parser.ParseWindow(fromStr, toStr, time.Now(), a.loc)
		if err != nil {
			return err
		}

		dash, err := a.reports.DashboardStats(ctx, id, from, to)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(dash)
		}
		displayDashboard(os.Stdout, dash, from, to)
		return nil
	}),
}

func displayDashboard(w io.Writer, d *report.Dashboard, from, to time.Time) {
	fmt.Fprintf(w, "📊 %s to %s\n\n", from.Format(parser.IsoDate), to.Format(parser.IsoDate))
	fmt.Fprintf(w, "Clocked in now:   %d of %d\n", d.ClockedInCount, d.TotalStaff)
	fmt.Fprintf(w, "Avg hours / day:  %.2f\n", d.AvgHoursPerDay)

	if len(d.HoursByDay) == 0 {
		fmt.Fprintln(w, "\nNo closed shifts in this window.")
		return
	}

	fmt.Fprintf(w, "\n%-10s %8s %6s\n", "DATE", "HOURS", "STAFF")
	for i, day := range d.HoursByDay {
		fmt.Fprintf(w, "%-10s %8.2f %6d\n", day.Date, day.Hours, d.StaffCountByDay[i].Count)
	}

	fmt.Fprintf(w, "\n%-4s %-30s %8s\n", "#", "NAME", "HOURS")
	for i, s := range d.TopStaffByHours {
		fmt.Fprintf(w, "%-4d %-30s %8.2f\n", i+1, truncate(s.Name, 30), s.Hours)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	dashboardCmd.Flags().String("from", "", "First day (default: start of this week)")
	dashboardCmd.Flags().String("to", "", "Last day (default: today)")
	dashboardCmd.Flags().Bool("json", false, "JSON output")
}
