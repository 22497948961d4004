package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/report"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show your timesheet for the current week",
	Long: `Show minutes worked per day for the current week, Sunday to Saturday.
Only closed shifts are counted.

Example output:
  Day          Sun       Mon       Tue       Wed       Thu       Fri       Sat     Total
  Worked         -    7h 05m         -         -         -         -         -    7h 05m`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}
		sheet, err := a.reports.Week(ctx, id, time.Now())
		if err != nil {
			return err
		}
		if sheet.Total == 0 {
			fmt.Println("No time tracked this week.")
			return nil
		}
		displayTimesheet(os.Stdout, sheet)
		return nil
	}),
}

// displayTimesheet writes the week as a one-row table
func displayTimesheet(w io.Writer, sheet *report.WeekSheet) {
	const col = 8
	dayNames := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

	fmt.Fprintf(w, "%-6s", "Day")
	for _, name := range dayNames {
		fmt.Fprintf(w, "  %*s", col, name)
	}
	fmt.Fprintf(w, "  %*s\n", col, "Total")

	fmt.Fprint(w, strings.Repeat("-", 6))
	for range len(dayNames) + 1 {
		fmt.Fprint(w, "  "+strings.Repeat("-", col))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-6s", "Worked")
	for _, minutes := range sheet.Days {
		cell := "-"
		if minutes > 0 {
			cell = parser.FormatMinutes(minutes)
		}
		fmt.Fprintf(w, "  %*s", col, cell)
	}
	fmt.Fprintf(w, "  %*s\n", col, parser.FormatMinutes(sheet.Total))

	fmt.Fprintf(w, "\nWeek of %s to %s\n",
		sheet.Start.Format("Jan 2"),
		sheet.Start.AddDate(0, 0, 6).Format("Jan 2, 2006"))
}
