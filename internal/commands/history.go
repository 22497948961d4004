package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your shifts",
	Long: `List your shifts, newest first.

Examples:
  punch history
  punch history --from "2 weeks ago"
  punch history --from 2026-10-01 --to 2026-10-07 --json`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}

		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		from, err := parser.ParseDate(fromStr, time.Now(), a.loc)
		if err != nil {
			return fmt.Errorf("from: %w", err)
		}
		to, err := parser.ParseDate(toStr, time.Now(), a.loc)
		if err != nil {
			return fmt.Errorf("to: %w", err)
		}

		pairs, err := a.reports.WorkerHistory(ctx, id, from, to)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pairs)
		}
		if len(pairs) == 0 {
			fmt.Println("No shifts found.")
			return nil
		}
		displayPairs(os.Stdout, pairs, a.loc)
		return nil
	}),
}

// displayPairs writes one line per shift
func displayPairs(w io.Writer, pairs []models.ClockPair, loc *time.Location) {
	fmt.Fprintf(w, "%-10s %-6s %-6s %-8s %s\n", "DATE", "IN", "OUT", "WORKED", "NOTE")
	for _, p := range pairs {
		in := p.ClockIn.Time.In(loc)
		out, worked := "-", "running"
		note := ""
		if p.ClockIn.Note != nil {
			note = *p.ClockIn.Note
		}
		if p.ClockOut != nil {
			out = p.ClockOut.Time.In(loc).Format("15:04")
			worked = parser.FormatMinutes(p.Duration)
			if p.ClockSkew {
				worked += "*"
			}
			if p.ClockOut.Note != nil {
				note = *p.ClockOut.Note
			}
		}
		fmt.Fprintf(w, "%-10s %-6s %-6s %-8s %s\n", in.Format(parser.IsoDate), in.Format("15:04"), out, worked, note)
	}
}

func init() {
	historyCmd.Flags().String("from", "", "First day to include (yyyy-mm-dd, dd/mm/yyyy, today, X days ago)")
	historyCmd.Flags().String("to", "", "Last day to include")
	historyCmd.Flags().Bool("json", false, "JSON output")
}
