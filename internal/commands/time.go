package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/clock"
	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/tui"
)

var inCmd = &cobra.Command{
	Use:   "in",
	Short: "Clock in at a location",
	Long: `Clock in at the given location. Opens the live shift view by default, use --no-ui for a simple clock-in.

Examples:
  punch in --at 51.505,-0.09
  punch in --at "51.505 -0.09" --note "covering ward 4" --no-ui`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}
		in, err := clockInput(cmd)
		if err != nil {
			return err
		}

		res, err := a.clock.ClockIn(ctx, id, in)
		if errors.Is(err, clock.ErrAlreadyClockedIn) {
			fmt.Printf("⚠️  %s\n", res.Message)
			return nil
		}
		if err != nil {
			return err
		}
		if !res.Success {
			fmt.Printf("🚫 %s\n", res.Message)
			return nil
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("⏱️  %s\n", res.Message)
			fmt.Printf("Started at: %s\n", res.Pair.ClockIn.Time.In(a.loc).Format("15:04:05"))
			return nil
		}

		week, err := a.reports.WeeklyTotal(ctx, id.WorkerID, time.Now())
		if err != nil {
			return err
		}
		view := tui.ShiftView{
			Worker:      id.Subject,
			Started:     res.Pair.ClockIn.Time,
			Location:    describe(res.Pair.ClockIn.Location),
			WeekMinutes: week,
		}
		return tui.RunShiftTUI(view, func(note string) error {
			out := in
			out.Note = note
			return clockOut(cmd, a, out)
		})
	}),
}

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Clock out of the current shift",
	Long: `Clock out of the current shift. Clocking out is allowed from anywhere.

Examples:
  punch out --at 51.505,-0.09
  punch out --at 51.505,-0.09 --note "handover done"`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		in, err := clockInput(cmd)
		if err != nil {
			return err
		}
		return clockOut(cmd, a, in)
	}),
}

func clockOut(cmd *cobra.Command, a *app, in clock.Input) error {
	ctx := cmd.Context()
	id, err := a.identity(ctx)
	if err != nil {
		return err
	}

	res, err := a.clock.ClockOut(ctx, id, in)
	if errors.Is(err, clock.ErrNotClockedIn) {
		fmt.Printf("⚠️  %s\n", res.Message)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("⏹️  %s\n", res.Message)
	fmt.Printf("Shift duration: %s\n", parser.FormatMinutes(res.Pair.Duration))
	if res.Pair.ClockSkew {
		fmt.Println("⚠️  Clock-out was recorded before clock-in; duration set to 0.")
	}
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your clock status",
	Long: `Show whether you are clocked in. When a shift is running the live shift view opens, use --no-ui for text output.`,
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}

		st, err := a.clock.Status(ctx, id)
		if err != nil {
			return err
		}
		week, err := a.reports.WeeklyTotal(ctx, id.WorkerID, time.Now())
		if err != nil {
			return err
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if st.ClockedIn && !noUI {
			view := tui.ShiftView{
				Worker:      id.Subject,
				Started:     st.LastClockIn.Time,
				Location:    describe(st.LastClockIn.Location),
				WeekMinutes: week,
			}
			return tui.RunShiftTUI(view, func(note string) error {
				return clockOut(cmd, a, clock.Input{
					Latitude:  st.LastClockIn.Location.Latitude,
					Longitude: st.LastClockIn.Location.Longitude,
					Note:      note,
				})
			})
		}

		if st.ClockedIn {
			started := st.LastClockIn.Time
			fmt.Printf("⏱️  Clocked in since %s\n", started.In(a.loc).Format("Mon 15:04:05"))
			fmt.Printf("Elapsed time: %s\n", parser.FormatMinutes(int(time.Since(started).Minutes())))
		} else {
			fmt.Println("Not clocked in")
			if st.LastClockIn != nil {
				fmt.Printf("Last shift: %s on %s\n", parser.FormatMinutes(st.LastShiftDuration), st.LastClockIn.Time.In(a.loc).Format("Mon Jan 02"))
			}
		}
		fmt.Printf("This week: %s\n", parser.FormatMinutes(week))
		return nil
	}),
}

// clockInput reads --at, --note and --address
func clockInput(cmd *cobra.Command) (clock.Input, error) {
	at, _ := cmd.Flags().GetString("at")
	point, err := parser.ParseLocation(at)
	if err != nil {
		return clock.Input{}, err
	}
	note, _ := cmd.Flags().GetString("note")
	address, _ := cmd.Flags().GetString("address")
	return clock.Input{Latitude: point.Lat, Longitude: point.Lon, Note: note, Address: address}, nil
}

func describe(loc models.Location) string {
	if loc.Address != nil {
		return *loc.Address
	}
	return fmt.Sprintf("%.5f, %.5f", loc.Latitude, loc.Longitude)
}

func init() {
	for _, c := range []*cobra.Command{inCmd, outCmd} {
		c.Flags().String("at", "", "Location as latitude,longitude")
		c.Flags().String("note", "", "Note stored with the clock event")
		c.Flags().String("address", "", "Human readable address stored with the clock event")
		_ = c.MarkFlagRequired("at")
	}
	inCmd.Flags().Bool("no-ui", false, "Clock in without the live shift view")
	statusCmd.Flags().Bool("no-ui", false, "Text output only")
}
