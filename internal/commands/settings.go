package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the location perimeter (managers)",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current location settings",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}
		s, err := a.settings.Show(ctx, id)
		if err != nil {
			return err
		}
		displaySettings(os.Stdout, s)
		return nil
	}),
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the location settings",
	Long: `Change the location settings. Flags that are not given keep their current value.

Examples:
  punch settings set --perimeter 0.5
  punch settings set --name "North Wing" --at 51.52,-0.1`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}
		current, err := a.settings.Show(ctx, id)
		if err != nil {
			return err
		}

		in := settings.Input{
			Perimeter:    current.Perimeter,
			LocationName: current.LocationName,
			Latitude:     current.Latitude,
			Longitude:    current.Longitude,
		}
		if cmd.Flags().Changed("perimeter") {
			in.Perimeter, _ = cmd.Flags().GetFloat64("perimeter")
		}
		if cmd.Flags().Changed("name") {
			in.LocationName, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("at") {
			at, _ := cmd.Flags().GetString("at")
			p, err := parser.ParseLocation(at)
			if err != nil {
				return err
			}
			in.Latitude, in.Longitude = p.Lat, p.Lon
		}

		updated, err := a.settings.Update(ctx, id, in)
		if err != nil {
			return err
		}
		fmt.Println("✅ Location settings updated")
		displaySettings(os.Stdout, updated)
		return nil
	}),
}

func displaySettings(w io.Writer, s *models.LocationSettings) {
	fmt.Fprintf(w, "Location:  %s\n", s.LocationName)
	fmt.Fprintf(w, "Center:    %.6f, %.6f\n", s.Latitude, s.Longitude)
	fmt.Fprintf(w, "Perimeter: %gkm\n", s.Perimeter)
}

func init() {
	settingsSetCmd.Flags().Float64("perimeter", 0, "Perimeter radius in km")
	settingsSetCmd.Flags().String("name", "", "Location name")
	settingsSetCmd.Flags().String("at", "", "Center as latitude,longitude")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
