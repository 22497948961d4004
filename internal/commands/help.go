package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show comprehensive help for punch",
	Long:  `Display detailed help for all punch commands and flags, or the help of one command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			target, _, err := rootCmd.Find(args)
			if err != nil || target == rootCmd {
				return fmt.Errorf("unknown help topic %q", args)
			}
			return target.Help()
		}
		showCustomHelp(os.Stdout)
		return nil
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
██████╗ ██╗   ██╗███╗   ██╗ ██████╗██╗  ██╗
██╔══██╗██║   ██║████╗  ██║██╔════╝██║  ██║
██████╔╝██║   ██║██╔██╗ ██║██║     ███████║
██╔═══╝ ██║   ██║██║╚██╗██║██║     ██╔══██║
██║     ╚██████╔╝██║ ╚████║╚██████╗██║  ██║
╚═╝      ╚═════╝ ╚═╝  ╚═══╝ ╚═════╝╚═╝  ╚═╝

punch - Geofenced staff time clock

SHIFTS:

  in                      Clock in (must be inside the perimeter)
    --at                  Location as lat,lon (required)
    --note                Note stored with the clock-in
    --address             Address stored with the clock-in
    --no-ui               Skip the live shift view

    Live shift view:
      o             Clock out (type an optional note, enter to confirm)
      esc/q         Leave the view, the shift keeps running

  out                     Clock out (allowed from anywhere)
    --at                  Location as lat,lon (required)
    --note                Note stored with the clock-out

  status                  Show whether you are clocked in
    --no-ui               Text output only

  week                    Minutes worked per day this week (Sunday first)

  history                 List your shifts, newest first
    --from, --to          Days: yyyy-mm-dd, dd/mm/yyyy, today, yesterday, X days ago
    --json                JSON output

MANAGERS:

  dashboard               Hours and staff per day, top staff by hours
    --from, --to          Window (default: this week through today)
    --json                JSON output

  staff ls                List staff
    --filter              Match on name or email
  staff add <subject> <name>
    --email               Email address
    --role                WORKER or MANAGER
  staff role <subject> <role>
                          Change a role (creates the worker if missing)
  staff history <id>      Every shift of one worker

  settings show           Show the perimeter settings
  settings set            Change the perimeter settings
    --perimeter           Radius in km
    --name                Location name
    --at                  Center as lat,lon

SERVER:

  serve                   Run the HTTP API
    --addr                Listen address
  token [subject]         Issue an API bearer token

GLOBAL FLAGS:

  --config                YAML config file (default $PUNCH_CONFIG)
  --as                    Act as this subject (default $PUNCH_AS or the OS user)

`)
}
