package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/models"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage staff (managers)",
}

var staffListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List staff with the WORKER role",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		workers, err := a.staff.AllStaff(ctx, id, filter)
		if err != nil {
			return err
		}
		if len(workers) == 0 {
			fmt.Println("No staff found.")
			return nil
		}
		displayWorkers(os.Stdout, workers)
		return nil
	}),
}

var staffAddCmd = &cobra.Command{
	Use:   "add <subject> <name>",
	Short: "Register a worker",
	Long: `Register a worker, or update the name, email and role of an existing one.
Without a manager identity you may only register yourself.

Examples:
  punch staff add ada "Ada Lovelace" --email ada@example.org
  punch staff add grace "Grace Hopper" --role MANAGER`,
	Args: cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}
		if args[0] != id.Subject {
			if err := auth.Require(id, models.RoleManager); err != nil {
				return err
			}
		}

		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")
		w, err := a.staff.Register(ctx, args[0], args[1], email, models.Role(role))
		if err != nil {
			return err
		}
		fmt.Printf("✅ Registered #%d %s (%s) as %s\n", w.ID, w.Name, w.Subject, w.Role)
		return nil
	}),
}

var staffRoleCmd = &cobra.Command{
	Use:   "role <subject> <WORKER|MANAGER>",
	Short: "Set a worker's role",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}
		w, err := a.staff.SetRole(ctx, id, args[0], models.Role(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s (%s) is now %s\n", w.Name, w.Subject, w.Role)
		return nil
	}),
}

var staffHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "List every shift of a worker",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}
		workerID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid worker ID: %s", args[0])
		}
		pairs, err := a.reports.StaffHistory(ctx, id, uint(workerID))
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			fmt.Println("No shifts found.")
			return nil
		}
		displayPairs(os.Stdout, pairs, a.loc)
		return nil
	}),
}

func displayWorkers(w io.Writer, workers []models.Worker) {
	fmt.Fprintf(w, "%-4s %-20s %-30s %-30s %s\n", "ID", "SUBJECT", "NAME", "EMAIL", "ON SHIFT")
	for _, wk := range workers {
		onShift := "no"
		if wk.CurrentlyClocked {
			onShift = "yes"
		}
		fmt.Fprintf(w, "%-4d %-20s %-30s %-30s %s\n",
			wk.ID, truncate(wk.Subject, 20), truncate(wk.Name, 30), truncate(wk.Email, 30), onShift)
	}
}

func init() {
	staffListCmd.Flags().String("filter", "", "Match on name or email")
	staffAddCmd.Flags().String("email", "", "Email address")
	staffAddCmd.Flags().String("role", "", "WORKER or MANAGER (default WORKER)")

	staffCmd.AddCommand(staffListCmd)
	staffCmd.AddCommand(staffAddCmd)
	staffCmd.AddCommand(staffRoleCmd)
	staffCmd.AddCommand(staffHistoryCmd)
}
