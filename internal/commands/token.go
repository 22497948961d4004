package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/models"
)

var tokenCmd = &cobra.Command{
	Use:   "token [subject]",
	Short: "Issue an API token",
	Long: `Issue a bearer token for the HTTP API, signed with server.jwt_secret.
Without a subject the token is issued for yourself. Issuing a token for
someone else requires a manager identity.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		id, err := a.identity(ctx)
		if err != nil {
			return err
		}

		subject, role := id.Subject, id.Role
		if len(args) == 1 && args[0] != id.Subject {
			if err := auth.Require(id, models.RoleManager); err != nil {
				return err
			}
			target, err := a.staff.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			subject, role = target.Subject, target.Role
		}

		tokens, err := auth.NewTokens(a.cfg.Server.JWTSecret, a.cfg.Server.TokenTTL)
		if err != nil {
			return err
		}
		token, err := tokens.Sign(subject, role)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Println(token)
		return nil
	}),
}
