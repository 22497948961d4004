package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/server"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the JSON HTTP API on server.addr. Requests authenticate with a bearer
token signed with server.jwt_secret, see 'punch token'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("", "")
		if err != nil {
			return err
		}
		defer a.close()

		if a.cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			a.cfg.Server.Addr = addr
		}

		tokens, err := auth.NewTokens(a.cfg.Server.JWTSecret, a.cfg.Server.TokenTTL)
		if err != nil {
			return err
		}
		srv := server.New(a.cfg.Server.Addr, server.Deps{
			Clock:    a.clock,
			Reports:  a.reports,
			Staff:    a.staff,
			Settings: a.settings,
			Tokens:   tokens,
		}, a.log)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		errc := make(chan error, 1)
		go func() {
			errc <- srv.Start()
		}()

		select {
		case sig := <-quit:
			a.log.Info("shutting down", "signal", sig.String())
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
