package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/clock"
	"github.com/balkashynov/punch/internal/config"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/logging"
	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/report"
	"github.com/balkashynov/punch/internal/settings"
	"github.com/balkashynov/punch/internal/staff"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	actAs      string
)

var rootCmd = &cobra.Command{
	Use:   "punch",
	Short: "A geofenced staff time clock",
	Long: `punch records staff clock-ins and clock-outs inside a configured perimeter,
keeps one shift open per worker and reports hours worked.

Run it as an HTTP API with 'punch serve', or use the commands below against
the same database from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app wires the services shared by every command
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	db       *gorm.DB
	repo     *db.Repo
	loc      *time.Location
	settings *settings.Service
	clock    *clock.Service
	reports  *report.Engine
	staff    *staff.Directory
}

// newApp loads configuration, opens the database and builds the services.
// CLI commands log warnings and above to stderr; serve uses the configured level.
func newApp(logLevel, logFormat string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	if logFormat == "" {
		logFormat = cfg.Log.Format
	}
	log := logging.New(os.Stderr, "punch", logLevel, logFormat)

	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	repo := db.NewRepo(gdb, cfg.Database.Timeout)

	defaults := models.LocationSettings{
		Perimeter:    cfg.Location.Perimeter,
		LocationName: cfg.Location.Name,
		Latitude:     cfg.Location.Latitude,
		Longitude:    cfg.Location.Longitude,
	}
	provider := settings.NewService(repo, defaults, log)
	if _, err := provider.EnsureDefault(context.Background()); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		db:       gdb,
		repo:     repo,
		loc:      loc,
		settings: provider,
		clock:    clock.NewService(clock.NewStore(repo), provider, log),
		reports:  report.NewEngine(report.NewStore(repo), loc),
		staff:    staff.NewDirectory(repo, log),
	}, nil
}

func (a *app) close() {
	if err := db.Close(a.db); err != nil {
		a.log.Warn("failed to close database", "error", err)
	}
}

// identity resolves the local caller from --as, PUNCH_AS or the OS user
func (a *app) identity(ctx context.Context) (auth.Identity, error) {
	subject := actAs
	if subject == "" {
		subject = os.Getenv("PUNCH_AS")
	}
	if subject == "" {
		if u, err := user.Current(); err == nil {
			subject = u.Username
		}
	}
	return a.staff.Resolve(ctx, subject)
}

// withApp wraps a command function with service setup and teardown
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp("warn", "text")
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, a)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $PUNCH_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&actAs, "as", "", "Act as this identity subject (default $PUNCH_AS or the OS user)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(staffCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
