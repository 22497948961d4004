package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/punch/internal/config"
	"github.com/balkashynov/punch/internal/models"
)

// Open sets up the database connection for the configured driver and runs migrations
func Open(cfg config.DatabaseCfg) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	}
	if cfg.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		if !isMemory(cfg.DSN) {
			// Ensure the directory exists
			if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver != "postgres" {
		// SQLite allows one writer; a single connection turns lock contention
		// into queueing on the pool instead of SQLITE_BUSY errors
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// OpenInMemory returns a migrated private in-memory SQLite database
func OpenInMemory() (*gorm.DB, error) {
	return Open(config.DatabaseCfg{Driver: "sqlite", DSN: ":memory:"})
}

// Migrate creates/updates the database schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Worker{},
		&models.ClockEvent{},
		&models.ClockPair{},
		&models.LocationSettings{},
	); err != nil {
		return err
	}

	// At most one open shift per worker, enforced by the database as well
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_clock_pairs_one_open
		ON clock_pairs (worker_id) WHERE clock_out_id IS NULL`).Error
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}

func sqliteDSN(dsn string) string {
	if dsn == ":memory:" {
		dsn = "file::memory:"
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
