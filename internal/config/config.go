// Package config loads punch configuration from .env, an optional YAML file
// and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/drone/envsubst"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration
type Config struct {
	Database DatabaseCfg `yaml:"database"`
	Server   ServerCfg   `yaml:"server"`
	Location LocationCfg `yaml:"location"`
	Log      LogCfg      `yaml:"log"`
	Timezone string      `yaml:"timezone"`
}

type DatabaseCfg struct {
	Driver  string        `yaml:"driver"` // sqlite or postgres
	DSN     string        `yaml:"dsn"`    // postgres DSN or sqlite file path
	Timeout time.Duration `yaml:"timeout"`
	Debug   bool          `yaml:"debug"`
}

type ServerCfg struct {
	Addr      string        `yaml:"addr"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// LocationCfg holds the defaults written when no location settings exist yet
type LocationCfg struct {
	Perimeter float64 `yaml:"perimeter"`
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type LogCfg struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// Default returns a configuration that works out of the box with a local
// SQLite database in the user's home directory
func Default() Config {
	return Config{
		Database: DatabaseCfg{
			Driver:  "sqlite",
			Timeout: 5 * time.Second,
		},
		Server: ServerCfg{
			Addr:     ":8080",
			TokenTTL: 24 * time.Hour,
		},
		Location: LocationCfg{
			Perimeter: 2,
			Name:      "Main Hospital",
			Latitude:  51.505,
			Longitude: -0.09,
		},
		Log: LogCfg{
			Level:  "info",
			Format: "json",
		},
		Timezone: "Local",
	}
}

// Load reads .env (if present), then the YAML file at path (if present),
// expanding ${VAR} and ${VAR:-default} references before decoding
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("PUNCH_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		replaced, err := envsubst.EvalEnv(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to expand config %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(replaced), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN == "" {
		dbPath, err := defaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to get database path: %w", err)
		}
		cfg.Database.DSN = dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets the most common settings be overridden without a config file
func applyEnv(cfg *Config) {
	if v := os.Getenv("PUNCH_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("PUNCH_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("PUNCH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PUNCH_JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("PUNCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PUNCH_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required for postgres"))
	}
	if c.Database.Timeout <= 0 {
		errs = append(errs, errors.New("database.timeout must be positive"))
	}
	if c.Location.Perimeter <= 0 {
		errs = append(errs, errors.New("location.perimeter must be positive"))
	}
	if c.Location.Name == "" {
		errs = append(errs, errors.New("location.name is required"))
	}
	if c.Server.TokenTTL <= 0 {
		errs = append(errs, errors.New("server.token_ttl must be positive"))
	}
	if _, err := c.TimeLocation(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// TimeLocation resolves the configured timezone used for calendar days and weeks
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// defaultDatabasePath returns ~/.punch/punch.db
func defaultDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".punch", "punch.db"), nil
}
