// Package settings provides the singleton perimeter configuration.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/geofence"
	"github.com/balkashynov/punch/internal/models"
)

var ErrInvalidSettings = errors.New("invalid location settings")

// Repo is the persistence the settings provider needs
type Repo interface {
	LocationSettings(ctx context.Context) (*models.LocationSettings, error)
	CreateLocationSettingsIfAbsent(ctx context.Context, defaults models.LocationSettings) (*models.LocationSettings, error)
	SaveLocationSettings(ctx context.Context, s *models.LocationSettings) error
}

// Input is a manager's requested settings change
type Input struct {
	Perimeter    float64 `json:"perimeter"`
	LocationName string  `json:"locationName"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Service reads and updates LocationSettings
type Service struct {
	repo     Repo
	defaults models.LocationSettings
	log      *slog.Logger
}

func NewService(repo Repo, defaults models.LocationSettings, log *slog.Logger) *Service {
	return &Service{repo: repo, defaults: defaults, log: log}
}

// EnsureDefault writes the default settings if none are stored yet.
// It is run once at startup; Get falls back to it for fresh databases.
func (s *Service) EnsureDefault(ctx context.Context) (*models.LocationSettings, error) {
	stored, err := s.repo.CreateLocationSettingsIfAbsent(ctx, s.defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure location settings: %w", err)
	}
	return stored, nil
}

// Get returns the current settings
func (s *Service) Get(ctx context.Context) (*models.LocationSettings, error) {
	stored, err := s.repo.LocationSettings(ctx)
	if errors.Is(err, db.ErrNotFound) {
		return s.EnsureDefault(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load location settings: %w", err)
	}
	return stored, nil
}

// Show returns the current settings to a manager
func (s *Service) Show(ctx context.Context, id auth.Identity) (*models.LocationSettings, error) {
	if err := auth.Require(id, models.RoleManager); err != nil {
		return nil, err
	}
	return s.Get(ctx)
}

// Update replaces the settings. Managers only.
func (s *Service) Update(ctx context.Context, id auth.Identity, in Input) (*models.LocationSettings, error) {
	if err := auth.Require(id, models.RoleManager); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updated := &models.LocationSettings{
		Perimeter:    in.Perimeter,
		LocationName: strings.TrimSpace(in.LocationName),
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
	}
	if err := s.repo.SaveLocationSettings(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save location settings: %w", err)
	}

	s.log.Info("location settings updated",
		"by", id.WorkerID,
		"perimeter_km", updated.Perimeter,
		"location", updated.LocationName)
	return updated, nil
}

// Validate checks the perimeter, name and reference coordinates
func (in Input) Validate() error {
	if !(in.Perimeter > 0) {
		return fmt.Errorf("%w: perimeter must be greater than 0", ErrInvalidSettings)
	}
	if strings.TrimSpace(in.LocationName) == "" {
		return fmt.Errorf("%w: location name is required", ErrInvalidSettings)
	}
	if err := (geofence.Point{Lat: in.Latitude, Lon: in.Longitude}).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}
