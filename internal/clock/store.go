package clock

import (
	"context"

	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/models"
)

// Store is the persistence the lifecycle manager needs
type Store interface {
	// Atomically runs fn with a Store bound to a single transaction
	Atomically(ctx context.Context, fn func(tx Store) error) error

	WorkerByID(ctx context.Context, id uint) (*models.Worker, error)
	SetClocked(ctx context.Context, workerID uint, from, to bool) (bool, error)
	OpenPair(ctx context.Context, workerID uint) (*models.ClockPair, error)
	LatestPair(ctx context.Context, workerID uint, closedOnly bool) (*models.ClockPair, error)
	CreateClockIn(ctx context.Context, event *models.ClockEvent, pair *models.ClockPair) error
	CloseClockPair(ctx context.Context, pair *models.ClockPair, event *models.ClockEvent, duration int, skew bool) error
}

// SettingsProvider supplies the current perimeter configuration
type SettingsProvider interface {
	Get(ctx context.Context) (*models.LocationSettings, error)
}

// NewStore adapts the gorm repository to Store
func NewStore(repo *db.Repo) Store {
	return repoStore{repo}
}

type repoStore struct {
	*db.Repo
}

func (s repoStore) Atomically(ctx context.Context, fn func(tx Store) error) error {
	return s.Repo.Transaction(ctx, func(tx *db.Repo) error {
		return fn(repoStore{tx})
	})
}
