// Package clock runs the per-worker clock-in/clock-out state machine.
package clock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/geofence"
	"github.com/balkashynov/punch/internal/models"
)

var (
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrNotClockedIn     = errors.New("not clocked in")
	// ErrDataCorruption means the clock flag and the open shifts disagree.
	// It is logged and returned, never repaired automatically.
	ErrDataCorruption = errors.New("clock state corrupted")
	// ErrBusy means another request for the same worker held the lock past
	// the wait deadline. Callers may retry.
	ErrBusy = errors.New("another clock request for this worker is in progress")
)

const (
	msgClockedIn        = "Successfully clocked in"
	msgClockedOut       = "Successfully clocked out"
	msgAlreadyClockedIn = "You are already clocked in"
	msgNotClockedIn     = "You are not clocked in"
)

// DefaultLockWait bounds how long a request waits behind another request
// for the same worker
const DefaultLockWait = 10 * time.Second

// Input is the caller-supplied location of a clock request
type Input struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Note      string  `json:"note,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// Result is the outcome of a clock request. Success is false for normal,
// user-recoverable refusals such as clocking in outside the perimeter.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Pair    *models.ClockPair `json:"-"`
}

// Status describes where a worker stands right now
type Status struct {
	ClockedIn         bool               `json:"clockedIn"`
	LastClockIn       *models.ClockEvent `json:"lastClockIn"`
	LastShiftDuration int                `json:"lastShiftDuration"`
	CanClockIn        bool               `json:"canClockIn"`
	CanClockInReason  string             `json:"canClockInReason"`
}

// Service is the clock pair lifecycle manager
type Service struct {
	store    Store
	settings SettingsProvider
	locks    *workerLocks
	lockWait time.Duration
	now      func() time.Time
	log      *slog.Logger
}

type Option func(*Service)

// WithNow replaces the wall clock, for tests and replays
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLockWait sets how long a request may wait for the worker's lock
func WithLockWait(d time.Duration) Option {
	return func(s *Service) { s.lockWait = d }
}

func NewService(store Store, settings SettingsProvider, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		settings: settings,
		locks:    newWorkerLocks(),
		lockWait: DefaultLockWait,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClockIn opens a shift for the caller if they are clocked out and inside
// the configured perimeter
func (s *Service) ClockIn(ctx context.Context, id auth.Identity, in Input) (Result, error) {
	if err := auth.Require(id, ""); err != nil {
		return Result{}, err
	}
	point, err := in.point()
	if err != nil {
		return Result{}, err
	}

	unlock, err := s.lock(ctx, id.WorkerID)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	worker, err := s.store.WorkerByID(ctx, id.WorkerID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load worker %d: %w", id.WorkerID, err)
	}
	if worker.CurrentlyClocked {
		return Result{Message: msgAlreadyClockedIn}, ErrAlreadyClockedIn
	}

	loc, err := s.settings.Get(ctx)
	if err != nil {
		return Result{}, err
	}
	inside, err := geofence.WithinPerimeter(point, geofence.Point{Lat: loc.Latitude, Lon: loc.Longitude}, loc.Perimeter)
	if err != nil {
		return Result{}, err
	}
	if !inside {
		s.log.Info("clock-in refused outside perimeter",
			"worker_id", worker.ID,
			"latitude", point.Lat,
			"longitude", point.Lon,
			"perimeter_km", loc.Perimeter)
		return Result{
			Message: fmt.Sprintf("You are outside the allowed perimeter (%gkm from %s)", loc.Perimeter, loc.LocationName),
		}, nil
	}

	now := s.now()
	event := in.event(now)
	pair := &models.ClockPair{WorkerID: worker.ID, Date: now}

	err = s.store.Atomically(ctx, func(tx Store) error {
		open, err := tx.OpenPair(ctx, worker.ID)
		if err != nil {
			return err
		}
		if open != nil {
			s.log.Error("worker clocked out but has an open shift",
				"worker_id", worker.ID, "pair_id", open.ID)
			return fmt.Errorf("%w: worker %d is clocked out with open shift %s", ErrDataCorruption, worker.ID, open.ID)
		}

		if err := tx.CreateClockIn(ctx, event, pair); err != nil {
			return err
		}
		ok, err := tx.SetClocked(ctx, worker.ID, false, true)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyClockedIn
		}
		return nil
	})
	if errors.Is(err, ErrAlreadyClockedIn) {
		return Result{Message: msgAlreadyClockedIn}, err
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to clock in worker %d: %w", worker.ID, err)
	}

	s.log.Info("clocked in", "worker_id", worker.ID, "pair_id", pair.ID)
	return Result{Success: true, Message: msgClockedIn, Pair: pair}, nil
}

// ClockOut closes the caller's open shift. No perimeter check is made:
// workers may clock out from anywhere.
func (s *Service) ClockOut(ctx context.Context, id auth.Identity, in Input) (Result, error) {
	if err := auth.Require(id, ""); err != nil {
		return Result{}, err
	}
	if _, err := in.point(); err != nil {
		return Result{}, err
	}

	unlock, err := s.lock(ctx, id.WorkerID)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	worker, err := s.store.WorkerByID(ctx, id.WorkerID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load worker %d: %w", id.WorkerID, err)
	}
	if !worker.CurrentlyClocked {
		return Result{Message: msgNotClockedIn}, ErrNotClockedIn
	}

	now := s.now()
	event := in.event(now)
	var closed *models.ClockPair

	err = s.store.Atomically(ctx, func(tx Store) error {
		open, err := tx.OpenPair(ctx, worker.ID)
		if err != nil {
			return err
		}
		if open == nil {
			s.log.Error("worker clocked in without an open shift", "worker_id", worker.ID)
			return fmt.Errorf("%w: worker %d is clocked in without an open shift", ErrDataCorruption, worker.ID)
		}

		duration, skewed := shiftMinutes(open.ClockIn.Time, now)
		if skewed {
			s.log.Warn("clock-out before clock-in, duration clamped to 0",
				"worker_id", worker.ID,
				"pair_id", open.ID,
				"clock_in", open.ClockIn.Time,
				"clock_out", now)
		}
		if err := tx.CloseClockPair(ctx, open, event, duration, skewed); err != nil {
			return err
		}

		ok, err := tx.SetClocked(ctx, worker.ID, true, false)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotClockedIn
		}
		closed = open
		return nil
	})
	if errors.Is(err, ErrNotClockedIn) {
		return Result{Message: msgNotClockedIn}, err
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to clock out worker %d: %w", worker.ID, err)
	}

	s.log.Info("clocked out", "worker_id", worker.ID, "pair_id", closed.ID, "duration_min", closed.Duration)
	return Result{Success: true, Message: msgClockedOut, Pair: closed}, nil
}

// Status reports the caller's clock state. CanClockIn does not look at the
// perimeter; location is only known when a clock-in is submitted.
func (s *Service) Status(ctx context.Context, id auth.Identity) (Status, error) {
	if err := auth.Require(id, ""); err != nil {
		return Status{}, err
	}

	var st Status
	err := s.store.Atomically(ctx, func(tx Store) error {
		worker, err := tx.WorkerByID(ctx, id.WorkerID)
		if err != nil {
			return err
		}
		open, err := tx.OpenPair(ctx, worker.ID)
		if err != nil {
			return err
		}
		if worker.CurrentlyClocked != (open != nil) {
			s.log.Error("clock flag disagrees with open shifts",
				"worker_id", worker.ID, "currently_clocked", worker.CurrentlyClocked)
			return fmt.Errorf("%w: worker %d", ErrDataCorruption, worker.ID)
		}

		st.ClockedIn = worker.CurrentlyClocked
		st.CanClockIn = !st.ClockedIn
		if st.ClockedIn {
			st.CanClockInReason = msgAlreadyClockedIn
			st.LastClockIn = &open.ClockIn
		} else {
			latest, err := tx.LatestPair(ctx, worker.ID, false)
			if err != nil {
				return err
			}
			if latest != nil {
				st.LastClockIn = &latest.ClockIn
			}
		}

		lastClosed, err := tx.LatestPair(ctx, worker.ID, true)
		if err != nil {
			return err
		}
		if lastClosed != nil {
			st.LastShiftDuration = lastClosed.Duration
		}
		return nil
	})
	if err != nil {
		return Status{}, fmt.Errorf("failed to load status for worker %d: %w", id.WorkerID, err)
	}
	return st, nil
}

func (s *Service) lock(ctx context.Context, workerID uint) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	unlock, err := s.locks.lock(waitCtx, workerID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrBusy
	}
	return unlock, nil
}

// shiftMinutes rounds the shift length to whole minutes. A negative length
// caused by clock skew is clamped to 0 and reported.
func shiftMinutes(in, out time.Time) (int, bool) {
	d := out.Sub(in)
	if d < 0 {
		return 0, true
	}
	return int(math.Round(d.Minutes())), false
}

func (in Input) point() (geofence.Point, error) {
	p := geofence.Point{Lat: in.Latitude, Lon: in.Longitude}
	return p, p.Validate()
}

func (in Input) event(at time.Time) *models.ClockEvent {
	return &models.ClockEvent{
		Time: at,
		Location: models.Location{
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			Address:   optional(in.Address),
		},
		Note: optional(in.Note),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// IsRetryable reports whether err is a transient failure the caller may retry
func IsRetryable(err error) bool {
	return errors.Is(err, db.ErrTimeout) || errors.Is(err, ErrBusy)
}
