package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/punch/internal/models"
)

// ErrPairClosed is returned when closing a pair that already has a clock-out
var ErrPairClosed = errors.New("clock pair already closed")

// PairFilter narrows ListPairs. Zero values mean "no restriction".
type PairFilter struct {
	WorkerID    uint
	From        time.Time // inclusive
	To          time.Time // inclusive
	ClosedOnly  bool
	NewestFirst bool
	WithWorker  bool
}

// CreateClockIn stores the clock-in event and the new open pair referencing it
func (r *Repo) CreateClockIn(ctx context.Context, event *models.ClockEvent, pair *models.ClockPair) error {
	// Times are stored in UTC so that range filters compare consistently
	event.Time = event.Time.UTC()
	pair.Date = pair.Date.UTC()

	return r.Transaction(ctx, func(tx *Repo) error {
		if err := tx.db.Create(event).Error; err != nil {
			return translate(ctx, err)
		}
		pair.ClockInID = event.ID
		pair.ClockOutID = nil
		pair.Duration = 0
		if err := tx.db.Omit(clause.Associations).Create(pair).Error; err != nil {
			return translate(ctx, err)
		}
		pair.ClockIn = *event
		return nil
	})
}

// CloseClockPair stores the clock-out event and attaches it to the open
// pair together with its final duration in one UPDATE, so readers never
// observe a clock-out without its duration
func (r *Repo) CloseClockPair(ctx context.Context, pair *models.ClockPair, event *models.ClockEvent, duration int, skew bool) error {
	event.Time = event.Time.UTC()

	return r.Transaction(ctx, func(tx *Repo) error {
		if err := tx.db.Create(event).Error; err != nil {
			return translate(ctx, err)
		}

		res := tx.db.Model(&models.ClockPair{}).
			Where("id = ? AND clock_out_id IS NULL", pair.ID).
			Updates(map[string]any{
				"clock_out_id": event.ID,
				"duration":     duration,
				"clock_skew":   skew,
			})
		if res.Error != nil {
			return translate(ctx, res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrPairClosed
		}

		pair.ClockOutID = &event.ID
		pair.ClockOut = event
		pair.Duration = duration
		pair.ClockSkew = skew
		return nil
	})
}

// OpenPair returns the worker's shift in progress, or nil when there is none
func (r *Repo) OpenPair(ctx context.Context, workerID uint) (*models.ClockPair, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	var pairs []models.ClockPair
	err := db.Where("worker_id = ? AND clock_out_id IS NULL", workerID).
		Preload("ClockIn").
		Order("date DESC").
		Limit(1).
		Find(&pairs).Error
	if err != nil {
		return nil, translate(ctx, err)
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	return &pairs[0], nil
}

// LatestPair returns the worker's most recent pair, optionally only closed
// ones, or nil when there is none
func (r *Repo) LatestPair(ctx context.Context, workerID uint, closedOnly bool) (*models.ClockPair, error) {
	pairs, err := r.listPairs(ctx, PairFilter{WorkerID: workerID, ClosedOnly: closedOnly, NewestFirst: true}, 1)
	if err != nil || len(pairs) == 0 {
		return nil, err
	}
	return &pairs[0], nil
}

// ListPairs returns pairs matching f with both clock events loaded
func (r *Repo) ListPairs(ctx context.Context, f PairFilter) ([]models.ClockPair, error) {
	return r.listPairs(ctx, f, 0)
}

func (r *Repo) listPairs(ctx context.Context, f PairFilter, limit int) ([]models.ClockPair, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	q := pairQuery(db.Model(&models.ClockPair{}), f).
		Preload("ClockIn").
		Preload("ClockOut")
	if f.WithWorker {
		q = q.Preload("Worker")
	}
	if f.NewestFirst {
		q = q.Order("date DESC").Order("created_at DESC")
	} else {
		q = q.Order("date ASC").Order("created_at ASC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var pairs []models.ClockPair
	if err := q.Find(&pairs).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return pairs, nil
}

// SumDuration adds up the minutes of the pairs matching f.
// Open pairs count as 0 until they are closed.
func (r *Repo) SumDuration(ctx context.Context, f PairFilter) (int, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	var total int64
	err := pairQuery(db.Model(&models.ClockPair{}), f).
		Select("COALESCE(SUM(duration), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, translate(ctx, err)
	}
	return int(total), nil
}

// CountOpenPairs returns how many shifts the worker has in progress
func (r *Repo) CountOpenPairs(ctx context.Context, workerID uint) (int, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	var n int64
	err := db.Model(&models.ClockPair{}).
		Where("worker_id = ? AND clock_out_id IS NULL", workerID).
		Count(&n).Error
	if err != nil {
		return 0, translate(ctx, err)
	}
	return int(n), nil
}

func pairQuery(q *gorm.DB, f PairFilter) *gorm.DB {
	if f.WorkerID != 0 {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To.UTC())
	}
	if f.ClosedOnly {
		q = q.Where("clock_out_id IS NOT NULL")
	}
	return q
}
