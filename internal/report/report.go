// Package report aggregates clock pairs into weekly totals, histories and
// the manager dashboard.
package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/models"
)

// TopStaffLimit caps Dashboard.TopStaffByHours
const TopStaffLimit = 10

const dayLayout = "2006-01-02"

// Store is the read access the engine needs
type Store interface {
	// Atomically runs fn with a Store bound to a single transaction
	Atomically(ctx context.Context, fn func(tx Store) error) error

	WorkerByID(ctx context.Context, id uint) (*models.Worker, error)
	CountWorkers(ctx context.Context, role models.Role, clockedOnly bool) (int, error)
	ListPairs(ctx context.Context, f db.PairFilter) ([]models.ClockPair, error)
	SumDuration(ctx context.Context, f db.PairFilter) (int, error)
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

// DailyStats is one calendar day of a dashboard series
type DailyStats struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Count int     `json:"count"`
}

// StaffHours is one row of the top staff table
type StaffHours struct {
	WorkerID uint    `json:"workerId"`
	Name     string  `json:"name"`
	Hours    float64 `json:"hours"`
}

// Dashboard summarizes closed shifts over a date window
type Dashboard struct {
	ClockedInCount  int          `json:"clockedInCount"`
	TotalStaff      int          `json:"totalStaff"`
	AvgHoursPerDay  float64      `json:"avgHoursPerDay"`
	HoursByDay      []DailyStats `json:"hoursByDay"`
	StaffCountByDay []DailyStats `json:"staffCountByDay"`
	TopStaffByHours []StaffHours `json:"topStaffByHours"`
}

// WeekSheet is a worker's minutes per day for one week, Sunday first
type WeekSheet struct {
	Start time.Time `json:"start"`
	Days  [7]int    `json:"days"`
	Total int       `json:"total"`
}

// Engine computes aggregates. Calendar days are taken in loc.
type Engine struct {
	store Store
	loc   *time.Location
}

func NewEngine(store Store, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{store: store, loc: loc}
}

// Location returns the time zone calendar days are computed in
func (e *Engine) Location() *time.Location {
	return e.loc
}

// WeekStart returns the most recent Sunday at midnight, now included
func (e *Engine) WeekStart(now time.Time) time.Time {
	now = now.In(e.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeeklyTotal sums the minutes of the worker's shifts dated in the week
// containing now. Open shifts contribute nothing.
func (e *Engine) WeeklyTotal(ctx context.Context, workerID uint, now time.Time) (int, error) {
	start := e.WeekStart(now)
	total, err := e.store.SumDuration(ctx, db.PairFilter{
		WorkerID: workerID,
		From:     start,
		To:       start.AddDate(0, 0, 7).Add(-time.Nanosecond),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to sum week for worker %d: %w", workerID, err)
	}
	return total, nil
}

// Week breaks the caller's current week down by day
func (e *Engine) Week(ctx context.Context, id auth.Identity, now time.Time) (*WeekSheet, error) {
	if err := auth.Require(id, ""); err != nil {
		return nil, err
	}

	start := e.WeekStart(now)
	pairs, err := e.store.ListPairs(ctx, db.PairFilter{
		WorkerID:   id.WorkerID,
		From:       start,
		To:         start.AddDate(0, 0, 7).Add(-time.Nanosecond),
		ClosedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list week for worker %d: %w", id.WorkerID, err)
	}

	sheet := &WeekSheet{Start: start}
	for _, p := range pairs {
		day := p.Date.In(e.loc).Weekday()
		sheet.Days[day] += p.Duration
		sheet.Total += p.Duration
	}
	return sheet, nil
}

// DashboardStats aggregates closed shifts dated from start through the end
// of the day containing end. Managers only.
func (e *Engine) DashboardStats(ctx context.Context, id auth.Identity, start, end time.Time) (*Dashboard, error) {
	if err := auth.Require(id, models.RoleManager); err != nil {
		return nil, err
	}
	end = e.endOfDay(end)

	var (
		dash  Dashboard
		pairs []models.ClockPair
	)
	err := e.store.Atomically(ctx, func(tx Store) error {
		var err error
		if dash.ClockedInCount, err = tx.CountWorkers(ctx, models.RoleWorker, true); err != nil {
			return err
		}
		if dash.TotalStaff, err = tx.CountWorkers(ctx, models.RoleWorker, false); err != nil {
			return err
		}
		pairs, err = tx.ListPairs(ctx, db.PairFilter{From: start, To: end, ClosedOnly: true, WithWorker: true})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	totalMinutes := 0
	byDay := make(map[string]*DailyStats)
	var days []string
	byWorker := make(map[uint]*StaffHours)
	var staff []*StaffHours

	for _, p := range pairs {
		totalMinutes += p.Duration
		hours := float64(p.Duration) / 60

		key := p.Date.In(e.loc).Format(dayLayout)
		d, ok := byDay[key]
		if !ok {
			d = &DailyStats{Date: key}
			byDay[key] = d
			days = append(days, key)
		}
		d.Hours += hours
		d.Count++

		s, ok := byWorker[p.WorkerID]
		if !ok {
			s = &StaffHours{WorkerID: p.WorkerID, Name: p.Worker.Name}
			byWorker[p.WorkerID] = s
			staff = append(staff, s)
		}
		s.Hours += hours
	}

	span := math.Round(end.Sub(start).Hours() / 24)
	dash.AvgHoursPerDay = float64(totalMinutes) / 60 / math.Max(1, span)

	sort.Strings(days)
	dash.HoursByDay = make([]DailyStats, 0, len(days))
	dash.StaffCountByDay = make([]DailyStats, 0, len(days))
	for _, key := range days {
		d := *byDay[key]
		dash.HoursByDay = append(dash.HoursByDay, d)
		dash.StaffCountByDay = append(dash.StaffCountByDay, d)
	}

	sort.SliceStable(staff, func(i, j int) bool {
		return staff[i].Hours > staff[j].Hours
	})
	if len(staff) > TopStaffLimit {
		staff = staff[:TopStaffLimit]
	}
	dash.TopStaffByHours = make([]StaffHours, 0, len(staff))
	for _, s := range staff {
		dash.TopStaffByHours = append(dash.TopStaffByHours, *s)
	}

	return &dash, nil
}

// WorkerHistory returns the caller's shifts in the window, newest first.
// A zero start or end leaves that side open.
func (e *Engine) WorkerHistory(ctx context.Context, id auth.Identity, start, end time.Time) ([]models.ClockPair, error) {
	if err := auth.Require(id, ""); err != nil {
		return nil, err
	}

	f := db.PairFilter{WorkerID: id.WorkerID, From: start, NewestFirst: true}
	if !end.IsZero() {
		f.To = e.endOfDay(end)
	}
	pairs, err := e.store.ListPairs(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for worker %d: %w", id.WorkerID, err)
	}
	return pairs, nil
}

// StaffHistory returns every shift of a worker, newest first. Managers only.
func (e *Engine) StaffHistory(ctx context.Context, id auth.Identity, workerID uint) ([]models.ClockPair, error) {
	if err := auth.Require(id, models.RoleManager); err != nil {
		return nil, err
	}

	var pairs []models.ClockPair
	err := e.store.Atomically(ctx, func(tx Store) error {
		if _, err := tx.WorkerByID(ctx, workerID); err != nil {
			return err
		}
		var err error
		pairs, err = tx.ListPairs(ctx, db.PairFilter{WorkerID: workerID, NewestFirst: true})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history for worker %d: %w", workerID, err)
	}
	return pairs, nil
}

func (e *Engine) endOfDay(t time.Time) time.Time {
	t = t.In(e.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), e.loc)
}
