package db

import (
	"context"
	"errors"
	"strings"

	"github.com/balkashynov/punch/internal/models"
)

// WorkerFilter narrows ListWorkers
type WorkerFilter struct {
	Role  models.Role // empty means any role
	Query string      // case-insensitive substring of name or email
}

// WorkerByID returns the worker with the given id
func (r *Repo) WorkerByID(ctx context.Context, id uint) (*models.Worker, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	var w models.Worker
	if err := db.First(&w, id).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &w, nil
}

// WorkerBySubject returns the worker bound to an identity provider subject
func (r *Repo) WorkerBySubject(ctx context.Context, subject string) (*models.Worker, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	var w models.Worker
	if err := db.Where("subject = ?", subject).First(&w).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &w, nil
}

// SaveWorker creates the worker, or updates name, email and role of the
// existing worker with the same subject. The clock flag is never touched here.
func (r *Repo) SaveWorker(ctx context.Context, w *models.Worker) error {
	return r.Transaction(ctx, func(tx *Repo) error {
		existing, err := tx.WorkerBySubject(ctx, w.Subject)
		if errors.Is(err, ErrNotFound) {
			w.CurrentlyClocked = false
			return translate(ctx, tx.db.Create(w).Error)
		}
		if err != nil {
			return err
		}

		if err := tx.db.Model(existing).Updates(map[string]any{
			"name":  w.Name,
			"email": w.Email,
			"role":  w.Role,
		}).Error; err != nil {
			return translate(ctx, err)
		}
		existing.Name, existing.Email, existing.Role = w.Name, w.Email, w.Role
		*w = *existing
		return nil
	})
}

// SetRole changes a worker's role
func (r *Repo) SetRole(ctx context.Context, workerID uint, role models.Role) error {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(&models.Worker{}).Where("id = ?", workerID).Update("role", role)
	if res.Error != nil {
		return translate(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetClocked flips the worker's clock flag from -> to. It reports false,
// without error, when the flag did not hold from.
func (r *Repo) SetClocked(ctx context.Context, workerID uint, from, to bool) (bool, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(&models.Worker{}).
		Where("id = ? AND currently_clocked = ?", workerID, from).
		Update("currently_clocked", to)
	if res.Error != nil {
		return false, translate(ctx, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ListWorkers returns workers ordered by name
func (r *Repo) ListWorkers(ctx context.Context, f WorkerFilter) ([]models.Worker, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	q := db.Model(&models.Worker{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var workers []models.Worker
	if err := q.Order("name ASC").Order("id ASC").Find(&workers).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return workers, nil
}

// CountWorkers counts workers with role; clockedOnly restricts to open shifts
func (r *Repo) CountWorkers(ctx context.Context, role models.Role, clockedOnly bool) (int, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	q := db.Model(&models.Worker{}).Where("role = ?", role)
	if clockedOnly {
		q = q.Where("currently_clocked = ?", true)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(ctx, err)
	}
	return int(n), nil
}
