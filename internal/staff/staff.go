// Package staff manages worker records and maps identity provider subjects
// onto caller identities.
package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/models"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidWorker  = errors.New("invalid worker")
	ErrWorkerNotFound = errors.New("worker not found")
)

// newUserName is given to workers created through role onboarding
const newUserName = "New User"

// Repo is the persistence the directory needs
type Repo interface {
	WorkerByID(ctx context.Context, id uint) (*models.Worker, error)
	WorkerBySubject(ctx context.Context, subject string) (*models.Worker, error)
	SaveWorker(ctx context.Context, w *models.Worker) error
	SetRole(ctx context.Context, workerID uint, role models.Role) error
	ListWorkers(ctx context.Context, f db.WorkerFilter) ([]models.Worker, error)
}

// Directory is the staff directory
type Directory struct {
	repo Repo
	log  *slog.Logger
}

func NewDirectory(repo Repo, log *slog.Logger) *Directory {
	return &Directory{repo: repo, log: log}
}

// AllStaff lists workers with the WORKER role, optionally narrowed by a
// case-insensitive match on name or email. Managers only.
func (d *Directory) AllStaff(ctx context.Context, id auth.Identity, filter string) ([]models.Worker, error) {
	if err := auth.Require(id, models.RoleManager); err != nil {
		return nil, err
	}
	workers, err := d.repo.ListWorkers(ctx, db.WorkerFilter{Role: models.RoleWorker, Query: filter})
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return workers, nil
}

// Worker returns one worker by id. Managers, or the worker themself.
func (d *Directory) Worker(ctx context.Context, id auth.Identity, workerID uint) (*models.Worker, error) {
	if id.WorkerID != workerID {
		if err := auth.Require(id, models.RoleManager); err != nil {
			return nil, err
		}
	} else if err := auth.Require(id, ""); err != nil {
		return nil, err
	}

	w, err := d.repo.WorkerByID(ctx, workerID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrWorkerNotFound, workerID)
	}
	return w, err
}

// SetRole sets the role of the worker bound to subject, creating the worker
// if needed. Managers may set any role. A caller without a worker record may
// only onboard themself.
func (d *Directory) SetRole(ctx context.Context, id auth.Identity, subject string, role models.Role) (*models.Worker, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidWorker)
	}

	existing, err := d.repo.WorkerBySubject(ctx, subject)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up %s: %w", subject, err)
	}

	manager := auth.Require(id, models.RoleManager) == nil
	onboarding := existing == nil && id.WorkerID == 0 && id.Subject == subject
	if !manager && !onboarding {
		return nil, fmt.Errorf("%w: cannot set role for %s", auth.ErrUnauthorized, subject)
	}

	if existing != nil {
		if err := d.repo.SetRole(ctx, existing.ID, role); err != nil {
			return nil, fmt.Errorf("failed to set role for %s: %w", subject, err)
		}
		existing.Role = role
		d.log.Info("role changed", "worker_id", existing.ID, "role", role, "by", id.Subject)
		return existing, nil
	}

	w := &models.Worker{Subject: subject, Name: newUserName, Role: role}
	if err := d.repo.SaveWorker(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", subject, err)
	}
	d.log.Info("worker onboarded", "worker_id", w.ID, "role", role, "by", id.Subject)
	return w, nil
}

// Register creates or updates the worker bound to subject. It trusts its
// caller and is used by the local CLI and identity provider hooks.
func (d *Directory) Register(ctx context.Context, subject, name, email string, role models.Role) (*models.Worker, error) {
	if role == "" {
		role = models.RoleWorker
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	w := &models.Worker{
		Subject: strings.TrimSpace(subject),
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Role:    role,
	}
	if w.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidWorker)
	}
	if w.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidWorker)
	}

	if err := d.repo.SaveWorker(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", w.Subject, err)
	}
	d.log.Info("worker registered", "worker_id", w.ID, "role", w.Role)
	return w, nil
}

// Resolve maps an identity provider subject to a caller identity. Unknown
// subjects resolve to an identity with no worker, which passes no role
// check but may onboard itself through SetRole.
func (d *Directory) Resolve(ctx context.Context, subject string) (auth.Identity, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return auth.Identity{}, fmt.Errorf("%w: empty subject", auth.ErrUnauthorized)
	}

	w, err := d.repo.WorkerBySubject(ctx, subject)
	if errors.Is(err, db.ErrNotFound) {
		return auth.Identity{Subject: subject}, nil
	}
	if err != nil {
		return auth.Identity{}, fmt.Errorf("failed to resolve %s: %w", subject, err)
	}
	return auth.Identity{WorkerID: w.ID, Subject: w.Subject, Role: w.Role}, nil
}
