// Package db persists workers, clock events, clock pairs and location
// settings with gorm.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrTimeout is returned when a store call exceeds its deadline. Callers may retry.
	ErrTimeout = errors.New("store timeout")
)

// DefaultTimeout bounds every store call when no timeout is configured
const DefaultTimeout = 5 * time.Second

// Repo is the gorm-backed store. A Repo handed to a Transaction callback
// runs every call inside that transaction.
type Repo struct {
	db      *gorm.DB
	timeout time.Duration
	inTx    bool
}

// NewRepo wraps db; every call outside a transaction is bounded by timeout
func NewRepo(db *gorm.DB, timeout time.Duration) *Repo {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Repo{db: db, timeout: timeout}
}

// Transaction runs fn as one atomic unit. Any error returned by fn rolls
// back every write made through tx.
func (r *Repo) Transaction(ctx context.Context, fn func(tx *Repo) error) error {
	if r.inTx {
		return fn(r)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{db: tx, timeout: r.timeout, inTx: true})
	})
	return translate(ctx, err)
}

// conn returns a handle bound to ctx with the store deadline applied.
// Inside a transaction the transaction's own deadline already applies.
func (r *Repo) conn(ctx context.Context) (*gorm.DB, context.Context, context.CancelFunc) {
	if r.inTx {
		return r.db, ctx, func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(ctx), ctx, cancel
}

// translate maps driver and gorm errors onto the store's sentinel errors
func translate(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
