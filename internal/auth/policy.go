// Package auth holds the caller identity passed to every core operation and
// the single capability check applied at each operation boundary.
package auth

import (
	"errors"
	"fmt"

	"github.com/balkashynov/punch/internal/models"
)

// ErrUnauthorized is returned when the caller lacks the required role
var ErrUnauthorized = errors.New("unauthorized")

// Identity is an authenticated caller as supplied by the identity provider.
// WorkerID is zero for subjects that have not been onboarded yet.
type Identity struct {
	WorkerID uint
	Subject  string
	Role     models.Role
}

// Authenticated reports whether the identity refers to a known worker
func (id Identity) Authenticated() bool {
	return id.WorkerID != 0 && id.Subject != ""
}

// Require checks that the caller is a known worker holding role.
// An empty role only requires authentication.
func Require(id Identity, role models.Role) error {
	if !id.Authenticated() {
		return fmt.Errorf("%w: not signed in", ErrUnauthorized)
	}
	if role != "" && id.Role != role {
		return fmt.Errorf("%w: requires %s role", ErrUnauthorized, role)
	}
	return nil
}
