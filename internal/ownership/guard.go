// Package ownership authorizes mutations against exclusively-owned entities.
package ownership

import (
	"errors"

	"github.com/google/uuid"
)

// Custom authorization errors
var (
	// ErrUnauthenticated indicates the mutation had no acting user; the guard fails closed
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotOwner indicates the actor is not the owner of the entity
	ErrNotOwner = errors.New("only the owner can modify this resource")
)

// Owned is implemented by entities with an immutable owner reference
type Owned interface {
	OwnedBy() uuid.UUID
}

// Authorize permits a mutation iff the actor equals the entity's owner.
// An absent actor (uuid.Nil) always fails closed.
func Authorize(actorID uuid.UUID, entity Owned) error {
	if actorID == uuid.Nil {
		return ErrUnauthenticated
	}
	if actorID != entity.OwnedBy() {
		return ErrNotOwner
	}
	return nil
}

// IsUnauthenticated checks if the error is a missing-actor error
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsNotOwner checks if the error is an ownership mismatch error
func IsNotOwner(err error) bool {
	return errors.Is(err, ErrNotOwner)
}
