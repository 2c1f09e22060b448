// Package toggle flips marker rows (likes, subscriptions) between present
// and absent without a check-then-act race. The store's unique index is the
// arbiter: concurrent toggles for the same pair serialize on it, and the
// coordinator converges by re-reading once when an insert loses.
package toggle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/logger"
)

// ErrConflict is returned when a toggle cannot converge because another
// writer keeps flipping the same pair mid-retry.
var ErrConflict = errors.New("toggle conflict: concurrent writers on the same pair")

// IsConflict checks if an error indicates a toggle that lost its retry
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// State is the resulting state of a toggle
type State string

const (
	// Present means the marker row exists after the toggle
	Present State = "present"
	// Absent means the marker row is gone after the toggle
	Absent State = "absent"
)

// Store abstracts one marker relation keyed by (actor, target). The backing
// table must enforce a unique index on the pair so Create of an existing
// pair fails with a duplicate error.
type Store interface {
	// Find returns the row id of the marker for the pair, if present
	Find(ctx context.Context, actorID, targetID uuid.UUID) (uuid.UUID, bool, error)
	// Create inserts the marker for the pair
	Create(ctx context.Context, actorID, targetID uuid.UUID) error
	// Delete removes the marker row by id
	Delete(ctx context.Context, rowID uuid.UUID) error
}

// Coordinator executes race-safe toggles against a Store
type Coordinator struct {
	store Store
	name  string
}

// NewCoordinator creates a coordinator for a named marker relation.
// The name only feeds log fields.
func NewCoordinator(name string, store Store) *Coordinator {
	return &Coordinator{store: store, name: name}
}

// Toggle flips the marker for (actorID, targetID) and reports the resulting
// state. Each call inverts the state observed at its linearization point:
// two racing toggles net out to one insert and one delete, never two rows.
func (c *Coordinator) Toggle(ctx context.Context, actorID, targetID uuid.UUID) (State, error) {
	rowID, found, err := c.store.Find(ctx, actorID, targetID)
	if err != nil && !db.IsNotFound(err) {
		return "", fmt.Errorf("failed to read %s marker: %w", c.name, err)
	}

	if found {
		return c.remove(ctx, rowID)
	}
	return c.insert(ctx, actorID, targetID, true)
}

// remove deletes the observed row. A concurrent toggle may have deleted it
// first; the pair is absent either way, so that is still a successful off.
func (c *Coordinator) remove(ctx context.Context, rowID uuid.UUID) (State, error) {
	if err := c.store.Delete(ctx, rowID); err != nil {
		if db.IsNotFound(err) {
			logger.Log.Debug().
				Str("relation", c.name).
				Str("row_id", rowID.String()).
				Msg("Marker already removed by concurrent toggle")
			return Absent, nil
		}
		return "", fmt.Errorf("failed to remove %s marker: %w", c.name, err)
	}
	return Absent, nil
}

// insert creates the marker. Losing to a concurrent insert means the pair
// is now present; re-read once and delete it so this call still inverts
// the state it observed.
func (c *Coordinator) insert(ctx context.Context, actorID, targetID uuid.UUID, retry bool) (State, error) {
	err := c.store.Create(ctx, actorID, targetID)
	if err == nil {
		return Present, nil
	}
	if !db.IsDuplicate(err) {
		return "", fmt.Errorf("failed to place %s marker: %w", c.name, err)
	}
	if !retry {
		return "", ErrConflict
	}

	logger.Log.Debug().
		Str("relation", c.name).
		Str("actor_id", actorID.String()).
		Str("target_id", targetID.String()).
		Msg("Marker insert lost to concurrent toggle, re-reading")

	rowID, found, err := c.store.Find(ctx, actorID, targetID)
	if err != nil && !db.IsNotFound(err) {
		return "", fmt.Errorf("failed to re-read %s marker: %w", c.name, err)
	}
	if found {
		return c.remove(ctx, rowID)
	}
	// the winning row vanished already; one more insert, no further retry
	return c.insert(ctx, actorID, targetID, false)
}
