package status

import (
	"context"

	"github.com/google/uuid"
)

// EventRepository is the append-only store behind the status ledger.
type EventRepository interface {
	// Append stores the event and sets the pet's availability flag to
	// evt.MakesAvailable() as one atomic step.
	Append(ctx context.Context, evt *Event) error

	// FindByID returns one event or a NotFound error.
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)

	// History returns every event for the pet, newest first. Never nil.
	History(ctx context.Context, petID uuid.UUID) ([]*Event, error)

	// Latest returns the newest event or a NoStatus error.
	Latest(ctx context.Context, petID uuid.UUID) (*Event, error)
}
