package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

const maxNoteLength = 1000

// InitialNote is attached to the AVAILABLE event recorded when a pet is registered.
const InitialNote = "Pet registered and available for adoption"

// Event is an immutable entry in a pet's status ledger.
type Event struct {
	id            uuid.UUID
	petID         uuid.UUID
	institutionID uuid.UUID
	status        Status
	note          string
	createdAt     time.Time
}

// NewEvent creates a ledger entry stamped by the process clock.
func NewEvent(petID, institutionID uuid.UUID, status Status, note string) (*Event, error) {
	return newEvent(defaultClock, uuid.New(), petID, institutionID, status, note)
}

// NewEventWithID is NewEvent with a caller-chosen id, used to make
// redelivered requests idempotent.
func NewEventWithID(id, petID, institutionID uuid.UUID, status Status, note string) (*Event, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("event ID is required")
	}
	return newEvent(defaultClock, id, petID, institutionID, status, note)
}

// NewEventWithClock is NewEvent with an explicit clock.
func NewEventWithClock(clock *Clock, petID, institutionID uuid.UUID, status Status, note string) (*Event, error) {
	return newEvent(clock, uuid.New(), petID, institutionID, status, note)
}

func newEvent(clock *Clock, id, petID, institutionID uuid.UUID, status Status, note string) (*Event, error) {
	if petID == uuid.Nil {
		return nil, domain.NewValidationError("pet ID is required")
	}
	if institutionID == uuid.Nil {
		return nil, domain.NewValidationError("institution ID is required")
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid pet status: %s", status))
	}
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLength {
		return nil, domain.NewValidationError(fmt.Sprintf("note must be at most %d characters", maxNoteLength))
	}

	return &Event{
		id:            id,
		petID:         petID,
		institutionID: institutionID,
		status:        status,
		note:          note,
		createdAt:     clock.Next(),
	}, nil
}

// Reconstruct rebuilds an Event from persistence data (no validation).
func Reconstruct(id, petID, institutionID uuid.UUID, status Status, note string, createdAt time.Time) *Event {
	return &Event{
		id:            id,
		petID:         petID,
		institutionID: institutionID,
		status:        status,
		note:          note,
		createdAt:     createdAt,
	}
}

// ID returns the event's unique identifier.
func (e *Event) ID() uuid.UUID { return e.id }

// PetID returns the pet this event describes.
func (e *Event) PetID() uuid.UUID { return e.petID }

// InstitutionID returns the institution that recorded the event.
func (e *Event) InstitutionID() uuid.UUID { return e.institutionID }

// Status returns the recorded status.
func (e *Event) Status() Status { return e.status }

// Note returns the optional free-text note.
func (e *Event) Note() string { return e.note }

// CreatedAt returns the ordering timestamp.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// MakesAvailable reports the availability flag this event implies.
func (e *Event) MakesAvailable() bool { return e.status.MakesAvailable() }

// NewerThan orders events newest-first, breaking timestamp ties on id.
func (e *Event) NewerThan(other *Event) bool {
	if !e.createdAt.Equal(other.createdAt) {
		return e.createdAt.After(other.createdAt)
	}
	return e.id.String() > other.id.String()
}
