// Package schema defines the topics, CloudEvent types and payloads the
// adoption service publishes and consumes.
package schema

import (
	"time"

	"github.com/google/uuid"
)

// Source is the CloudEvent source of every event this service publishes.
const Source = "service-adoption"

// Topics.
const (
	TopicPetEvents             = "adoption.pet.events"
	TopicAdoptionProcessEvents = "adoption.process.events"
)

// Event types published on TopicPetEvents.
const (
	PetCreated       = "pet.created"
	PetUpdated       = "pet.updated"
	PetDeleted       = "pet.deleted"
	PetStatusChanged = "pet.status_changed"
)

// AdoptionProcessUpdated is consumed from TopicAdoptionProcessEvents.
const AdoptionProcessUpdated = "adoption.process.updated"

// processEventNamespace scopes status event ids derived from consumed messages.
var processEventNamespace = uuid.MustParse("6f1c2a4e-9b1d-5c3e-8a7f-2d4b6e8c0a13")

// StatusEventID derives the ledger id for a consumed message, so a redelivery
// maps to the event recorded the first time.
func StatusEventID(messageID string) uuid.UUID {
	return uuid.NewSHA1(processEventNamespace, []byte(messageID))
}

// PetCreatedEvent is published after a pet and its initial status commit.
type PetCreatedEvent struct {
	PetID         uuid.UUID `json:"petId"`
	InstitutionID uuid.UUID `json:"institutionId"`
	Name          string    `json:"name"`
	Species       string    `json:"species"`
	IsAvailable   bool      `json:"isAvailable"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// PetUpdatedEvent is published after a pet's attributes change.
type PetUpdatedEvent struct {
	PetID         uuid.UUID `json:"petId"`
	InstitutionID uuid.UUID `json:"institutionId"`
	Version       int64     `json:"version"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// PetDeletedEvent is published after a pet and its history are removed.
type PetDeletedEvent struct {
	PetID         uuid.UUID `json:"petId"`
	InstitutionID uuid.UUID `json:"institutionId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// PetStatusChangedEvent is published after a status event is appended.
type PetStatusChangedEvent struct {
	EventID       uuid.UUID `json:"eventId"`
	PetID         uuid.UUID `json:"petId"`
	InstitutionID uuid.UUID `json:"institutionId"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	IsAvailable   bool      `json:"isAvailable"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// AdoptionProcessUpdatedEvent is reported by the adoption workflow when an
// application moves a pet through the process.
type AdoptionProcessUpdatedEvent struct {
	PetID         uuid.UUID `json:"petId"`
	InstitutionID uuid.UUID `json:"institutionId"`
	Status        string    `json:"status"`
	Note          string    `json:"note"`
}
