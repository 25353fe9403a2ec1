package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/status"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events/schema"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
)

// RecordStatusRequest is the request DTO for appending a status event.
// Description is accepted as an alias of Note.
type RecordStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Note        string `json:"note"`
	Description string `json:"description"`

	// EventID makes the call idempotent: when an event with this id is
	// already in the pet's ledger it is returned and nothing is appended.
	EventID uuid.UUID `json:"-"`
}

func (r RecordStatusRequest) note() string {
	if strings.TrimSpace(r.Note) != "" {
		return r.Note
	}
	return r.Description
}

// StatusService is the status ledger: the append-only history of a pet's
// adoption status and the only writer of its availability flag.
type StatusService struct {
	pets         petDomain.PetRepository
	events       status.EventRepository
	institutions institution.InstitutionRepository
	tx           database.Transactor
	publisher    EventPublisher
	recorder     Recorder
	logger       *zap.Logger
}

// NewStatusService creates a new StatusService. publisher and recorder may be nil.
func NewStatusService(
	pets petDomain.PetRepository,
	events status.EventRepository,
	institutions institution.InstitutionRepository,
	tx database.Transactor,
	publisher EventPublisher,
	recorder Recorder,
	logger *zap.Logger,
) *StatusService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &StatusService{
		pets:         pets,
		events:       events,
		institutions: institutions,
		tx:           tx,
		publisher:    publisher,
		recorder:     recorder,
		logger:       logger,
	}
}

// RecordEvent appends a status event for a pet owned by the calling
// institution and updates the pet's availability in the same transaction.
func (s *StatusService) RecordEvent(ctx context.Context, p principal.Principal, petID uuid.UUID, req RecordStatusRequest) (*StatusEventDTO, error) {
	st, err := status.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var (
		evt      *status.Event
		replayed bool
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// The row lock orders concurrent appends so the newest event is
		// also the last one to write the flag.
		pet, err := s.pets.FindByIDForUpdate(ctx, petID)
		if err != nil {
			return err
		}
		if err := principal.AuthorizeOwnership(p, pet.InstitutionID()); err != nil {
			return err
		}

		if req.EventID == uuid.Nil {
			evt, err = status.NewEvent(pet.ID(), p.ID, st, req.note())
		} else {
			existing, findErr := s.events.FindByID(ctx, req.EventID)
			switch {
			case findErr == nil && existing.PetID() == pet.ID():
				evt, replayed = existing, true
				return nil
			case findErr == nil:
				return domain.NewConflictError(fmt.Sprintf("status event %s belongs to another pet", req.EventID))
			case domain.KindOf(findErr) != domain.KindNotFound:
				return findErr
			}
			evt, err = status.NewEventWithID(req.EventID, pet.ID(), p.ID, st, req.note())
		}
		if err != nil {
			return err
		}
		return s.events.Append(ctx, evt)
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		s.logger.Info("status event already recorded",
			zap.String("event_id", evt.ID().String()),
			zap.String("pet_id", evt.PetID().String()),
		)
	} else {
		s.afterAppend(ctx, evt)
	}

	result := toStatusEventDTO(evt)
	s.attachInstitutions(ctx, []*StatusEventDTO{&result})
	return &result, nil
}

// recordInitial appends the AVAILABLE event every new pet starts with. It
// must run inside the transaction that saves the pet.
func (s *StatusService) recordInitial(ctx context.Context, pet *petDomain.Pet) (*status.Event, error) {
	evt, err := status.NewEvent(pet.ID(), pet.InstitutionID(), status.StatusAvailable, status.InitialNote)
	if err != nil {
		return nil, err
	}
	if err := s.events.Append(ctx, evt); err != nil {
		return nil, fmt.Errorf("failed to record initial status: %w", err)
	}
	return evt, nil
}

// afterAppend runs the post-commit side effects of a new event.
func (s *StatusService) afterAppend(ctx context.Context, evt *status.Event) {
	s.recorder.StatusEventRecorded(string(evt.Status()))
	s.logger.Info("pet status recorded",
		zap.String("pet_id", evt.PetID().String()),
		zap.String("institution_id", evt.InstitutionID().String()),
		zap.String("status", string(evt.Status())),
	)

	publishEvent(ctx, s.publisher, s.logger, schema.PetStatusChanged, evt.PetID().String(), schema.PetStatusChangedEvent{
		EventID:       evt.ID(),
		PetID:         evt.PetID(),
		InstitutionID: evt.InstitutionID(),
		Status:        string(evt.Status()),
		Note:          evt.Note(),
		IsAvailable:   evt.MakesAvailable(),
		OccurredAt:    evt.CreatedAt(),
	})
}

// History returns a pet's events, newest first. An unknown pet has an empty history.
func (s *StatusService) History(ctx context.Context, petID uuid.UUID) ([]StatusEventDTO, error) {
	events, err := s.events.History(ctx, petID)
	if err != nil {
		return nil, err
	}

	dtos := make([]StatusEventDTO, len(events))
	refs := make([]*StatusEventDTO, len(events))
	for i, e := range events {
		dtos[i] = toStatusEventDTO(e)
		refs[i] = &dtos[i]
	}
	s.attachInstitutions(ctx, refs)
	return dtos, nil
}

// Current returns a pet's newest event, or a NoStatus error.
func (s *StatusService) Current(ctx context.Context, petID uuid.UUID) (*StatusEventDTO, error) {
	evt, err := s.events.Latest(ctx, petID)
	if err != nil {
		return nil, err
	}
	result := toStatusEventDTO(evt)
	s.attachInstitutions(ctx, []*StatusEventDTO{&result})
	return &result, nil
}

// attachInstitutions embeds the acting institution's summary. A lookup
// failure leaves the summaries empty rather than failing the read.
func (s *StatusService) attachInstitutions(ctx context.Context, dtos []*StatusEventDTO) {
	if len(dtos) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(dtos))
	for _, d := range dtos {
		ids = append(ids, d.InstitutionID)
	}
	found, err := s.institutions.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		s.logger.Warn("failed to load institution summaries", zap.Error(err))
		return
	}
	for _, d := range dtos {
		d.Institution = toInstitutionSummary(found[d.InstitutionID], false)
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
