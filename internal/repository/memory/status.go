package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/status"
)

// StatusRepository implements status.EventRepository.
type StatusRepository struct{ s *Store }

// Append stores evt and rewrites the pet's availability under one lock.
func (r *StatusRepository) Append(ctx context.Context, evt *status.Event) error {
	return r.s.write(ctx, func() error {
		p, ok := r.s.pets[evt.PetID()]
		if !ok {
			return domain.NewNotFoundError("Pet", evt.PetID().String())
		}
		if r.findLocked(evt.ID()) != nil {
			return domain.NewConflictError(fmt.Sprintf("status event %s already recorded", evt.ID()))
		}
		r.s.events[evt.PetID()] = append(r.s.events[evt.PetID()], evt)
		r.s.pets[evt.PetID()] = clonePet(p, evt.MakesAvailable(), evt.CreatedAt())
		return nil
	})
}

func (r *StatusRepository) FindByID(ctx context.Context, id uuid.UUID) (*status.Event, error) {
	var found *status.Event
	r.s.read(ctx, func() { found = r.findLocked(id) })
	if found == nil {
		return nil, domain.NewNotFoundError("StatusEvent", id.String())
	}
	return found, nil
}

func (r *StatusRepository) findLocked(id uuid.UUID) *status.Event {
	for _, events := range r.s.events {
		for _, e := range events {
			if e.ID() == id {
				return e
			}
		}
	}
	return nil
}

func (r *StatusRepository) History(ctx context.Context, petID uuid.UUID) ([]*status.Event, error) {
	var events []*status.Event
	r.s.read(ctx, func() {
		events = append([]*status.Event{}, r.s.events[petID]...)
	})
	sort.Slice(events, func(i, j int) bool { return events[i].NewerThan(events[j]) })
	return events, nil
}

func (r *StatusRepository) Latest(ctx context.Context, petID uuid.UUID) (*status.Event, error) {
	events, err := r.History(ctx, petID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.NewNoStatusError(petID.String())
	}
	return events[0], nil
}
