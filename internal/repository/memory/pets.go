package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
)

// PetRepository implements pet.PetRepository. Stored pets are private
// copies so callers cannot mutate the store through a returned pointer.
type PetRepository struct{ s *Store }

func clonePet(p *petDomain.Pet, isAvailable bool, updatedAt time.Time) *petDomain.Pet {
	return petDomain.Reconstruct(p.ID(), p.InstitutionID(), p.Attributes(), isAvailable, p.Version(), p.CreatedAt(), updatedAt)
}

func (r *PetRepository) FindByID(ctx context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	var found *petDomain.Pet
	r.s.read(ctx, func() {
		if p, ok := r.s.pets[id]; ok {
			found = clonePet(p, p.IsAvailable(), p.UpdatedAt())
		}
	})
	if found == nil {
		return nil, domain.NewNotFoundError("Pet", id.String())
	}
	return found, nil
}

// FindByIDForUpdate is FindByID; a store transaction already holds the write lock.
func (r *PetRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	return r.FindByID(ctx, id)
}

func (r *PetRepository) List(ctx context.Context, filter petDomain.Filter, page domain.PageRequest) ([]*petDomain.Pet, int64, error) {
	page = page.Normalize()

	var matched []*petDomain.Pet
	r.s.read(ctx, func() {
		for _, p := range r.s.pets {
			if matches(p, filter) {
				matched = append(matched, clonePet(p, p.IsAvailable(), p.UpdatedAt()))
			}
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID().String() > b.ID().String()
	})

	total := int64(len(matched))
	start := page.Offset()
	if start >= len(matched) {
		return []*petDomain.Pet{}, total, nil
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matches(p *petDomain.Pet, f petDomain.Filter) bool {
	if f.Species != nil && p.Species() != *f.Species {
		return false
	}
	if f.Size != nil && p.Size() != *f.Size {
		return false
	}
	if f.Gender != nil && p.Gender() != *f.Gender {
		return false
	}
	if f.IsAvailable != nil && p.IsAvailable() != *f.IsAvailable {
		return false
	}
	if f.InstitutionID != nil && p.InstitutionID() != *f.InstitutionID {
		return false
	}
	return true
}

func (r *PetRepository) CountByAvailability(ctx context.Context, institutionID uuid.UUID) (map[bool]int64, error) {
	counts := map[bool]int64{true: 0, false: 0}
	r.s.read(ctx, func() {
		for _, p := range r.s.pets {
			if p.InstitutionID() == institutionID {
				counts[p.IsAvailable()]++
			}
		}
	})
	return counts, nil
}

func (r *PetRepository) Save(ctx context.Context, p *petDomain.Pet) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.institutions[p.InstitutionID()]; !ok {
			return domain.NewNotFoundError("Institution", p.InstitutionID().String())
		}
		if _, exists := r.s.pets[p.ID()]; exists {
			return domain.NewConflictError("pet already exists")
		}
		r.s.pets[p.ID()] = clonePet(p, p.IsAvailable(), p.UpdatedAt())
		return nil
	})
}

// Update stores the new attributes and keeps the stored availability flag.
func (r *PetRepository) Update(ctx context.Context, p *petDomain.Pet) error {
	return r.s.write(ctx, func() error {
		stored, ok := r.s.pets[p.ID()]
		if !ok || stored.Version() != p.Version()-1 {
			return domain.NewConflictError("pet was modified by another transaction")
		}
		r.s.pets[p.ID()] = clonePet(p, stored.IsAvailable(), p.UpdatedAt())
		return nil
	})
}

// Delete removes the pet together with its status history.
func (r *PetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.pets[id]; !ok {
			return domain.NewNotFoundError("Pet", id.String())
		}
		delete(r.s.pets, id)
		delete(r.s.events, id)
		return nil
	})
}
