package pet

import (
	"context"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// Filter narrows a listing. Nil fields impose no constraint; set fields are ANDed.
type Filter struct {
	Species       *Species
	Size          *Size
	Gender        *Gender
	IsAvailable   *bool
	InstitutionID *uuid.UUID
}

// PetRepository defines persistence operations for pet listings.
//
// There is no operation that writes availability: the status ledger owns it.
type PetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Pet, error)
	// FindByIDForUpdate is FindByID holding a row lock until the surrounding
	// transaction ends, so status appends to one pet are serialized.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Pet, error)
	List(ctx context.Context, filter Filter, page domain.PageRequest) ([]*Pet, int64, error)
	// CountByAvailability returns pet counts keyed by availability for one institution.
	CountByAvailability(ctx context.Context, institutionID uuid.UUID) (map[bool]int64, error)
	Save(ctx context.Context, pet *Pet) error
	// Update persists attribute changes with optimistic locking on version.
	Update(ctx context.Context, pet *Pet) error
	// Delete removes the pet and its status history.
	Delete(ctx context.Context, id uuid.UUID) error
}
