package pet

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// Pet is the aggregate root for an adoptable pet listing.
//
// isAvailable mirrors the latest entry of the pet's status ledger. The
// aggregate exposes no way to change it; only the ledger's repository writes
// the column.
type Pet struct {
	id            uuid.UUID
	institutionID uuid.UUID
	name          string
	species       Species
	breed         string
	age           int
	size          Size
	gender        Gender
	description   string
	isVaccinated  bool
	isNeutered    bool
	photos        []string
	isAvailable   bool
	version       int64
	createdAt     time.Time
	updatedAt     time.Time
}

// Attributes are the client-controlled fields of a pet.
type Attributes struct {
	Name         string
	Species      Species
	Breed        string
	Age          int
	Size         Size
	Gender       Gender
	Description  string
	IsVaccinated bool
	IsNeutered   bool
	Photos       []string
}

// Changes is a partial update. A nil field is left untouched. Availability
// and ownership are deliberately absent.
type Changes struct {
	Name         *string
	Species      *Species
	Breed        *string
	Age          *int
	Size         *Size
	Gender       *Gender
	Description  *string
	IsVaccinated *bool
	IsNeutered   *bool
	Photos       []string
	PhotosSet    bool
}

// NewPet creates an available pet owned by the given institution.
func NewPet(institutionID uuid.UUID, attrs Attributes) (*Pet, error) {
	if institutionID == uuid.Nil {
		return nil, domain.NewValidationError("institution ID is required")
	}
	if err := validate(attrs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Pet{
		id:            uuid.New(),
		institutionID: institutionID,
		name:          strings.TrimSpace(attrs.Name),
		species:       attrs.Species,
		breed:         attrs.Breed,
		age:           attrs.Age,
		size:          attrs.Size,
		gender:        attrs.Gender,
		description:   attrs.Description,
		isVaccinated:  attrs.IsVaccinated,
		isNeutered:    attrs.IsNeutered,
		photos:        clonePhotos(attrs.Photos),
		isAvailable:   true,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Pet from persistence data (no validation).
func Reconstruct(
	id, institutionID uuid.UUID,
	attrs Attributes,
	isAvailable bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Pet {
	return &Pet{
		id:            id,
		institutionID: institutionID,
		name:          attrs.Name,
		species:       attrs.Species,
		breed:         attrs.Breed,
		age:           attrs.Age,
		size:          attrs.Size,
		gender:        attrs.Gender,
		description:   attrs.Description,
		isVaccinated:  attrs.IsVaccinated,
		isNeutered:    attrs.IsNeutered,
		photos:        clonePhotos(attrs.Photos),
		isAvailable:   isAvailable,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (p *Pet) ID() uuid.UUID            { return p.id }
func (p *Pet) InstitutionID() uuid.UUID { return p.institutionID }
func (p *Pet) Name() string             { return p.name }
func (p *Pet) Species() Species         { return p.species }
func (p *Pet) Breed() string            { return p.breed }
func (p *Pet) Age() int                 { return p.age }
func (p *Pet) Size() Size               { return p.size }
func (p *Pet) Gender() Gender           { return p.gender }
func (p *Pet) Description() string      { return p.description }
func (p *Pet) IsVaccinated() bool       { return p.isVaccinated }
func (p *Pet) IsNeutered() bool         { return p.isNeutered }
func (p *Pet) Photos() []string         { return clonePhotos(p.photos) }
func (p *Pet) IsAvailable() bool        { return p.isAvailable }
func (p *Pet) Version() int64           { return p.version }
func (p *Pet) CreatedAt() time.Time     { return p.createdAt }
func (p *Pet) UpdatedAt() time.Time     { return p.updatedAt }

// Attributes returns a copy of the client-controlled fields.
func (p *Pet) Attributes() Attributes {
	return Attributes{
		Name:         p.name,
		Species:      p.species,
		Breed:        p.breed,
		Age:          p.age,
		Size:         p.size,
		Gender:       p.gender,
		Description:  p.description,
		IsVaccinated: p.isVaccinated,
		IsNeutered:   p.isNeutered,
		Photos:       clonePhotos(p.photos),
	}
}

// --- Behavior ---

// Apply validates and applies a partial update, bumping the version.
func (p *Pet) Apply(c Changes) error {
	next := p.Attributes()
	if c.Name != nil {
		next.Name = strings.TrimSpace(*c.Name)
	}
	if c.Species != nil {
		next.Species = *c.Species
	}
	if c.Breed != nil {
		next.Breed = *c.Breed
	}
	if c.Age != nil {
		next.Age = *c.Age
	}
	if c.Size != nil {
		next.Size = *c.Size
	}
	if c.Gender != nil {
		next.Gender = *c.Gender
	}
	if c.Description != nil {
		next.Description = *c.Description
	}
	if c.IsVaccinated != nil {
		next.IsVaccinated = *c.IsVaccinated
	}
	if c.IsNeutered != nil {
		next.IsNeutered = *c.IsNeutered
	}
	if c.PhotosSet {
		next.Photos = clonePhotos(c.Photos)
	}
	if err := validate(next); err != nil {
		return err
	}

	p.name = next.Name
	p.species = next.Species
	p.breed = next.Breed
	p.age = next.Age
	p.size = next.Size
	p.gender = next.Gender
	p.description = next.Description
	p.isVaccinated = next.IsVaccinated
	p.isNeutered = next.IsNeutered
	p.photos = next.Photos
	p.version++
	p.updatedAt = time.Now().UTC()
	return nil
}

// IsEmpty reports whether the change set touches nothing.
func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.Species == nil && c.Breed == nil && c.Age == nil &&
		c.Size == nil && c.Gender == nil && c.Description == nil &&
		c.IsVaccinated == nil && c.IsNeutered == nil && !c.PhotosSet
}

func validate(a Attributes) error {
	if strings.TrimSpace(a.Name) == "" {
		return domain.NewValidationError("pet name is required")
	}
	if !a.Species.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid species: %s", a.Species))
	}
	if !a.Size.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid size: %s", a.Size))
	}
	if !a.Gender.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid gender: %s", a.Gender))
	}
	if a.Age < 0 {
		return domain.NewValidationError("age must not be negative")
	}
	for _, url := range a.Photos {
		if strings.TrimSpace(url) == "" {
			return domain.NewValidationError("photo references must not be empty")
		}
	}
	return nil
}

func clonePhotos(photos []string) []string {
	out := make([]string, len(photos))
	copy(out, photos)
	return out
}
