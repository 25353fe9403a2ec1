package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/status"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
)

// UserDTO is the public profile of a user account.
type UserDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	NationalID string    `json:"nationalId,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	Type       string    `json:"type,omitempty"`
}

// InstitutionDTO is the public profile of an institution.
type InstitutionDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	TaxID           string    `json:"taxId,omitempty"`
	Type            string    `json:"type"`
	ResponsibleName string    `json:"responsibleName,omitempty"`
	City            string    `json:"city"`
	State           string    `json:"state"`
}

// UserSession is returned by a successful user login.
type UserSession struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// InstitutionSession is returned by a successful institution login.
type InstitutionSession struct {
	Institution InstitutionDTO `json:"institution"`
	Token       string         `json:"token"`
}

// InstitutionSummaryDTO is the institution information embedded in pet and
// status reads.
type InstitutionSummaryDTO struct {
	Name      string   `json:"name"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// PetDTO is the API representation of a pet listing.
type PetDTO struct {
	ID            uuid.UUID              `json:"id"`
	InstitutionID uuid.UUID              `json:"institutionId"`
	Name          string                 `json:"name"`
	Species       string                 `json:"species"`
	Breed         string                 `json:"breed,omitempty"`
	Age           int                    `json:"age"`
	Size          string                 `json:"size"`
	Gender        string                 `json:"gender"`
	Description   string                 `json:"description"`
	IsVaccinated  bool                   `json:"isVaccinated"`
	IsNeutered    bool                   `json:"isNeutered"`
	Photos        []string               `json:"photos"`
	IsAvailable   bool                   `json:"isAvailable"`
	Institution   *InstitutionSummaryDTO `json:"institution,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// StatusEventDTO is the API representation of a ledger entry.
type StatusEventDTO struct {
	ID            uuid.UUID              `json:"id"`
	PetID         uuid.UUID              `json:"petId"`
	InstitutionID uuid.UUID              `json:"institutionId"`
	Status        string                 `json:"status"`
	Note          string                 `json:"note,omitempty"`
	Institution   *InstitutionSummaryDTO `json:"institution,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// InstitutionStatsDTO counts an institution's pets by availability.
type InstitutionStatsDTO struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Unavailable int64 `json:"unavailable"`
}

func toUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:         u.ID(),
		Name:       u.Name(),
		Email:      u.Email(),
		NationalID: u.NationalID(),
		City:       u.City(),
		State:      u.State(),
	}
}

func toInstitutionDTO(i *institution.Institution) InstitutionDTO {
	return InstitutionDTO{
		ID:              i.ID(),
		Name:            i.Name(),
		Email:           i.Email(),
		TaxID:           i.TaxID(),
		Type:            string(i.Kind()),
		ResponsibleName: i.ResponsibleName(),
		City:            i.Location().City,
		State:           i.Location().State,
	}
}

// toInstitutionSummary returns nil for a nil institution. detailed adds the
// address and coordinates.
func toInstitutionSummary(i *institution.Institution, detailed bool) *InstitutionSummaryDTO {
	if i == nil {
		return nil
	}
	loc := i.Location()
	s := &InstitutionSummaryDTO{
		Name:  i.Name(),
		City:  loc.City,
		State: loc.State,
	}
	if detailed {
		s.Address = loc.Address
		s.Latitude = loc.Latitude
		s.Longitude = loc.Longitude
	}
	return s
}

func toPetDTO(p *petDomain.Pet) PetDTO {
	return PetDTO{
		ID:            p.ID(),
		InstitutionID: p.InstitutionID(),
		Name:          p.Name(),
		Species:       string(p.Species()),
		Breed:         p.Breed(),
		Age:           p.Age(),
		Size:          string(p.Size()),
		Gender:        string(p.Gender()),
		Description:   p.Description(),
		IsVaccinated:  p.IsVaccinated(),
		IsNeutered:    p.IsNeutered(),
		Photos:        p.Photos(),
		IsAvailable:   p.IsAvailable(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toStatusEventDTO(e *status.Event) StatusEventDTO {
	return StatusEventDTO{
		ID:            e.ID(),
		PetID:         e.PetID(),
		InstitutionID: e.InstitutionID(),
		Status:        string(e.Status()),
		Note:          e.Note(),
		CreatedAt:     e.CreatedAt(),
	}
}

func userSessionDTO(u *user.User, token string) *UserSession {
	dto := toUserDTO(u)
	dto.NationalID = ""
	dto.Type = string(principal.KindUser)
	return &UserSession{User: dto, Token: token}
}

func institutionSessionDTO(i *institution.Institution, token string) *InstitutionSession {
	dto := toInstitutionDTO(i)
	dto.TaxID = ""
	dto.ResponsibleName = ""
	return &InstitutionSession{Institution: dto, Token: token}
}
