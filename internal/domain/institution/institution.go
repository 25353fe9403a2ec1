package institution

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
)

// Kind is the legal nature of an institution.
type Kind string

const (
	KindNGO          Kind = "NGO"
	KindMunicipality Kind = "MUNICIPALITY"
)

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	return k == KindNGO || k == KindMunicipality
}

// ParseKind converts a string to a Kind, failing with an InvalidKind error.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", domain.NewInvalidKindError(fmt.Sprintf("invalid institution kind %q: must be NGO or MUNICIPALITY", s))
	}
	return k, nil
}

// Location is the postal address and optional coordinates of an institution.
type Location struct {
	City      string
	State     string
	ZipCode   string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// Institution is a shelter or municipal body that lists pets for adoption.
type Institution struct {
	id              uuid.UUID
	name            string
	email           string
	taxID           string
	passwordHash    string
	responsibleName string
	kind            Kind
	location        Location
	createdAt       time.Time
	updatedAt       time.Time
}

// Profile holds the registration fields of an institution, minus the credential.
type Profile struct {
	Name            string
	Email           string
	TaxID           string
	ResponsibleName string
	Kind            Kind
	Location        Location
}

// NewInstitution creates an institution from a validated profile and an already hashed credential.
func NewInstitution(p Profile, passwordHash string) (*Institution, error) {
	email := user.NormalizeEmail(p.Email)
	if strings.TrimSpace(p.Name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if strings.TrimSpace(p.TaxID) == "" {
		return nil, domain.NewValidationError("tax id is required")
	}
	if !p.Kind.IsValid() {
		return nil, domain.NewInvalidKindError(fmt.Sprintf("invalid institution kind %q: must be NGO or MUNICIPALITY", p.Kind))
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password is required")
	}

	now := time.Now().UTC()
	return &Institution{
		id:              uuid.New(),
		name:            strings.TrimSpace(p.Name),
		email:           email,
		taxID:           strings.TrimSpace(p.TaxID),
		passwordHash:    passwordHash,
		responsibleName: p.ResponsibleName,
		kind:            p.Kind,
		location:        p.Location,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds an Institution from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, email, taxID, passwordHash, responsibleName string,
	kind Kind,
	location Location,
	createdAt, updatedAt time.Time,
) *Institution {
	return &Institution{
		id:              id,
		name:            name,
		email:           email,
		taxID:           taxID,
		passwordHash:    passwordHash,
		responsibleName: responsibleName,
		kind:            kind,
		location:        location,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (i *Institution) ID() uuid.UUID           { return i.id }
func (i *Institution) Name() string            { return i.name }
func (i *Institution) Email() string           { return i.email }
func (i *Institution) TaxID() string           { return i.taxID }
func (i *Institution) PasswordHash() string    { return i.passwordHash }
func (i *Institution) ResponsibleName() string { return i.responsibleName }
func (i *Institution) Kind() Kind              { return i.kind }
func (i *Institution) Location() Location      { return i.location }
func (i *Institution) CreatedAt() time.Time    { return i.createdAt }
func (i *Institution) UpdatedAt() time.Time    { return i.updatedAt }
