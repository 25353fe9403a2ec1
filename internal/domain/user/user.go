package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// User is an adopter account.
type User struct {
	id           uuid.UUID
	name         string
	email        string
	nationalID   string
	passwordHash string
	city         string
	state        string
	zipCode      string
	address      string
	createdAt    time.Time
	updatedAt    time.Time
}

// Profile holds the registration fields of a user, minus the credential.
type Profile struct {
	Name       string
	Email      string
	NationalID string
	City       string
	State      string
	ZipCode    string
	Address    string
}

// NewUser creates a user from a validated profile and an already hashed credential.
func NewUser(p Profile, passwordHash string) (*User, error) {
	email := NormalizeEmail(p.Email)
	if strings.TrimSpace(p.Name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if strings.TrimSpace(p.NationalID) == "" {
		return nil, domain.NewValidationError("national id is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password is required")
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		name:         strings.TrimSpace(p.Name),
		email:        email,
		nationalID:   strings.TrimSpace(p.NationalID),
		passwordHash: passwordHash,
		city:         p.City,
		state:        p.State,
		zipCode:      p.ZipCode,
		address:      p.Address,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, email, nationalID, passwordHash string,
	city, state, zipCode, address string,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		nationalID:   nationalID,
		passwordHash: passwordHash,
		city:         city,
		state:        state,
		zipCode:      zipCode,
		address:      address,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) NationalID() string   { return u.nationalID }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) City() string         { return u.city }
func (u *User) State() string        { return u.state }
func (u *User) ZipCode() string      { return u.zipCode }
func (u *User) Address() string      { return u.address }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
