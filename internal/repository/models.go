package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/status"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(150);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	NationalID   string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	City         string    `gorm:"type:varchar(100)"`
	State        string    `gorm:"type:varchar(50)"`
	ZipCode      string    `gorm:"type:varchar(20)"`
	Address      string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt    time.Time `gorm:"type:timestamptz;not null"`
}

func (UserModel) TableName() string { return "users" }

// InstitutionModel is the GORM model for the institutions table.
type InstitutionModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(150);not null"`
	Email           string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	TaxID           string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	PasswordHash    string    `gorm:"type:varchar(100);not null"`
	ResponsibleName string    `gorm:"type:varchar(150)"`
	Kind            string    `gorm:"type:varchar(20);not null"`
	City            string    `gorm:"type:varchar(100)"`
	State           string    `gorm:"type:varchar(50)"`
	ZipCode         string    `gorm:"type:varchar(20)"`
	Address         string    `gorm:"type:text"`
	Latitude        *float64  `gorm:"type:double precision"`
	Longitude       *float64  `gorm:"type:double precision"`
	CreatedAt       time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time `gorm:"type:timestamptz;not null"`
}

func (InstitutionModel) TableName() string { return "institutions" }

// PetModel is the GORM model for the pets table.
type PetModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	InstitutionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(100);not null"`
	Species       string    `gorm:"type:varchar(10);not null;index"`
	Breed         string    `gorm:"type:varchar(100)"`
	Age           int       `gorm:"type:int;not null;default:0"`
	Size          string    `gorm:"type:varchar(10);not null;index"`
	Gender        string    `gorm:"type:varchar(10);not null;index"`
	Description   string    `gorm:"type:text"`
	IsVaccinated  bool      `gorm:"not null;default:false"`
	IsNeutered    bool      `gorm:"not null;default:false"`
	Photos        []string  `gorm:"type:jsonb;serializer:json;not null"`
	IsAvailable   bool      `gorm:"not null;default:true;index"`
	Version       int64     `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt     time.Time `gorm:"type:timestamptz;not null"`
}

func (PetModel) TableName() string { return "pets" }

// StatusEventModel is the GORM model for the append-only pet_status_events table.
type StatusEventModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PetID         uuid.UUID `gorm:"type:uuid;not null;index:idx_status_events_pet_created,priority:1"`
	InstitutionID uuid.UUID `gorm:"type:uuid;not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	Note          string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"type:timestamptz;not null;index:idx_status_events_pet_created,priority:2,sort:desc"`
}

func (StatusEventModel) TableName() string { return "pet_status_events" }

// AllModels lists every model, in dependency order, for development auto-migration.
func AllModels() []any {
	return []any{&UserModel{}, &InstitutionModel{}, &PetModel{}, &StatusEventModel{}}
}

// --- Conversions ---

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email(),
		NationalID:   u.NationalID(),
		PasswordHash: u.PasswordHash(),
		City:         u.City(),
		State:        u.State(),
		ZipCode:      u.ZipCode(),
		Address:      u.Address(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func toUserDomain(m *UserModel) *user.User {
	return user.Reconstruct(
		m.ID,
		m.Name, m.Email, m.NationalID, m.PasswordHash,
		m.City, m.State, m.ZipCode, m.Address,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toInstitutionModel(i *institution.Institution) *InstitutionModel {
	loc := i.Location()
	return &InstitutionModel{
		ID:              i.ID(),
		Name:            i.Name(),
		Email:           i.Email(),
		TaxID:           i.TaxID(),
		PasswordHash:    i.PasswordHash(),
		ResponsibleName: i.ResponsibleName(),
		Kind:            string(i.Kind()),
		City:            loc.City,
		State:           loc.State,
		ZipCode:         loc.ZipCode,
		Address:         loc.Address,
		Latitude:        loc.Latitude,
		Longitude:       loc.Longitude,
		CreatedAt:       i.CreatedAt(),
		UpdatedAt:       i.UpdatedAt(),
	}
}

func toInstitutionDomain(m *InstitutionModel) *institution.Institution {
	return institution.Reconstruct(
		m.ID,
		m.Name, m.Email, m.TaxID, m.PasswordHash, m.ResponsibleName,
		institution.Kind(m.Kind),
		institution.Location{
			City:      m.City,
			State:     m.State,
			ZipCode:   m.ZipCode,
			Address:   m.Address,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		},
		m.CreatedAt, m.UpdatedAt,
	)
}

func toPetModel(p *petDomain.Pet) *PetModel {
	return &PetModel{
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
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toPetDomain(m *PetModel) *petDomain.Pet {
	return petDomain.Reconstruct(
		m.ID, m.InstitutionID,
		petDomain.Attributes{
			Name:         m.Name,
			Species:      petDomain.Species(m.Species),
			Breed:        m.Breed,
			Age:          m.Age,
			Size:         petDomain.Size(m.Size),
			Gender:       petDomain.Gender(m.Gender),
			Description:  m.Description,
			IsVaccinated: m.IsVaccinated,
			IsNeutered:   m.IsNeutered,
			Photos:       m.Photos,
		},
		m.IsAvailable,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toStatusEventModel(e *status.Event) *StatusEventModel {
	return &StatusEventModel{
		ID:            e.ID(),
		PetID:         e.PetID(),
		InstitutionID: e.InstitutionID(),
		Status:        string(e.Status()),
		Note:          e.Note(),
		CreatedAt:     e.CreatedAt(),
	}
}

func toStatusEventDomain(m *StatusEventModel) *status.Event {
	return status.Reconstruct(m.ID, m.PetID, m.InstitutionID, status.Status(m.Status), m.Note, m.CreatedAt)
}
