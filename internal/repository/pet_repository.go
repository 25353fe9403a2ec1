package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	petDomain "github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
)

// attributeColumns are the columns the generic update path may write.
// is_available and institution_id are excluded.
var attributeColumns = []string{
	"name", "species", "breed", "age", "size", "gender", "description",
	"is_vaccinated", "is_neutered", "photos", "version", "updated_at",
}

// GormPetRepository implements PetRepository using GORM.
type GormPetRepository struct {
	db *gorm.DB
}

// NewGormPetRepository creates a new GormPetRepository.
func NewGormPetRepository(db *gorm.DB) *GormPetRepository {
	return &GormPetRepository{db: db}
}

// FindByID retrieves a pet by id.
func (r *GormPetRepository) FindByID(ctx context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	var model PetModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Pet", id.String())
		}
		return nil, fmt.Errorf("failed to find pet by ID: %w", err)
	}
	return toPetDomain(&model), nil
}

// FindByIDForUpdate retrieves a pet with SELECT ... FOR UPDATE. It must run
// inside a transaction for the lock to outlive the query.
func (r *GormPetRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	var model PetModel
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Pet", id.String())
		}
		return nil, fmt.Errorf("failed to lock pet: %w", err)
	}
	return toPetDomain(&model), nil
}

// List returns one page of pets matching filter, newest first, and the total match count.
func (r *GormPetRepository) List(ctx context.Context, filter petDomain.Filter, page domain.PageRequest) ([]*petDomain.Pet, int64, error) {
	page = page.Normalize()
	query := applyPetFilter(database.Conn(ctx, r.db).Model(&PetModel{}), filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pets: %w", err)
	}

	var models []PetModel
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list pets: %w", err)
	}

	pets := make([]*petDomain.Pet, len(models))
	for i := range models {
		pets[i] = toPetDomain(&models[i])
	}
	return pets, total, nil
}

func applyPetFilter(q *gorm.DB, f petDomain.Filter) *gorm.DB {
	if f.Species != nil {
		q = q.Where("species = ?", string(*f.Species))
	}
	if f.Size != nil {
		q = q.Where("size = ?", string(*f.Size))
	}
	if f.Gender != nil {
		q = q.Where("gender = ?", string(*f.Gender))
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}
	if f.InstitutionID != nil {
		q = q.Where("institution_id = ?", *f.InstitutionID)
	}
	return q
}

// CountByAvailability returns the institution's pet counts keyed by availability.
func (r *GormPetRepository) CountByAvailability(ctx context.Context, institutionID uuid.UUID) (map[bool]int64, error) {
	var rows []struct {
		IsAvailable bool
		Count       int64
	}
	if err := database.Conn(ctx, r.db).
		Model(&PetModel{}).
		Select("is_available, COUNT(*) AS count").
		Where("institution_id = ?", institutionID).
		Group("is_available").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count pets: %w", err)
	}

	counts := map[bool]int64{true: 0, false: 0}
	for _, row := range rows {
		counts[row.IsAvailable] = row.Count
	}
	return counts, nil
}

// Save inserts a new pet.
func (r *GormPetRepository) Save(ctx context.Context, pet *petDomain.Pet) error {
	if err := database.Conn(ctx, r.db).Create(toPetModel(pet)).Error; err != nil {
		return fmt.Errorf("failed to save pet: %w", err)
	}
	return nil
}

// Update writes attribute columns guarded by the previous version.
func (r *GormPetRepository) Update(ctx context.Context, pet *petDomain.Pet) error {
	model := toPetModel(pet)
	previousVersion := pet.Version() - 1

	result := database.Conn(ctx, r.db).
		Model(&PetModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Select(attributeColumns).
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update pet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("pet was modified by another transaction")
	}
	return nil
}

// Delete removes the pet and its status history in one transaction.
func (r *GormPetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pet_id = ?", id).Delete(&StatusEventModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete status history: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&PetModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete pet: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Pet", id.String())
		}
		return nil
	})
}
