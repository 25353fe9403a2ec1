package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/status"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
)

// GormStatusRepository implements status.EventRepository using GORM. It is
// the only writer of pets.is_available.
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GormStatusRepository.
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// Append inserts the event and rewrites the pet's availability flag in one
// transaction. A missing pet rolls the insert back.
func (r *GormStatusRepository) Append(ctx context.Context, evt *status.Event) error {
	return database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toStatusEventModel(evt)).Error; err != nil {
			switch {
			case errors.Is(err, gorm.ErrForeignKeyViolated):
				return domain.NewNotFoundError("Pet", evt.PetID().String())
			case errors.Is(err, gorm.ErrDuplicatedKey):
				return domain.NewConflictError(fmt.Sprintf("status event %s already recorded", evt.ID()))
			}
			return fmt.Errorf("failed to append status event: %w", err)
		}

		result := tx.Model(&PetModel{}).
			Where("id = ?", evt.PetID()).
			Updates(map[string]any{
				"is_available": evt.MakesAvailable(),
				"updated_at":   evt.CreatedAt(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update pet availability: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Pet", evt.PetID().String())
		}
		return nil
	})
}

// FindByID retrieves one event.
func (r *GormStatusRepository) FindByID(ctx context.Context, id uuid.UUID) (*status.Event, error) {
	var model StatusEventModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("StatusEvent", id.String())
		}
		return nil, fmt.Errorf("failed to find status event: %w", err)
	}
	return toStatusEventDomain(&model), nil
}

// History returns the pet's events newest first.
func (r *GormStatusRepository) History(ctx context.Context, petID uuid.UUID) ([]*status.Event, error) {
	var models []StatusEventModel
	if err := database.Conn(ctx, r.db).
		Where("pet_id = ?", petID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}

	events := make([]*status.Event, len(models))
	for i := range models {
		events[i] = toStatusEventDomain(&models[i])
	}
	return events, nil
}

// Latest returns the pet's newest event.
func (r *GormStatusRepository) Latest(ctx context.Context, petID uuid.UUID) (*status.Event, error) {
	var model StatusEventModel
	err := database.Conn(ctx, r.db).
		Where("pet_id = ?", petID).
		Order("created_at DESC").
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNoStatusError(petID.String())
		}
		return nil, fmt.Errorf("failed to load current status: %w", err)
	}
	return toStatusEventDomain(&model), nil
}
