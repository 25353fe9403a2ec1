package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/institution"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
)

// GormInstitutionRepository implements institution.InstitutionRepository using GORM.
type GormInstitutionRepository struct {
	db *gorm.DB
}

// NewGormInstitutionRepository creates a new GormInstitutionRepository.
func NewGormInstitutionRepository(db *gorm.DB) *GormInstitutionRepository {
	return &GormInstitutionRepository{db: db}
}

func (r *GormInstitutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*institution.Institution, error) {
	var model InstitutionModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Institution", id.String())
		}
		return nil, fmt.Errorf("failed to find institution by ID: %w", err)
	}
	return toInstitutionDomain(&model), nil
}

// FindByIDs loads every institution in ids with one query.
func (r *GormInstitutionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*institution.Institution, error) {
	out := make(map[uuid.UUID]*institution.Institution, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []InstitutionModel
	if err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find institutions: %w", err)
	}
	for i := range models {
		out[models[i].ID] = toInstitutionDomain(&models[i])
	}
	return out, nil
}

func (r *GormInstitutionRepository) FindByEmail(ctx context.Context, email string) (*institution.Institution, error) {
	var model InstitutionModel
	if err := database.Conn(ctx, r.db).Where("email = ?", user.NormalizeEmail(email)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Institution", email)
		}
		return nil, fmt.Errorf("failed to find institution by email: %w", err)
	}
	return toInstitutionDomain(&model), nil
}

func (r *GormInstitutionRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&InstitutionModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check institution: %w", err)
	}
	return count > 0, nil
}

func (r *GormInstitutionRepository) ExistsByEmailOrTaxID(ctx context.Context, email, taxID string) (bool, error) {
	var count int64
	if err := database.Conn(ctx, r.db).
		Model(&InstitutionModel{}).
		Where("email = ? OR tax_id = ?", user.NormalizeEmail(email), taxID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check institution identity: %w", err)
	}
	return count > 0, nil
}

// Save inserts an institution. A unique-key violation is reported as a duplicate identity.
func (r *GormInstitutionRepository) Save(ctx context.Context, inst *institution.Institution) error {
	if err := database.Conn(ctx, r.db).Create(toInstitutionModel(inst)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicateIdentityError("institution already exists")
		}
		return fmt.Errorf("failed to save institution: %w", err)
	}
	return nil
}
