package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
)

// GormUserRepository implements user.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model UserModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return toUserDomain(&model), nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := database.Conn(ctx, r.db).Where("email = ?", user.NormalizeEmail(email)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return toUserDomain(&model), nil
}

func (r *GormUserRepository) ExistsByEmailOrNationalID(ctx context.Context, email, nationalID string) (bool, error) {
	var count int64
	if err := database.Conn(ctx, r.db).
		Model(&UserModel{}).
		Where("email = ? OR national_id = ?", user.NormalizeEmail(email), nationalID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user identity: %w", err)
	}
	return count > 0, nil
}

// Save inserts a user. A unique-key violation is reported as a duplicate identity.
func (r *GormUserRepository) Save(ctx context.Context, u *user.User) error {
	if err := database.Conn(ctx, r.db).Create(toUserModel(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicateIdentityError("user already exists")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
