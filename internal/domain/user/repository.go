package user

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByEmailOrNationalID reports whether either natural key is taken.
	ExistsByEmailOrNationalID(ctx context.Context, email, nationalID string) (bool, error)
	Save(ctx context.Context, u *User) error
}
