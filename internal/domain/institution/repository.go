package institution

import (
	"context"

	"github.com/google/uuid"
)

// InstitutionRepository defines persistence operations for institutions.
type InstitutionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Institution, error)
	// FindByIDs returns the institutions that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Institution, error)
	FindByEmail(ctx context.Context, email string) (*Institution, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	// ExistsByEmailOrTaxID reports whether either natural key is taken.
	ExistsByEmailOrTaxID(ctx context.Context, email, taxID string) (bool, error)
	Save(ctx context.Context, inst *Institution) error
}
