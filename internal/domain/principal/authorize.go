package principal

import (
	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// AuthorizeOwnership is the single ownership policy for pets and their status
// ledger: only the owning institution may mutate a resource.
func AuthorizeOwnership(p Principal, resourceOwnerID uuid.UUID) error {
	if !p.IsInstitution() {
		return domain.NewForbiddenError("only institutions can modify pets")
	}
	if p.ID == uuid.Nil || p.ID != resourceOwnerID {
		return domain.NewForbiddenError("you do not have permission to modify this pet")
	}
	return nil
}
