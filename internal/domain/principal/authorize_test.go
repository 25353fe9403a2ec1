package principal

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

func TestAuthorizeOwnership(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name    string
		p       Principal
		ownerID uuid.UUID
		allowed bool
	}{
		{"owning institution", New(owner, KindInstitution), owner, true},
		{"other institution", New(other, KindInstitution), owner, false},
		{"user with same id", New(owner, KindUser), owner, false},
		{"nil principal", New(uuid.Nil, KindInstitution), uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeOwnership(tt.p, tt.ownerID)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrForbidden))
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("institution")
	assert.NoError(t, err)
	assert.Equal(t, KindInstitution, k)

	_, err = ParseKind("admin")
	assert.Error(t, err)
}
