package application

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// DefaultHashCost is the bcrypt work factor for stored credentials.
const DefaultHashCost = 10

// PasswordHasher is a one-way salted hash with constant-time comparison.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
	// CompareDummy spends the same time as Compare against a real hash. It is
	// used when no account matches, so response time does not reveal that.
	CompareDummy(password string)
}

// BcryptHasher implements PasswordHasher with golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost  int
	dummy []byte
}

// NewBcryptHasher creates a hasher with the given cost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("adoption-dummy-credential"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &BcryptHasher{cost: cost, dummy: dummy}, nil
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewValidationError("password must be at most 72 bytes")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h *BcryptHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
