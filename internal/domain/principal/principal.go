package principal

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind distinguishes the two kinds of authenticated actor.
type Kind string

const (
	KindUser        Kind = "user"
	KindInstitution Kind = "institution"
)

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	return k == KindUser || k == KindInstitution
}

func (k Kind) String() string { return string(k) }

// ParseKind converts a string to a Kind, returning an error if invalid.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid principal kind: %s", s)
	}
	return k, nil
}

// Principal is a verified identity claim: who is acting and as what.
type Principal struct {
	ID   uuid.UUID
	Kind Kind
}

// New builds a principal.
func New(id uuid.UUID, kind Kind) Principal {
	return Principal{ID: id, Kind: kind}
}

// IsInstitution reports whether the principal acts as an institution.
func (p Principal) IsInstitution() bool {
	return p.Kind == KindInstitution
}
