package pet

import (
	"fmt"
	"strings"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// Species of an adoptable pet.
type Species string

const (
	SpeciesDog Species = "DOG"
	SpeciesCat Species = "CAT"
)

// IsValid returns true if the species is recognized.
func (s Species) IsValid() bool {
	return s == SpeciesDog || s == SpeciesCat
}

// Size of an adoptable pet.
type Size string

const (
	SizeSmall  Size = "SMALL"
	SizeMedium Size = "MEDIUM"
	SizeLarge  Size = "LARGE"
)

// IsValid returns true if the size is recognized.
func (s Size) IsValid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// Gender of an adoptable pet.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// IsValid returns true if the gender is recognized.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// ParseSpecies converts a string to a Species, case-insensitively.
func ParseSpecies(s string) (Species, error) {
	v := Species(strings.ToUpper(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid species: %s", s))
	}
	return v, nil
}

// ParseSize converts a string to a Size, case-insensitively.
func ParseSize(s string) (Size, error) {
	v := Size(strings.ToUpper(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid size: %s", s))
	}
	return v, nil
}

// ParseGender converts a string to a Gender, case-insensitively.
func ParseGender(s string) (Gender, error) {
	v := Gender(strings.ToUpper(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid gender: %s", s))
	}
	return v, nil
}
