package status

import (
	"fmt"
	"strings"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// Status represents the adoption state of a pet at a point in time.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusInProcess   Status = "IN_PROCESS"
	StatusAdopted     Status = "ADOPTED"
	StatusUnavailable Status = "UNAVAILABLE"
)

var allStatuses = []Status{StatusAvailable, StatusInProcess, StatusAdopted, StatusUnavailable}

// IsValid returns true if the status is a recognized adoption status.
func (s Status) IsValid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// MakesAvailable reports whether a pet whose latest status is s can be adopted.
func (s Status) MakesAvailable() bool {
	return s == StatusAvailable
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid pet status: %s", s))
	}
	return status, nil
}
