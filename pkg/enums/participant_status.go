package enums

import "fmt"

// ParticipantStatus is the per-team response state within a trade.
type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusAccepted ParticipantStatus = "accepted"
	ParticipantStatusRejected ParticipantStatus = "rejected"
)

var validParticipantStatuses = []ParticipantStatus{
	ParticipantStatusPending,
	ParticipantStatusAccepted,
	ParticipantStatusRejected,
}

// String implements fmt.Stringer.
func (p ParticipantStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ParticipantStatus.
func (p ParticipantStatus) IsValid() bool {
	for _, candidate := range validParticipantStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseParticipantStatus converts raw input into a ParticipantStatus.
func ParseParticipantStatus(value string) (ParticipantStatus, error) {
	for _, candidate := range validParticipantStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid participant status %q", value)
}
