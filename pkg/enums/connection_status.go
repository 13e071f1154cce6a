package enums

import "fmt"

// ConnectionStatus maps to the connection_status enum in Postgres.
type ConnectionStatus string

const (
	ConnectionStatusInterested ConnectionStatus = "interested"
	ConnectionStatusIgnored    ConnectionStatus = "ignored"
	ConnectionStatusSuperliked ConnectionStatus = "superliked"
	ConnectionStatusAccepted   ConnectionStatus = "accepted"
	ConnectionStatusRejected   ConnectionStatus = "rejected"
)

var validConnectionStatuses = []ConnectionStatus{
	ConnectionStatusInterested,
	ConnectionStatusIgnored,
	ConnectionStatusSuperliked,
	ConnectionStatusAccepted,
	ConnectionStatusRejected,
}

// Statuses a sender may create a request in.
var initialConnectionStatuses = []ConnectionStatus{
	ConnectionStatusIgnored,
	ConnectionStatusInterested,
	ConnectionStatusSuperliked,
}

// Statuses a recipient may still act on.
var reviewableConnectionStatuses = []ConnectionStatus{
	ConnectionStatusInterested,
	ConnectionStatusSuperliked,
}

// Statuses a recipient may resolve a request to.
var reviewDecisions = []ConnectionStatus{
	ConnectionStatusAccepted,
	ConnectionStatusRejected,
}

func (s ConnectionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical connection_status enum.
func (s ConnectionStatus) IsValid() bool {
	return containsStatus(validConnectionStatuses, s)
}

func (s ConnectionStatus) IsInitial() bool {
	return containsStatus(initialConnectionStatuses, s)
}

func (s ConnectionStatus) IsReviewable() bool {
	return containsStatus(reviewableConnectionStatuses, s)
}

func (s ConnectionStatus) IsDecision() bool {
	return containsStatus(reviewDecisions, s)
}

// ReviewableConnectionStatuses returns a copy of the statuses a review can move out of.
func ReviewableConnectionStatuses() []ConnectionStatus {
	out := make([]ConnectionStatus, len(reviewableConnectionStatuses))
	copy(out, reviewableConnectionStatuses)
	return out
}

// ParseConnectionStatus converts raw input into ConnectionStatus.
func ParseConnectionStatus(value string) (ConnectionStatus, error) {
	for _, candidate := range validConnectionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid connection status %q", value)
}

func containsStatus(set []ConnectionStatus, s ConnectionStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}
