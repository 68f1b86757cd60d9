package model

import "time"

// ViolationStatus tracks a violation through its lifecycle.
type ViolationStatus int

const (
	ViolationFlagged ViolationStatus = iota
	ViolationCited
	ViolationDismissed
)

// String returns a human-readable representation of the status.
func (s ViolationStatus) String() string {
	switch s {
	case ViolationFlagged:
		return "flagged"
	case ViolationCited:
		return "cited"
	case ViolationDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// Violation is a recorded parking violation. Only flagged violations
// inside a trailing 24h window count toward patrol prioritization.
type Violation struct {
	LotID     string
	Plate     string
	Type      string
	Timestamp time.Time
	Status    ViolationStatus
}
