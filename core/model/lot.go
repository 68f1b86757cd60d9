package model

import "fmt"

// Lot represents a parking area snapshot as read from the campus data
// store. The core never mutates a Lot; sensor and admin updates happen
// upstream and arrive as fresh snapshots.
type Lot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`  // total number of spaces, expected > 0
	Occupancy int     `json:"occupancy"` // current occupied spaces, 0 <= Occupancy <= Capacity
	Latitude  float64 `json:"latitude"`  // degrees
	Longitude float64 `json:"longitude"` // degrees

	// Restrictions lists the permit categories allowed to park here.
	// An empty list means the lot is unrestricted.
	Restrictions []string `json:"restrictions,omitempty"`

	// Amenities holds feature tags such as "covered", "ev_charging" or
	// "handicap_accessible".
	Amenities []string `json:"amenities,omitempty"`
}

// Validate checks that the lot snapshot is sound.
// In particular Capacity must be positive.
func (l Lot) Validate() error {
	if l.Capacity <= 0 {
		return fmt.Errorf("lot %s: capacity must be positive", l.ID)
	}
	if l.Occupancy < 0 || l.Occupancy > l.Capacity {
		return fmt.Errorf("lot %s: occupancy %d out of range [0,%d]", l.ID, l.Occupancy, l.Capacity)
	}
	return nil
}

// AvailableSpots returns the number of free spaces, floored at zero so
// an over-reporting sensor cannot produce a negative count.
func (l Lot) AvailableSpots() int {
	n := l.Capacity - l.Occupancy
	if n < 0 {
		return 0
	}
	return n
}

// OccupancyRate returns Occupancy/Capacity. A zero-capacity lot is
// anomalous but still scorable; it reports a rate of 0.
func (l Lot) OccupancyRate() float64 {
	if l.Capacity == 0 {
		return 0
	}
	return float64(l.Occupancy) / float64(l.Capacity)
}

// PermitAllowed returns true if the lot is unrestricted or the given
// permit appears in its restriction list.
func (l Lot) PermitAllowed(permit string) bool {
	if len(l.Restrictions) == 0 {
		return true
	}
	for _, r := range l.Restrictions {
		if r == permit {
			return true
		}
	}
	return false
}

// HasAmenity returns true if the lot carries the given amenity tag.
func (l Lot) HasAmenity(tag string) bool {
	for _, a := range l.Amenities {
		if a == tag {
			return true
		}
	}
	return false
}
