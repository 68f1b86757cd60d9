package model

import "time"

// Event is a campus happening that drives extra parking demand near
// its location while it runs.
type Event struct {
	Name               string    `json:"name"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	ExpectedAttendance int       `json:"expected_attendance"`
	ImpactRadiusM      float64   `json:"impact_radius_m"` // meters
}

// ActiveAround reports whether t falls inside the event's demand
// window, which extends one hour before the start and one hour past
// the end to cover arrival and departure traffic.
func (e Event) ActiveAround(t time.Time) bool {
	return t.After(e.Start.Add(-time.Hour)) && t.Before(e.End.Add(time.Hour))
}
