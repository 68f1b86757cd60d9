// Package patrol turns recent flagged violations into a prioritized
// enforcement route over the campus lots.
package patrol

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/campuspark/parkd/core/model"
)

// Priority buckets a stop by its recent violation pressure.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Stop is one lot visit on a patrol route.
type Stop struct {
	LotID            string   `json:"lot_id"`
	Name             string   `json:"name"`
	ViolationCount   int      `json:"violation_count"`
	Priority         Priority `json:"priority"`
	EstimatedMinutes int      `json:"estimated_minutes"`
}

// Route is an ordered patrol plan. New routes are persisted upstream
// with status pending.
type Route struct {
	ID           string    `json:"id"`
	GeneratedAt  time.Time `json:"generated_at"`
	Stops        []Stop    `json:"stops"`
	TotalMinutes int       `json:"total_minutes"`
	Status       string    `json:"status"`
}

// Planner builds routes from violation counts. The zero value is
// unusable; NewPlanner returns the production tuning.
type Planner struct {
	MaxStops            int
	BaseMinutes         int // fixed dwell time per stop
	PerViolationMinutes int // extra dwell time per counted violation
	TravelMinutes       int // inter-stop travel estimate

	HighAbove   int // violation count above which a stop is high priority
	MediumAbove int

	// LookBack bounds which flagged violations still count.
	LookBack time.Duration
}

// NewPlanner returns a planner with the production tuning.
func NewPlanner() Planner {
	return Planner{
		MaxStops:            6,
		BaseMinutes:         10,
		PerViolationMinutes: 2,
		TravelMinutes:       5,
		HighAbove:           5,
		MediumAbove:         2,
		LookBack:            24 * time.Hour,
	}
}

// BuildRoute counts flagged violations per lot inside the look-back
// window, builds one stop per lot (zero-count lots included), orders
// stops by descending count with input order breaking ties, and keeps
// the MaxStops hottest. An empty violation set still yields a route of
// low-priority stops.
func (p Planner) BuildRoute(lots []model.Lot, violations []model.Violation, now time.Time) Route {
	counts := p.countFlagged(violations, now)

	stops := make([]Stop, 0, len(lots))
	for _, lot := range lots {
		n := counts[lot.ID]
		stops = append(stops, Stop{
			LotID:            lot.ID,
			Name:             lot.Name,
			ViolationCount:   n,
			Priority:         p.priority(n),
			EstimatedMinutes: p.BaseMinutes + p.PerViolationMinutes*n,
		})
	}

	sort.SliceStable(stops, func(i, j int) bool { return stops[i].ViolationCount > stops[j].ViolationCount })
	if len(stops) > p.MaxStops {
		stops = stops[:p.MaxStops]
	}

	total := 0
	for _, s := range stops {
		total += s.EstimatedMinutes
	}
	if n := len(stops); n > 1 {
		total += p.TravelMinutes * (n - 1)
	}

	return Route{
		ID:           uuid.NewString(),
		GeneratedAt:  now,
		Stops:        stops,
		TotalMinutes: total,
		Status:       "pending",
	}
}

// countFlagged tallies flagged violations per lot within the window.
func (p Planner) countFlagged(violations []model.Violation, now time.Time) map[string]int {
	cutoff := now.Add(-p.LookBack)
	counts := make(map[string]int)
	for _, v := range violations {
		if v.Status != model.ViolationFlagged {
			continue
		}
		if v.Timestamp.Before(cutoff) || v.Timestamp.After(now) {
			continue
		}
		counts[v.LotID]++
	}
	return counts
}

func (p Planner) priority(count int) Priority {
	switch {
	case count > p.HighAbove:
		return PriorityHigh
	case count > p.MediumAbove:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
