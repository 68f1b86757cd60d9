package prediction

import (
	"math/rand"
	"sync"
	"time"

	"github.com/campuspark/parkd/core/model"
)

// Heuristic estimates occupancy from the local calendar when no
// historical data exists for a slot. Weekday business hours run
// hottest, evenings next, weekends idle. The jitter source is injected
// so tests can pin it.
type Heuristic struct {
	// JitterFraction bounds the random deviation as a fraction of lot
	// capacity, applied symmetrically.
	JitterFraction float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristic creates a heuristic seeded for reproducible jitter.
func NewHeuristic(seed int64) *Heuristic {
	return &Heuristic{
		JitterFraction: 0.2,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Estimate returns a jittered baseline occupancy for the lot at t,
// clamped to [0, capacity].
func (h *Heuristic) Estimate(lot model.Lot, t time.Time) int {
	base := baselineFraction(t) * float64(lot.Capacity)

	h.mu.Lock()
	jitter := (h.rng.Float64()*2 - 1) * h.JitterFraction * float64(lot.Capacity)
	h.mu.Unlock()

	return clampOccupancy(base+jitter, lot.Capacity)
}

// baselineFraction maps a local timestamp to the expected occupancy
// share of capacity.
func baselineFraction(t time.Time) float64 {
	hour := t.Hour()
	weekday := t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
	switch {
	case weekday && hour >= 9 && hour < 15:
		return 0.8
	case hour >= 18 && hour < 22:
		return 0.6
	case !weekday:
		return 0.4
	default:
		return 0.3
	}
}
