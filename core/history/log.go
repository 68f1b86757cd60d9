// Package history keeps the rolling occupancy observation log the
// predictor reads its matching windows from.
package history

import (
	"sync"
	"time"

	"github.com/campuspark/parkd/core/model"
)

// ObservationLog is an append-only in-memory observation history with
// a bounded retention window.
type ObservationLog struct {
	mu        sync.RWMutex
	retention time.Duration
	byLot     map[string][]model.OccupancyObservation
}

// NewObservationLog creates a log retaining observations for the given
// duration. Retention must cover the predictor's history window or
// matching samples will be lost.
func NewObservationLog(retention time.Duration) *ObservationLog {
	return &ObservationLog{
		retention: retention,
		byLot:     map[string][]model.OccupancyObservation{},
	}
}

// Append records an observation and drops entries for the same lot
// that fell out of the retention window.
func (l *ObservationLog) Append(obs model.OccupancyObservation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := append(l.byLot[obs.LotID], obs)
	cutoff := obs.Timestamp.Add(-l.retention)
	for len(entries) > 0 && entries[0].Timestamp.Before(cutoff) {
		entries = entries[1:]
	}
	l.byLot[obs.LotID] = entries
}

// ForLot returns a copy of the lot's retained observations in append
// order.
func (l *ObservationLog) ForLot(lotID string) []model.OccupancyObservation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := l.byLot[lotID]
	cp := make([]model.OccupancyObservation, len(entries))
	copy(cp, entries)
	return cp
}

// Len returns the number of retained observations across all lots.
func (l *ObservationLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, entries := range l.byLot {
		n += len(entries)
	}
	return n
}
