// Package lotstatus keeps the latest known snapshot of every lot so
// each scoring or prediction call works from a consistent read view.
package lotstatus

import (
	"sort"
	"sync"
	"time"

	"github.com/campuspark/parkd/core/model"
)

// Filter narrows a List call. Zero values match everything.
type Filter struct {
	Permit     string // only lots this permit may park in
	HasAmenity string
}

// Store holds lot snapshots.
type Store interface {
	Set(model.Lot)
	Get(id string) (model.Lot, bool)
	List(Filter) []model.Lot
	RecordOccupancy(id string, occupancy int, ts time.Time)
}

// MemoryStore is the in-process Store used by the service. Snapshots
// are replaced whole; the core never mutates a stored lot in place.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]model.Lot
	updated map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]model.Lot{}, updated: map[string]time.Time{}}
}

func (s *MemoryStore) Set(lot model.Lot) {
	s.mu.Lock()
	s.data[lot.ID] = lot
	s.mu.Unlock()
}

func (s *MemoryStore) Get(id string) (model.Lot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lot, ok := s.data[id]
	return lot, ok
}

// RecordOccupancy applies a sensor reading to the stored snapshot.
// Readings older than the last applied one are dropped, so a delayed
// retransmit cannot roll occupancy backwards.
func (s *MemoryStore) RecordOccupancy(id string, occupancy int, ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lot, ok := s.data[id]
	if !ok {
		return
	}
	if last, seen := s.updated[id]; seen && ts.Before(last) {
		return
	}
	lot.Occupancy = occupancy
	s.data[id] = lot
	s.updated[id] = ts
}

func (s *MemoryStore) List(f Filter) []model.Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Lot, 0, len(s.data))
	for _, lot := range s.data {
		if f.Permit != "" && !lot.PermitAllowed(f.Permit) {
			continue
		}
		if f.HasAmenity != "" && !lot.HasAmenity(f.HasAmenity) {
			continue
		}
		res = append(res, lot)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
