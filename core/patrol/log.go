package patrol

import (
	"sync"
	"time"

	"github.com/campuspark/parkd/core/model"
)

// ViolationLog collects reported violations in memory so the planner
// always works from a consistent recent snapshot.
type ViolationLog struct {
	mu        sync.RWMutex
	retention time.Duration
	entries   []model.Violation
}

// NewViolationLog creates a log retaining violations for the given
// duration, which must cover the planner's look-back window.
func NewViolationLog(retention time.Duration) *ViolationLog {
	return &ViolationLog{retention: retention}
}

// Add records a violation and drops entries older than the retention
// window.
func (l *ViolationLog) Add(v model.Violation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, v)
	cutoff := v.Timestamp.Add(-l.retention)
	for len(l.entries) > 0 && l.entries[0].Timestamp.Before(cutoff) {
		l.entries = l.entries[1:]
	}
}

// Recent returns a deduplicated copy of the retained violations.
func (l *ViolationLog) Recent() []model.Violation {
	l.mu.RLock()
	cp := make([]model.Violation, len(l.entries))
	copy(cp, l.entries)
	l.mu.RUnlock()
	return DedupeViolations(cp)
}
