package patrol

import (
	"testing"
	"time"

	"github.com/campuspark/parkd/core/model"
)

func TestViolationLogRetention(t *testing.T) {
	log := NewViolationLog(24 * time.Hour)
	now := time.Now()
	log.Add(model.Violation{LotID: "a", Plate: "P1", Type: "no_permit", Timestamp: now.Add(-30 * time.Hour), Status: model.ViolationFlagged})
	log.Add(model.Violation{LotID: "a", Plate: "P2", Type: "no_permit", Timestamp: now, Status: model.ViolationFlagged})

	recent := log.Recent()
	if len(recent) != 1 || recent[0].Plate != "P2" {
		t.Fatalf("expected only the fresh violation, got %v", recent)
	}
}

func TestViolationLogRecentDeduplicates(t *testing.T) {
	log := NewViolationLog(24 * time.Hour)
	now := time.Now()
	log.Add(model.Violation{LotID: "a", Plate: "P1", Type: "no_permit", Timestamp: now.Add(-20 * time.Minute), Status: model.ViolationFlagged})
	log.Add(model.Violation{LotID: "a", Plate: "P1", Type: "no_permit", Timestamp: now, Status: model.ViolationFlagged})

	if got := log.Recent(); len(got) != 1 {
		t.Fatalf("duplicate report within the hour should be suppressed, got %d", len(got))
	}
}
