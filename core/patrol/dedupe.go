package patrol

import (
	"sort"
	"time"

	"github.com/campuspark/parkd/core/model"
)

type violationKey struct {
	plate string
	lotID string
	vtype string
}

// DedupeViolations drops repeat reports of the same plate, lot and
// violation type arriving within an hour of the kept report, so a
// patrol officer and a sensor flagging the same car do not double its
// weight. The input is not mutated.
func DedupeViolations(violations []model.Violation) []model.Violation {
	sorted := make([]model.Violation, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	lastKept := make(map[violationKey]time.Time)
	kept := make([]model.Violation, 0, len(sorted))
	for _, v := range sorted {
		key := violationKey{plate: v.Plate, lotID: v.LotID, vtype: v.Type}
		if prev, ok := lastKept[key]; ok && v.Timestamp.Sub(prev) < time.Hour {
			continue
		}
		lastKept[key] = v.Timestamp
		kept = append(kept, v)
	}
	return kept
}
