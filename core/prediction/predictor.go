package prediction

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/campuspark/parkd/core/geo"
	"github.com/campuspark/parkd/core/logger"
	"github.com/campuspark/parkd/core/model"
)

// ErrNoHistoricalData signals that no observation matched the target
// slot and no heuristic was configured. It is non-fatal: the returned
// result still carries the low-confidence tier.
var ErrNoHistoricalData = errors.New("prediction: no historical data for target slot")

// Method identifies which path produced a prediction.
type Method string

const (
	MethodHistorical Method = "historical"
	MethodHeuristic  Method = "heuristic"
	MethodNone       Method = "none"
)

// Confidence tiers per path. Historical hits are trusted most, the
// calendar heuristic sits in the middle, a miss with no fallback at
// the bottom.
const (
	ConfidenceHistorical = 0.8
	ConfidenceHeuristic  = 0.6
	ConfidenceNoData     = 0.3
)

// Result is a single-point occupancy prediction for one lot.
type Result struct {
	LotID      string    `json:"lot_id"`
	Target     time.Time `json:"target"`
	Occupancy  int       `json:"occupancy"`
	Confidence float64   `json:"confidence"`
	Method     Method    `json:"method"`
}

// Predictor computes occupancy forecasts. It holds no state beyond its
// tuning knobs and the optional heuristic, so a single instance is
// safe to share.
type Predictor struct {
	// HistoryWindow bounds how far back matching observations may lie,
	// anchored at the prediction target.
	HistoryWindow time.Duration

	// AttendanceFactor converts expected event attendance into extra
	// occupied spaces.
	AttendanceFactor float64

	// Heuristic answers when no historical observation matches. Nil
	// disables the fallback and surfaces ErrNoHistoricalData instead.
	Heuristic *Heuristic

	log logger.Logger
}

// NewPredictor returns a predictor with production tuning. A nil
// logger is replaced by a no-op one.
func NewPredictor(h *Heuristic, log logger.Logger) *Predictor {
	if log == nil {
		log = nopLogger{}
	}
	return &Predictor{
		HistoryWindow:    30 * 24 * time.Hour,
		AttendanceFactor: 0.3,
		Heuristic:        h,
		log:              log,
	}
}

// PredictAt estimates the lot's occupancy at the target time from the
// supplied history and event snapshots. Inputs are never mutated.
//
// The historical path averages observations whose day-of-week and
// hour-of-day match the target inside the trailing window, then adds
// demand from events running near the lot around the target time. When
// nothing matches, the heuristic answers if configured; otherwise the
// zero estimate is returned together with ErrNoHistoricalData.
func (p *Predictor) PredictAt(lot model.Lot, target time.Time, history []model.OccupancyObservation, events []model.Event) (Result, error) {
	values := p.matchingValues(lot.ID, target, history)
	if len(values) == 0 {
		if p.Heuristic != nil {
			return Result{
				LotID:      lot.ID,
				Target:     target,
				Occupancy:  p.Heuristic.Estimate(lot, target),
				Confidence: ConfidenceHeuristic,
				Method:     MethodHeuristic,
			}, nil
		}
		return Result{
			LotID:      lot.ID,
			Target:     target,
			Confidence: ConfidenceNoData,
			Method:     MethodNone,
		}, ErrNoHistoricalData
	}

	estimate := stat.Mean(values, nil) + p.eventImpact(lot, target, events)
	return Result{
		LotID:      lot.ID,
		Target:     target,
		Occupancy:  clampOccupancy(estimate, lot.Capacity),
		Confidence: ConfidenceHistorical,
		Method:     MethodHistorical,
	}, nil
}

// matchingValues extracts occupancy samples for the same weekday and
// hour as the target, no older than the history window.
func (p *Predictor) matchingValues(lotID string, target time.Time, history []model.OccupancyObservation) []float64 {
	cutoff := target.Add(-p.HistoryWindow)
	var values []float64
	for _, obs := range history {
		if obs.LotID != lotID {
			continue
		}
		if obs.Timestamp.Before(cutoff) || obs.Timestamp.After(target) {
			continue
		}
		if obs.Timestamp.Weekday() != target.Weekday() || obs.Timestamp.Hour() != target.Hour() {
			continue
		}
		values = append(values, float64(obs.Occupancy))
	}
	return values
}

// eventImpact sums expected extra occupancy from events active around
// the target time within their impact radius of the lot.
func (p *Predictor) eventImpact(lot model.Lot, target time.Time, events []model.Event) float64 {
	impact := 0.0
	for _, ev := range events {
		if !ev.ActiveAround(target) {
			continue
		}
		dist, err := geo.Distance(lot.Latitude, lot.Longitude, ev.Latitude, ev.Longitude)
		if err != nil {
			p.log.Warnf("event %q has invalid coordinates, skipping: %v", ev.Name, err)
			continue
		}
		if dist <= ev.ImpactRadiusM {
			impact += float64(ev.ExpectedAttendance) * p.AttendanceFactor
		}
	}
	return impact
}

func clampOccupancy(estimate float64, capacity int) int {
	occ := int(math.Round(estimate))
	if occ < 0 {
		return 0
	}
	if occ > capacity {
		return capacity
	}
	return occ
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
