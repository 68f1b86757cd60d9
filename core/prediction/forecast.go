package prediction

import (
	"time"

	"github.com/campuspark/parkd/core/model"
)

// Forecast produces independent hourly predictions for offsets 1..hours
// from now. An offset that cannot be predicted is logged and skipped;
// the remaining offsets are still returned.
func (p *Predictor) Forecast(lot model.Lot, now time.Time, hours int, history []model.OccupancyObservation, events []model.Event) []Result {
	results := make([]Result, 0, hours)
	for h := 1; h <= hours; h++ {
		target := now.Add(time.Duration(h) * time.Hour)
		res, err := p.PredictAt(lot, target, history, events)
		if err != nil {
			p.log.Warnf("forecast for lot %s at t+%dh skipped: %v", lot.ID, h, err)
			continue
		}
		results = append(results, res)
	}
	return results
}

// AsObservation converts a prediction into an append-ready observation
// record with the prediction source tag, the form it is persisted in.
func (r Result) AsObservation(id string) model.OccupancyObservation {
	return model.OccupancyObservation{
		ID:        id,
		LotID:     r.LotID,
		Occupancy: r.Occupancy,
		Timestamp: r.Target,
		Source:    model.SourcePrediction,
	}
}
