package metrics

import coremetrics "github.com/campuspark/parkd/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRecommendations forwards the records to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRecommendations(records []coremetrics.RecommendationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRecommendations(records); err != nil {
			return err
		}
	}
	return nil
}

// RecordPrediction forwards prediction outcomes when supported by the sink.
func (m *MultiSink) RecordPrediction(rec coremetrics.PredictionRecord) error {
	for _, s := range m.Sinks {
		if pr, ok := s.(coremetrics.PredictionRecorder); ok {
			if err := pr.RecordPrediction(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordOccupancy forwards occupancy updates when supported by the sink.
func (m *MultiSink) RecordOccupancy(rec coremetrics.OccupancyRecord) error {
	for _, s := range m.Sinks {
		if or, ok := s.(coremetrics.OccupancyRecorder); ok {
			if err := or.RecordOccupancy(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRoute forwards route summaries when supported by the sink.
func (m *MultiSink) RecordRoute(rec coremetrics.RouteRecord) error {
	for _, s := range m.Sinks {
		if rr, ok := s.(coremetrics.RouteRecorder); ok {
			if err := rr.RecordRoute(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
