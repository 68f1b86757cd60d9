package metrics

import "time"

// RecommendationRecord represents one served lot recommendation.
type RecommendationRecord struct {
	LotID     string
	Permit    string
	Tier      string
	Score     float64
	DistanceM float64
	Time      time.Time
}

// MetricsSink records recommendation servings for observability.
type MetricsSink interface {
	RecordRecommendations(records []RecommendationRecord) error
}

// PredictionRecord captures one occupancy prediction outcome.
type PredictionRecord struct {
	LotID      string
	Method     string
	Confidence float64
	Occupancy  int
	Target     time.Time
	Time       time.Time
}

// PredictionRecorder records prediction outcomes.
type PredictionRecorder interface {
	RecordPrediction(rec PredictionRecord) error
}

// OccupancyRecord is a live occupancy update applied to a lot.
type OccupancyRecord struct {
	LotID     string
	Occupancy int
	Capacity  int
	Source    string
	Time      time.Time
}

// OccupancyRecorder records live occupancy updates.
type OccupancyRecorder interface {
	RecordOccupancy(rec OccupancyRecord) error
}

// RouteRecord summarizes a generated patrol route.
type RouteRecord struct {
	RouteID      string
	Stops        int
	Violations   int
	TotalMinutes int
	Time         time.Time
}

// RouteRecorder records patrol route generation.
type RouteRecorder interface {
	RecordRoute(rec RouteRecord) error
}

// NopSink implements MetricsSink and every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRecommendations([]RecommendationRecord) error { return nil }
func (NopSink) RecordPrediction(PredictionRecord) error            { return nil }
func (NopSink) RecordOccupancy(OccupancyRecord) error              { return nil }
func (NopSink) RecordRoute(RouteRecord) error                      { return nil }
