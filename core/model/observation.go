package model

import "time"

// ObservationSource identifies where an occupancy sample came from.
type ObservationSource int

const (
	SourceSensor ObservationSource = iota
	SourceManual
	SourcePrediction
)

// String returns a human-readable representation of the source.
func (s ObservationSource) String() string {
	switch s {
	case SourceSensor:
		return "sensor"
	case SourceManual:
		return "manual"
	case SourcePrediction:
		return "prediction"
	default:
		return "unknown"
	}
}

// ParseObservationSource maps the wire representation back to a source
// tag. Unknown strings default to sensor, the most common origin.
func ParseObservationSource(s string) ObservationSource {
	switch s {
	case "manual":
		return SourceManual
	case "prediction":
		return SourcePrediction
	default:
		return SourceSensor
	}
}

// OccupancyObservation is one sample of a lot's occupancy history.
// History is append-only and owned by the external store; the
// predictor only ever reads a filtered window of it.
type OccupancyObservation struct {
	ID        string
	LotID     string
	Occupancy int
	Timestamp time.Time
	Source    ObservationSource
}
