package config

import (
	"fmt"

	"github.com/campuspark/parkd/core/model"
)

// CampusConfig seeds the service with the campus topology: the lot
// inventory and the scheduled events the predictor should account for.
// Live occupancy arrives over MQTT and overwrites the seeded values.
type CampusConfig struct {
	Lots   []model.Lot   `json:"lots"`
	Events []model.Event `json:"events"`
}

// Validate checks every seeded lot.
func (c CampusConfig) Validate() error {
	seen := make(map[string]bool, len(c.Lots))
	for _, lot := range c.Lots {
		if err := lot.Validate(); err != nil {
			return err
		}
		if seen[lot.ID] {
			return fmt.Errorf("duplicate lot id %s", lot.ID)
		}
		seen[lot.ID] = true
	}
	return nil
}

// PredictionConfig tunes the occupancy predictor.
type PredictionConfig struct {
	// HeuristicEnabled turns on the calendar fallback for lots with no
	// matching history.
	HeuristicEnabled bool `json:"heuristic_enabled"`
	// JitterSeed seeds the fallback's random source so runs are
	// reproducible.
	JitterSeed int64 `json:"jitter_seed"`
	// ForecastHours is how many hourly offsets the forecast endpoint
	// computes by default.
	ForecastHours int `json:"forecast_hours"`
}

// SetDefaults applies sane defaults.
func (c *PredictionConfig) SetDefaults() {
	if c.ForecastHours == 0 {
		c.ForecastHours = 6
	}
}

// Validate checks mandatory fields.
func (c PredictionConfig) Validate() error {
	if c.ForecastHours < 1 || c.ForecastHours > 24 {
		return fmt.Errorf("forecast_hours must be within [1,24], got %d", c.ForecastHours)
	}
	return nil
}

// PatrolConfig tunes the patrol route planner.
type PatrolConfig struct {
	MaxStops int `json:"max_stops"`
}

// SetDefaults applies sane defaults.
func (c *PatrolConfig) SetDefaults() {
	if c.MaxStops == 0 {
		c.MaxStops = 6
	}
}

// Validate checks mandatory fields.
func (c PatrolConfig) Validate() error {
	if c.MaxStops < 1 {
		return fmt.Errorf("max_stops must be positive, got %d", c.MaxStops)
	}
	return nil
}

// APIConfig holds the HTTP listener settings.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8088"
	}
}
