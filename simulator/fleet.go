package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campuspark/parkd/core/model"
)

// Config holds the simulator parameters.
type Config struct {
	Broker      string
	TopicPrefix string
	Interval    time.Duration
	Seed        int64
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}

// Fleet runs one simulated sensor per lot.
type Fleet struct {
	sensors []*SimulatedSensor
}

// NewFleet builds a sensor per lot. Each sensor gets its own derived
// seed so lots do not move in lockstep.
func NewFleet(cfg Config, lots []model.Lot) *Fleet {
	sensors := make([]*SimulatedSensor, 0, len(lots))
	for i, lot := range lots {
		sensors = append(sensors, NewSimulatedSensor(lot, cfg.Broker, cfg.TopicPrefix, cfg.Interval, cfg.Seed+int64(i)))
	}
	return &Fleet{sensors: sensors}
}

// Run starts every sensor and blocks until ctx is done and all sensors
// have stopped. The first connection error cancels the whole fleet.
func (f *Fleet) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(f.sensors))
	for _, s := range f.sensors {
		wg.Add(1)
		go func(s *SimulatedSensor) {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				errCh <- fmt.Errorf("%s: %w", s.Lot.ID, err)
				cancel()
			}
		}(s)
	}
	wg.Wait()
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
