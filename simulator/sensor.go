// Package simulator emits synthetic lot occupancy readings over MQTT so
// the service can be exercised without campus sensor hardware.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/campuspark/parkd/core/model"
)

var mqttClientFactory = realMQTTClient

func realMQTTClient(broker, clientID string) (paho.Client, error) {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	opts.AutoReconnect = true
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return cli, nil
}

// SimulatedSensor publishes periodic occupancy readings for one lot.
// Readings follow a daily occupancy curve with random drift so the
// numbers look like a live campus rather than a flat line.
type SimulatedSensor struct {
	Lot         model.Lot
	Broker      string
	TopicPrefix string
	Interval    time.Duration

	mu        sync.Mutex
	rng       *rand.Rand
	occupancy int
	client    paho.Client
}

// NewSimulatedSensor creates a sensor seeded for reproducible runs. The
// lot's configured occupancy is the starting point.
func NewSimulatedSensor(lot model.Lot, broker, topicPrefix string, interval time.Duration, seed int64) *SimulatedSensor {
	return &SimulatedSensor{
		Lot:         lot,
		Broker:      broker,
		TopicPrefix: topicPrefix,
		Interval:    interval,
		rng:         rand.New(rand.NewSource(seed)),
		occupancy:   lot.Occupancy,
	}
}

// Run connects to the broker and publishes readings until ctx is done.
func (s *SimulatedSensor) Run(ctx context.Context) error {
	cli, err := mqttClientFactory(s.Broker, "sim-"+s.Lot.ID)
	if err != nil {
		return err
	}
	s.client = cli

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	s.publishReading(time.Now())
	for {
		select {
		case now := <-ticker.C:
			s.publishReading(now)
		case <-ctx.Done():
			cli.Disconnect(250)
			return nil
		}
	}
}

func (s *SimulatedSensor) publishReading(now time.Time) {
	occ := s.nextOccupancy(now)
	payload, err := json.Marshal(struct {
		LotID     string `json:"lot_id"`
		Occupancy int    `json:"occupancy"`
		Source    string `json:"source"`
		Timestamp int64  `json:"timestamp"`
	}{
		LotID:     s.Lot.ID,
		Occupancy: occ,
		Source:    model.SourceSensor.String(),
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		log.Printf("%s: marshal reading: %v", s.Lot.ID, err)
		return
	}
	topic := fmt.Sprintf("%s/%s/occupancy", s.TopicPrefix, s.Lot.ID)
	token := s.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("%s: publish timeout", s.Lot.ID)
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("%s: publish error: %v", s.Lot.ID, err)
	}
}

// nextOccupancy drifts the current occupancy toward the hour's target
// level with a little random noise, clamped to [0, capacity].
func (s *SimulatedSensor) nextOccupancy(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := int(hourlyLoad(now) * float64(s.Lot.Capacity))
	drift := (target - s.occupancy) / 4
	noise := s.rng.Intn(5) - 2
	occ := s.occupancy + drift + noise
	if occ < 0 {
		occ = 0
	}
	if occ > s.Lot.Capacity {
		occ = s.Lot.Capacity
	}
	s.occupancy = occ
	return occ
}

// hourlyLoad maps a time of day to a campus load fraction: a morning
// ramp, a midday plateau, an evening tail.
func hourlyLoad(now time.Time) float64 {
	h := float64(now.Hour()) + float64(now.Minute())/60
	switch {
	case h < 6:
		return 0.05
	case h < 10:
		return 0.05 + 0.80*(h-6)/4
	case h < 16:
		return 0.85
	case h < 22:
		return math.Max(0.10, 0.85-0.75*(h-16)/6)
	default:
		return 0.10
	}
}
