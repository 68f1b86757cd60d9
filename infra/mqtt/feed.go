package mqtt

import (
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/campuspark/parkd/infra/logger"
	"github.com/campuspark/parkd/internal/eventbus"

	"github.com/campuspark/parkd/core/model"
)

// occupancyMessage is the wire format sensors publish on
// campus/lots/<id>/occupancy.
type occupancyMessage struct {
	LotID     string `json:"lot_id"`
	Occupancy int    `json:"occupancy"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// OccupancyFeed subscribes to sensor readings and republishes them on
// the event bus as typed updates.
type OccupancyFeed struct {
	cli   pahoClient
	topic string
	qos   byte
	bus   eventbus.EventBus
	log   logger.Logger
}

// NewOccupancyFeed connects to the broker and subscribes to the
// configured occupancy topic.
func NewOccupancyFeed(cfg Config, bus eventbus.EventBus) (*OccupancyFeed, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("occupancy_feed")
	qos := byte(0)
	if q, ok := cfg.QoS["occupancy"]; ok {
		qos = q
	}
	feed := &OccupancyFeed{topic: cfg.OccupancyTopic, qos: qos, bus: bus, log: log}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(feed.topic, feed.qos, feed.onReading); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	feed.cli = c
	return feed, nil
}

func (f *OccupancyFeed) onReading(_ paho.Client, msg paho.Message) {
	var m occupancyMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		f.log.Errorf("failed to decode occupancy reading: %v", err)
		return
	}
	if m.LotID == "" || m.Occupancy < 0 {
		f.log.Warnf("dropping malformed reading on %s", msg.Topic())
		return
	}
	ts := time.UnixMilli(m.Timestamp)
	if m.Timestamp == 0 {
		ts = time.Now()
	}
	f.bus.Publish(eventbus.Update{
		LotID:     m.LotID,
		Occupancy: m.Occupancy,
		Source:    model.ParseObservationSource(m.Source),
		Time:      ts,
	})
	f.log.Debugw("occupancy reading", map[string]any{
		"lot_id":    m.LotID,
		"occupancy": m.Occupancy,
		"source":    m.Source,
	})
}

// Close disconnects from the broker.
func (f *OccupancyFeed) Close() {
	if f.cli != nil && f.cli.IsConnected() {
		f.cli.Disconnect(250)
	}
}
