package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuspark/parkd/core/prediction"
	"github.com/campuspark/parkd/infra/logger"
)

// PredictionPublisher writes forecast results back to the broker so
// the analytics pipeline can persist them as prediction-sourced
// observations.
type PredictionPublisher struct {
	cli         pahoClient
	topicPrefix string
	qos         byte
	maxRetries  int
	backoff     time.Duration
	log         logger.Logger
}

// NewPredictionPublisher connects a publisher to the broker.
func NewPredictionPublisher(cfg Config) (*PredictionPublisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	qos := byte(0)
	if q, ok := cfg.QoS["prediction"]; ok {
		qos = q
	}
	return &PredictionPublisher{
		cli:         c,
		topicPrefix: cfg.LotTopicPrefix,
		qos:         qos,
		maxRetries:  cfg.MaxRetries,
		backoff:     time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:         logger.New("prediction_publisher"),
	}, nil
}

// predictionMessage is the wire format for a published forecast point.
type predictionMessage struct {
	ObservationID string  `json:"observation_id"`
	LotID         string  `json:"lot_id"`
	Occupancy     int     `json:"occupancy"`
	Confidence    float64 `json:"confidence"`
	Method        string  `json:"method"`
	Source        string  `json:"source"`
	Target        int64   `json:"target"` // unix milliseconds
}

// PublishForecast sends each prediction to the lot's prediction topic
// with retries and exponential backoff.
func (p *PredictionPublisher) PublishForecast(results []prediction.Result) error {
	for _, r := range results {
		msg := predictionMessage{
			ObservationID: uuid.NewString(),
			LotID:         r.LotID,
			Occupancy:     r.Occupancy,
			Confidence:    r.Confidence,
			Method:        string(r.Method),
			Source:        "prediction",
			Target:        r.Target.UnixMilli(),
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		topic := fmt.Sprintf("%s/%s/prediction", p.topicPrefix, r.LotID)
		if err := p.publish(topic, payload); err != nil {
			return err
		}
	}
	return nil
}

func (p *PredictionPublisher) publish(topic string, payload []byte) error {
	retries := p.maxRetries
	if retries <= 0 {
		retries = 3
	}
	backoff := p.backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	var publishErr error
	for attempt := 0; attempt <= retries; attempt++ {
		token := p.cli.Publish(topic, p.qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published to %s", topic)
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(backoff * time.Duration(1<<attempt))
	}
	return publishErr
}

// Close disconnects from the broker.
func (p *PredictionPublisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
