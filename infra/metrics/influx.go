package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/campuspark/parkd/core/metrics"
	"github.com/campuspark/parkd/infra/logger"
)

// InfluxSink writes parking events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRecommendations writes served recommendations as line protocol events.
func (s *InfluxSink) RecordRecommendations(records []coremetrics.RecommendationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range records {
		p := write.NewPointWithMeasurement("recommendation_served").
			AddTag("lot_id", r.LotID).
			AddTag("tier", r.Tier).
			AddTag("permit", r.Permit).
			AddTag("component", "recommend_scorer").
			AddField("score", round3(r.Score)).
			AddField("distance_m", round3(r.DistanceM)).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordPrediction persists one prediction outcome.
func (s *InfluxSink) RecordPrediction(rec coremetrics.PredictionRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("occupancy_prediction").
		AddTag("lot_id", rec.LotID).
		AddTag("method", rec.Method).
		AddTag("component", "prediction_engine").
		AddField("occupancy", rec.Occupancy).
		AddField("confidence", round3(rec.Confidence)).
		AddField("target", rec.Target.Unix()).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordOccupancy writes a live occupancy update.
func (s *InfluxSink) RecordOccupancy(rec coremetrics.OccupancyRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("lot_occupancy").
		AddTag("lot_id", rec.LotID).
		AddTag("source", rec.Source).
		AddTag("component", "occupancy_feed").
		AddField("occupancy", rec.Occupancy).
		AddField("capacity", rec.Capacity).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRoute summarizes a generated patrol route.
func (s *InfluxSink) RecordRoute(rec coremetrics.RouteRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("patrol_route_generated").
		AddTag("route_id", rec.RouteID).
		AddTag("component", "patrol_planner").
		AddField("stops", rec.Stops).
		AddField("violations", rec.Violations).
		AddField("total_minutes", rec.TotalMinutes).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
