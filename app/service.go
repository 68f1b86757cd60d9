// Package app wires the configured components into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/campuspark/parkd/api/lots"
	apipatrol "github.com/campuspark/parkd/api/patrol"
	"github.com/campuspark/parkd/config"
	"github.com/campuspark/parkd/core/history"
	"github.com/campuspark/parkd/core/lotstatus"
	coremetrics "github.com/campuspark/parkd/core/metrics"
	"github.com/campuspark/parkd/core/model"
	"github.com/campuspark/parkd/core/patrol"
	"github.com/campuspark/parkd/core/prediction"
	"github.com/campuspark/parkd/core/recommend"
	"github.com/campuspark/parkd/infra/logger"
	"github.com/campuspark/parkd/infra/metrics"
	"github.com/campuspark/parkd/infra/mqtt"
	"github.com/campuspark/parkd/internal/eventbus"
)

// Service orchestrates the occupancy feed, the read API and the
// forecast publisher.
type Service struct {
	cfg       *config.Config
	store     *lotstatus.MemoryStore
	obsLog    *history.ObservationLog
	vlog      *patrol.ViolationLog
	predictor *prediction.Predictor
	planner   patrol.Planner
	scorer    recommend.Scorer
	sink      coremetrics.MetricsSink
	bus       eventbus.EventBus
	feed      *mqtt.OccupancyFeed
	publisher *mqtt.PredictionPublisher
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := metrics.NewSinks(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	store := lotstatus.NewMemoryStore()
	for _, lot := range cfg.Campus.Lots {
		store.Set(lot)
	}

	var heuristic *prediction.Heuristic
	if cfg.Prediction.HeuristicEnabled {
		heuristic = prediction.NewHeuristic(cfg.Prediction.JitterSeed)
	}
	predictor := prediction.NewPredictor(heuristic, logger.New("prediction"))

	planner := patrol.NewPlanner()
	planner.MaxStops = cfg.Patrol.MaxStops

	bus := eventbus.New()
	feed, err := mqtt.NewOccupancyFeed(cfg.MQTT, bus)
	if err != nil {
		return nil, fmt.Errorf("occupancy feed: %w", err)
	}
	publisher, err := mqtt.NewPredictionPublisher(cfg.MQTT)
	if err != nil {
		feed.Close()
		return nil, fmt.Errorf("prediction publisher: %w", err)
	}

	return &Service{
		cfg:       cfg,
		store:     store,
		obsLog:    history.NewObservationLog(predictor.HistoryWindow),
		vlog:      patrol.NewViolationLog(planner.LookBack),
		predictor: predictor,
		planner:   planner,
		scorer:    recommend.NewScorer(),
		sink:      sink,
		bus:       bus,
		feed:      feed,
		publisher: publisher,
		log:       logg,
	}, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.consumeUpdates(ctx)
	go s.forecastLoop(ctx)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("API listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Service) routes() *http.ServeMux {
	mux := http.NewServeMux()
	events := func() []model.Event { return s.cfg.Campus.Events }
	mux.Handle("/api/lots/status", lots.NewStatusHandler(s.store))
	mux.Handle("/api/lots/recommendations", lots.NewRecommendHandler(s.store, s.scorer, s.sink, s.log))
	mux.Handle("/api/lots/forecast", lots.NewForecastHandler(s.store, s.predictor, s.obsLog, events,
		s.cfg.Prediction.ForecastHours, s.sink, s.log))
	mux.Handle("/api/patrol/route", apipatrol.NewRouteHandler(s.store, s.vlog, s.planner, s.sink, s.log))
	mux.Handle("/api/patrol/violations", apipatrol.NewReportHandler(s.store, s.vlog))
	return mux
}

// consumeUpdates applies live occupancy readings to the lot store and
// the observation history.
func (s *Service) consumeUpdates(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case u, ok := <-sub:
			if !ok {
				return
			}
			s.applyUpdate(u)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) applyUpdate(u eventbus.Update) {
	lot, ok := s.store.Get(u.LotID)
	if !ok {
		s.log.Warnf("reading for unknown lot %s, dropping", u.LotID)
		return
	}
	s.store.RecordOccupancy(u.LotID, u.Occupancy, u.Time)
	s.obsLog.Append(model.OccupancyObservation{
		LotID:     u.LotID,
		Occupancy: u.Occupancy,
		Source:    u.Source,
		Timestamp: u.Time,
	})
	if rec, ok := s.sink.(coremetrics.OccupancyRecorder); ok {
		if err := rec.RecordOccupancy(coremetrics.OccupancyRecord{
			LotID:     u.LotID,
			Occupancy: u.Occupancy,
			Capacity:  lot.Capacity,
			Source:    u.Source.String(),
			Time:      u.Time,
		}); err != nil {
			s.log.Warnf("record occupancy: %v", err)
		}
	}
}

// forecastLoop publishes fresh hourly forecasts for every lot so the
// analytics pipeline always has a current view.
func (s *Service) forecastLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.publishForecasts(now)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) publishForecasts(now time.Time) {
	for _, lot := range s.store.List(lotstatus.Filter{}) {
		results := s.predictor.Forecast(lot, now, s.cfg.Prediction.ForecastHours,
			s.obsLog.ForLot(lot.ID), s.cfg.Campus.Events)
		if len(results) == 0 {
			continue
		}
		if err := s.publisher.PublishForecast(results); err != nil {
			s.log.Errorf("publish forecast for %s: %v", lot.ID, err)
		}
		if rec, ok := s.sink.(coremetrics.PredictionRecorder); ok {
			for _, res := range results {
				if err := rec.RecordPrediction(coremetrics.PredictionRecord{
					LotID:      res.LotID,
					Method:     string(res.Method),
					Confidence: res.Confidence,
					Occupancy:  res.Occupancy,
					Target:     res.Target,
					Time:       now,
				}); err != nil {
					s.log.Warnf("record prediction: %v", err)
				}
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.feed.Close()
	s.publisher.Close()
	s.bus.Close()
	return nil
}
