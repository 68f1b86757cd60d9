package metrics

import (
	coremetrics "github.com/campuspark/parkd/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records parking service events in Prometheus metrics.
type PromSink struct {
	recommendations *prometheus.CounterVec
	scores          *prometheus.HistogramVec
	predictions     *prometheus.CounterVec
	confidence      *prometheus.HistogramVec
	occupancy       *prometheus.GaugeVec
	routes          prometheus.Counter
	routeMinutes    prometheus.Histogram
}

// NewPromSink registers parking metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	recommendations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_recommendations_total",
		Help: "Total number of lot recommendations served",
	}, []string{"lot_id", "tier", "permit"})
	scores := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_recommendation_score",
		Help:    "Distribution of recommendation scores",
		Buckets: []float64{0, 25, 50, 75, 100, 150, 200, 300, 500},
	}, []string{"lot_id"})
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_predictions_total",
		Help: "Total number of occupancy predictions computed",
	}, []string{"lot_id", "method"})
	confidence := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parking_prediction_confidence",
		Help:    "Distribution of prediction confidence values",
		Buckets: []float64{0.3, 0.6, 0.8, 1},
	}, []string{"method"})
	occupancy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parking_lot_occupancy",
		Help: "Latest known occupancy per lot",
	}, []string{"lot_id", "source"})
	routes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_patrol_routes_total",
		Help: "Total number of patrol routes generated",
	})
	routeMinutes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "parking_patrol_route_minutes",
		Help:    "Estimated total minutes of generated patrol routes",
		Buckets: []float64{15, 30, 60, 90, 120, 180},
	})

	s := &PromSink{
		recommendations: recommendations,
		scores:          scores,
		predictions:     predictions,
		confidence:      confidence,
		occupancy:       occupancy,
		routes:          routes,
		routeMinutes:    routeMinutes,
	}
	if err := registerCounterVec(reg, &s.recommendations); err != nil {
		return nil, err
	}
	if err := registerHistogramVec(reg, &s.scores); err != nil {
		return nil, err
	}
	if err := registerCounterVec(reg, &s.predictions); err != nil {
		return nil, err
	}
	if err := registerHistogramVec(reg, &s.confidence); err != nil {
		return nil, err
	}
	if err := reg.Register(s.occupancy); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.occupancy = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(s.routes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.routes = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(s.routeMinutes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.routeMinutes = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	return s, nil
}

func registerCounterVec(reg prometheus.Registerer, cv **prometheus.CounterVec) error {
	if err := reg.Register(*cv); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*cv = are.ExistingCollector.(*prometheus.CounterVec)
			return nil
		}
		return err
	}
	return nil
}

func registerHistogramVec(reg prometheus.Registerer, hv **prometheus.HistogramVec) error {
	if err := reg.Register(*hv); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*hv = are.ExistingCollector.(*prometheus.HistogramVec)
			return nil
		}
		return err
	}
	return nil
}

// RecordRecommendations increments the counter for each served recommendation.
func (s *PromSink) RecordRecommendations(records []coremetrics.RecommendationRecord) error {
	for _, r := range records {
		s.recommendations.WithLabelValues(r.LotID, r.Tier, r.Permit).Inc()
		s.scores.WithLabelValues(r.LotID).Observe(r.Score)
	}
	return nil
}

// RecordPrediction counts a prediction and observes its confidence.
func (s *PromSink) RecordPrediction(rec coremetrics.PredictionRecord) error {
	s.predictions.WithLabelValues(rec.LotID, rec.Method).Inc()
	s.confidence.WithLabelValues(rec.Method).Observe(rec.Confidence)
	return nil
}

// RecordOccupancy sets the live occupancy gauge for the lot.
func (s *PromSink) RecordOccupancy(rec coremetrics.OccupancyRecord) error {
	s.occupancy.WithLabelValues(rec.LotID, rec.Source).Set(float64(rec.Occupancy))
	return nil
}

// RecordRoute counts a generated patrol route.
func (s *PromSink) RecordRoute(rec coremetrics.RouteRecord) error {
	s.routes.Inc()
	s.routeMinutes.Observe(float64(rec.TotalMinutes))
	return nil
}
