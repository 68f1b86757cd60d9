// Package lots exposes the driver-facing read API: live lot status,
// ranked recommendations and occupancy forecasts.
package lots

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/campuspark/parkd/core/history"
	"github.com/campuspark/parkd/core/logger"
	"github.com/campuspark/parkd/core/lotstatus"
	coremetrics "github.com/campuspark/parkd/core/metrics"
	"github.com/campuspark/parkd/core/model"
	"github.com/campuspark/parkd/core/prediction"
	"github.com/campuspark/parkd/core/recommend"
)

// NewStatusHandler returns an HTTP handler exposing lot snapshots via
// GET /api/lots/status.
func NewStatusHandler(store lotstatus.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		f := lotstatus.Filter{
			Permit:     r.URL.Query().Get("permit"),
			HasAmenity: r.URL.Query().Get("amenity"),
		}
		writeJSON(w, store.List(f))
	})
}

// NewRecommendHandler serves ranked recommendations via
// GET /api/lots/recommendations.
func NewRecommendHandler(store lotstatus.Store, scorer recommend.Scorer, sink coremetrics.MetricsSink, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query()
		pos, err := parsePosition(q.Get("lat"), q.Get("lng"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		prefs := model.DriverPreferences{
			PreferCovered:      q.Get("covered") == "true",
			NeedEVCharging:     q.Get("ev_charging") == "true",
			NeedHandicapAccess: q.Get("handicap") == "true",
		}
		if raw := q.Get("max_walk_m"); raw != "" {
			if prefs.MaxWalkMeters, err = strconv.ParseFloat(raw, 64); err != nil {
				http.Error(w, "invalid max_walk_m", http.StatusBadRequest)
				return
			}
		}
		limit := 3
		if raw := q.Get("limit"); raw != "" {
			if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
		}
		permit := q.Get("permit")

		results, err := scorer.Rank(store.List(lotstatus.Filter{}), pos, permit, prefs)
		if err != nil {
			// Position is validated above; any error here is a bad coordinate.
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		top := recommend.TopN(results, limit)

		records := make([]coremetrics.RecommendationRecord, 0, len(top))
		now := time.Now()
		for _, res := range top {
			records = append(records, coremetrics.RecommendationRecord{
				LotID:     res.LotID,
				Permit:    permit,
				Tier:      string(res.Tier),
				Score:     res.Score,
				DistanceM: res.DistanceM,
				Time:      now,
			})
		}
		if err := sink.RecordRecommendations(records); err != nil {
			log.Warnf("record recommendations: %v", err)
		}
		writeJSON(w, top)
	})
}

// NewForecastHandler serves hourly occupancy forecasts via
// GET /api/lots/forecast.
func NewForecastHandler(store lotstatus.Store, pred *prediction.Predictor, obsLog *history.ObservationLog,
	events func() []model.Event, defaultHours int, sink coremetrics.MetricsSink, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query()
		lotID := q.Get("lot_id")
		lot, ok := store.Get(lotID)
		if !ok {
			http.Error(w, "unknown lot", http.StatusNotFound)
			return
		}
		hours := defaultHours
		if raw := q.Get("hours"); raw != "" {
			var err error
			if hours, err = strconv.Atoi(raw); err != nil || hours < 1 || hours > 24 {
				http.Error(w, "invalid hours", http.StatusBadRequest)
				return
			}
		}

		results := pred.Forecast(lot, time.Now(), hours, obsLog.ForLot(lotID), events())
		if rec, ok := sink.(coremetrics.PredictionRecorder); ok {
			for _, res := range results {
				if err := rec.RecordPrediction(coremetrics.PredictionRecord{
					LotID:      res.LotID,
					Method:     string(res.Method),
					Confidence: res.Confidence,
					Occupancy:  res.Occupancy,
					Target:     res.Target,
					Time:       time.Now(),
				}); err != nil {
					log.Warnf("record prediction: %v", err)
				}
			}
		}
		writeJSON(w, results)
	})
}

func parsePosition(lat, lng string) (*recommend.Position, error) {
	if lat == "" || lng == "" {
		return nil, errors.New("lat and lng are required")
	}
	latV, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, errors.New("invalid lat")
	}
	lngV, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, errors.New("invalid lng")
	}
	return &recommend.Position{Latitude: latV, Longitude: lngV}, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
