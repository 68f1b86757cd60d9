package lots

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campuspark/parkd/core/history"
	"github.com/campuspark/parkd/core/lotstatus"
	coremetrics "github.com/campuspark/parkd/core/metrics"
	"github.com/campuspark/parkd/core/model"
	"github.com/campuspark/parkd/core/prediction"
	"github.com/campuspark/parkd/core/recommend"
	"github.com/campuspark/parkd/infra/logger"
)

func seedStore() *lotstatus.MemoryStore {
	store := lotstatus.NewMemoryStore()
	store.Set(model.Lot{ID: "north", Name: "North Garage", Capacity: 100, Occupancy: 40,
		Latitude: 48.85, Longitude: 2.35, Amenities: []string{"covered"}})
	store.Set(model.Lot{ID: "south", Name: "South Lot", Capacity: 50, Occupancy: 50,
		Latitude: 48.86, Longitude: 2.36, Restrictions: []string{"staff"}})
	return store
}

func TestStatusHandler_Basic(t *testing.T) {
	h := NewStatusHandler(seedStore())
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/status", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []model.Lot
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].ID != "north" {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestStatusHandler_PermitFilter(t *testing.T) {
	h := NewStatusHandler(seedStore())
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/status?permit=visitor", nil)
	h.ServeHTTP(rr, req)
	var out []model.Lot
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "north" {
		t.Fatalf("permit filter bad %#v", out)
	}
}

func TestStatusHandler_MethodNotAllowed(t *testing.T) {
	h := NewStatusHandler(seedStore())
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/lots/status", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rr.Code)
	}
}

type captureSink struct {
	coremetrics.NopSink
	recs []coremetrics.RecommendationRecord
}

func (s *captureSink) RecordRecommendations(records []coremetrics.RecommendationRecord) error {
	s.recs = append(s.recs, records...)
	return nil
}

func TestRecommendHandler_Basic(t *testing.T) {
	sink := &captureSink{}
	h := NewRecommendHandler(seedStore(), recommend.NewScorer(), sink, logger.NopLogger{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/recommendations?lat=48.85&lng=2.35&covered=true", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out []recommend.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].LotID != "north" {
		t.Fatalf("unexpected ranking %#v", out)
	}
	if len(sink.recs) != 2 {
		t.Fatalf("expected 2 recorded recommendations, got %d", len(sink.recs))
	}
}

func TestRecommendHandler_PermitFilter(t *testing.T) {
	h := NewRecommendHandler(seedStore(), recommend.NewScorer(), &captureSink{}, logger.NopLogger{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/recommendations?lat=48.85&lng=2.35&permit=staff", nil)
	h.ServeHTTP(rr, req)
	var out []recommend.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("staff permit should see both lots, got %#v", out)
	}
}

func TestRecommendHandler_MissingLocation(t *testing.T) {
	h := NewRecommendHandler(seedStore(), recommend.NewScorer(), &captureSink{}, logger.NopLogger{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/recommendations", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestRecommendHandler_BadLimit(t *testing.T) {
	h := NewRecommendHandler(seedStore(), recommend.NewScorer(), &captureSink{}, logger.NopLogger{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/recommendations?lat=1&lng=1&limit=zero", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestForecastHandler_Basic(t *testing.T) {
	store := seedStore()
	obsLog := history.NewObservationLog(30 * 24 * time.Hour)
	pred := prediction.NewPredictor(prediction.NewHeuristic(1), logger.NopLogger{})
	events := func() []model.Event { return nil }

	h := NewForecastHandler(store, pred, obsLog, events, 6, coremetrics.NopSink{}, logger.NopLogger{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/forecast?lot_id=north&hours=3", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out []prediction.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 hourly points, got %d", len(out))
	}
	for _, res := range out {
		if res.Method != prediction.MethodHeuristic {
			t.Fatalf("no history seeded, expected heuristic results, got %#v", res)
		}
	}
}

func TestForecastHandler_UnknownLot(t *testing.T) {
	obsLog := history.NewObservationLog(time.Hour)
	pred := prediction.NewPredictor(nil, logger.NopLogger{})
	h := NewForecastHandler(seedStore(), pred, obsLog, func() []model.Event { return nil }, 6, coremetrics.NopSink{}, logger.NopLogger{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/forecast?lot_id=nowhere", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestForecastHandler_BadHours(t *testing.T) {
	obsLog := history.NewObservationLog(time.Hour)
	pred := prediction.NewPredictor(nil, logger.NopLogger{})
	h := NewForecastHandler(seedStore(), pred, obsLog, func() []model.Event { return nil }, 6, coremetrics.NopSink{}, logger.NopLogger{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lots/forecast?lot_id=north&hours=48", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
}
