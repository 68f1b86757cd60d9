package patrol

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campuspark/parkd/core/lotstatus"
	coremetrics "github.com/campuspark/parkd/core/metrics"
	"github.com/campuspark/parkd/core/model"
	"github.com/campuspark/parkd/core/patrol"
	"github.com/campuspark/parkd/infra/logger"
)

func seedStore() *lotstatus.MemoryStore {
	store := lotstatus.NewMemoryStore()
	store.Set(model.Lot{ID: "north", Name: "North Garage", Capacity: 100})
	store.Set(model.Lot{ID: "south", Name: "South Lot", Capacity: 50})
	return store
}

func TestReportHandler_Basic(t *testing.T) {
	vlog := patrol.NewViolationLog(24 * time.Hour)
	h := NewReportHandler(seedStore(), vlog)
	rr := httptest.NewRecorder()
	body := `{"lot_id":"north","plate":"ABC123","type":"no_permit"}`
	req := httptest.NewRequest("POST", "/api/patrol/violations", strings.NewReader(body))
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	recent := vlog.Recent()
	if len(recent) != 1 || recent[0].Plate != "ABC123" || recent[0].Status != model.ViolationFlagged {
		t.Fatalf("unexpected log state %#v", recent)
	}
}

func TestReportHandler_MissingFields(t *testing.T) {
	vlog := patrol.NewViolationLog(24 * time.Hour)
	h := NewReportHandler(seedStore(), vlog)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/patrol/violations", strings.NewReader(`{"lot_id":"north"}`))
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestReportHandler_UnknownLot(t *testing.T) {
	vlog := patrol.NewViolationLog(24 * time.Hour)
	h := NewReportHandler(seedStore(), vlog)
	rr := httptest.NewRecorder()
	body := `{"lot_id":"nowhere","plate":"ABC123","type":"no_permit"}`
	req := httptest.NewRequest("POST", "/api/patrol/violations", strings.NewReader(body))
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestReportHandler_MethodNotAllowed(t *testing.T) {
	vlog := patrol.NewViolationLog(24 * time.Hour)
	h := NewReportHandler(seedStore(), vlog)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/patrol/violations", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rr.Code)
	}
}

type routeSink struct {
	coremetrics.NopSink
	routes []coremetrics.RouteRecord
}

func (s *routeSink) RecordRoute(rec coremetrics.RouteRecord) error {
	s.routes = append(s.routes, rec)
	return nil
}

func TestRouteHandler_Basic(t *testing.T) {
	store := seedStore()
	vlog := patrol.NewViolationLog(24 * time.Hour)
	now := time.Now()
	for i := 0; i < 6; i++ {
		vlog.Add(model.Violation{LotID: "north", Plate: "P" + string(rune('A'+i)), Type: "no_permit",
			Timestamp: now.Add(-time.Duration(i+2) * time.Hour), Status: model.ViolationFlagged})
	}
	sink := &routeSink{}
	h := NewRouteHandler(store, vlog, patrol.NewPlanner(), sink, logger.NopLogger{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/patrol/route", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var route patrol.Route
	if err := json.Unmarshal(rr.Body.Bytes(), &route); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if route.Status != "pending" || len(route.Stops) != 2 {
		t.Fatalf("unexpected route %#v", route)
	}
	if route.Stops[0].LotID != "north" || route.Stops[0].Priority != patrol.PriorityHigh {
		t.Fatalf("hot lot should lead the route: %#v", route.Stops)
	}
	if len(sink.routes) != 1 || sink.routes[0].RouteID != route.ID {
		t.Fatalf("route not recorded: %#v", sink.routes)
	}
}

func TestRouteHandler_EmptyLog(t *testing.T) {
	h := NewRouteHandler(seedStore(), patrol.NewViolationLog(24*time.Hour), patrol.NewPlanner(),
		coremetrics.NopSink{}, logger.NopLogger{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/patrol/route", nil)
	h.ServeHTTP(rr, req)
	var route patrol.Route
	if err := json.Unmarshal(rr.Body.Bytes(), &route); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(route.Stops) != 2 {
		t.Fatalf("expected low-priority stops for every lot, got %#v", route.Stops)
	}
	for _, s := range route.Stops {
		if s.Priority != patrol.PriorityLow || s.EstimatedMinutes != 10 {
			t.Fatalf("unexpected stop %#v", s)
		}
	}
}
