// Package patrol exposes the enforcement API: violation intake and
// patrol route generation.
package patrol

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/campuspark/parkd/core/logger"
	"github.com/campuspark/parkd/core/lotstatus"
	coremetrics "github.com/campuspark/parkd/core/metrics"
	"github.com/campuspark/parkd/core/model"
	"github.com/campuspark/parkd/core/patrol"
)

type violationReport struct {
	LotID     string    `json:"lot_id"`
	Plate     string    `json:"plate"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportHandler ingests violation reports via POST /api/patrol/violations.
// Reports enter the log flagged; citation and dismissal happen elsewhere.
func NewReportHandler(store lotstatus.Store, vlog *patrol.ViolationLog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var report violationReport
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		if report.LotID == "" || report.Plate == "" || report.Type == "" {
			http.Error(w, "lot_id, plate and type are required", http.StatusBadRequest)
			return
		}
		if _, ok := store.Get(report.LotID); !ok {
			http.Error(w, "unknown lot", http.StatusNotFound)
			return
		}
		if report.Timestamp.IsZero() {
			report.Timestamp = time.Now()
		}
		vlog.Add(model.Violation{
			LotID:     report.LotID,
			Plate:     report.Plate,
			Type:      report.Type,
			Timestamp: report.Timestamp,
			Status:    model.ViolationFlagged,
		})
		w.WriteHeader(http.StatusAccepted)
	})
}

// NewRouteHandler builds a patrol route from the recent violation log
// via GET /api/patrol/route.
func NewRouteHandler(store lotstatus.Store, vlog *patrol.ViolationLog, planner patrol.Planner,
	sink coremetrics.MetricsSink, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		violations := vlog.Recent()
		route := planner.BuildRoute(store.List(lotstatus.Filter{}), violations, time.Now())

		if rec, ok := sink.(coremetrics.RouteRecorder); ok {
			if err := rec.RecordRoute(coremetrics.RouteRecord{
				RouteID:      route.ID,
				Stops:        len(route.Stops),
				Violations:   len(violations),
				TotalMinutes: route.TotalMinutes,
				Time:         route.GeneratedAt,
			}); err != nil {
				log.Warnf("record route: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(route); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
