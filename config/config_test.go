package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `mqtt:
  broker: "tcp://localhost:1883"
  client_id: "parkd"
  username: "user"
  password: "pass"
  occupancy_topic: "campus/lots/+/occupancy"
  use_tls: false
metrics:
  prometheus_enabled: true
  prometheus_port: "9091"
prediction:
  heuristic_enabled: true
  jitter_seed: 42
  forecast_hours: 8
patrol:
  max_stops: 4
api:
  addr: ":8090"
campus:
  lots:
    - id: "lot-a"
      name: "North Garage"
      capacity: 200
      occupancy: 80
      latitude: 40.0
      longitude: -105.0
      restrictions: ["student"]
      amenities: ["covered"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "parkd"},
		{"username", cfg.MQTT.Username, "user"},
		{"occupancy_topic", cfg.MQTT.OccupancyTopic, "campus/lots/+/occupancy"},
		{"use_tls", cfg.MQTT.UseTLS, false},
		{"prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"prometheus_port", cfg.Metrics.PrometheusPort, "9091"},
		{"heuristic_enabled", cfg.Prediction.HeuristicEnabled, true},
		{"jitter_seed", cfg.Prediction.JitterSeed, int64(42)},
		{"forecast_hours", cfg.Prediction.ForecastHours, 8},
		{"max_stops", cfg.Patrol.MaxStops, 4},
		{"api_addr", cfg.API.Addr, ":8090"},
		{"campus_lots", len(cfg.Campus.Lots), 1},
		{"lot_id", cfg.Campus.Lots[0].ID, "lot-a"},
		{"lot_capacity", cfg.Campus.Lots[0].Capacity, 200},
		{"lot_amenity", cfg.Campus.Lots[0].Amenities[0], "covered"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `mqtt:
  broker: "tcp://localhost:1883"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.MQTT.OccupancyTopic != "campus/lots/+/occupancy" {
		t.Errorf("occupancy topic default missing: %q", cfg.MQTT.OccupancyTopic)
	}
	if cfg.Prediction.ForecastHours != 6 {
		t.Errorf("forecast_hours default missing: %d", cfg.Prediction.ForecastHours)
	}
	if cfg.Patrol.MaxStops != 6 {
		t.Errorf("max_stops default missing: %d", cfg.Patrol.MaxStops)
	}
	if cfg.API.Addr != ":8088" {
		t.Errorf("api addr default missing: %q", cfg.API.Addr)
	}
	if cfg.Metrics.PrometheusPort != "9090" {
		t.Errorf("prometheus port default missing: %q", cfg.Metrics.PrometheusPort)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadValidatesRanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `prediction:
  forecast_hours: 48
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for forecast_hours out of range")
	}
}

func TestLoadRejectsDuplicateLots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `campus:
  lots:
    - id: "lot-a"
      capacity: 10
    - id: "lot-a"
      capacity: 20
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for duplicate lot ids")
	}
}
