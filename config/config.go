package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/campuspark/parkd/core/metrics"
	"github.com/campuspark/parkd/infra/mqtt"
)

type Config struct {
	MQTT       mqtt.Config      `json:"mqtt"`
	Metrics    metrics.Config   `json:"metrics"`
	Prediction PredictionConfig `json:"prediction"`
	Patrol     PatrolConfig     `json:"patrol"`
	API        APIConfig        `json:"api"`
	Campus     CampusConfig     `json:"campus"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PARKD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "parkd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Prediction.SetDefaults()
	cfg.Patrol.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Prediction.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Patrol.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Campus.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
