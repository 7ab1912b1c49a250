package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the driver-engine service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Insights InsightsConfig `yaml:"insights"`
	Store    StoreConfig    `yaml:"store"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	JSON          bool   `yaml:"json"`
	IncludeCaller bool   `yaml:"includeCaller"`
}

// AnalysisConfig tunes the analysis engine thresholds.
type AnalysisConfig struct {
	// MinBucketSize is the tipping-point minimum bucket membership.
	MinBucketSize int `yaml:"minBucketSize"`
	// MinTippingRate is the conversion rate a qualifying jump must reach.
	MinTippingRate float64 `yaml:"minTippingRate"`
	// MaxRows caps rows analyzed per request; 0 means unlimited.
	MaxRows int `yaml:"maxRows"`
}

// InsightsConfig controls insight rule-pack loading.
type InsightsConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig controls the embedded result store.
type StoreConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	SyncWrites bool   `yaml:"syncWrites"`
}

// Load initialises Config from a YAML file and optional environment
// overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("DRIVER_ENGINE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Analysis: AnalysisConfig{
			MinBucketSize:  10,
			MinTippingRate: 0.10,
		},
		Insights: InsightsConfig{Path: "configs/insights/default.yaml"},
		Store: StoreConfig{
			Enabled:    false,
			Path:       "data/analyses",
			SyncWrites: true,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DRIVER_ENGINE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("DRIVER_ENGINE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("DRIVER_ENGINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DRIVER_ENGINE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("DRIVER_ENGINE_INSIGHTS_PATH"); v != "" {
		cfg.Insights.Path = v
	}
	if v := os.Getenv("DRIVER_ENGINE_MIN_BUCKET_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MinBucketSize = n
		}
	}
	if v := os.Getenv("DRIVER_ENGINE_MIN_TIPPING_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.MinTippingRate = f
		}
	}
	if v := os.Getenv("DRIVER_ENGINE_MAX_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MaxRows = n
		}
	}
	if v := os.Getenv("DRIVER_ENGINE_STORE_ENABLED"); v != "" {
		cfg.Store.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("DRIVER_ENGINE_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("DRIVER_ENGINE_STORE_SYNC_WRITES"); v != "" {
		cfg.Store.SyncWrites = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("DRIVER_ENGINE_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
}
