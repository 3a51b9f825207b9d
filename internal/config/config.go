package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port       string `env:"PORT" envDefault:"4000"`
	AdminToken string `env:"ADMIN_TOKEN"`

	Store     StoreConfig
	Predictor PredictorConfig
	StatsSync StatsSyncConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"memory"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/insights.db"`
}

// PredictorConfig selects the prediction source and how to reach the ML service.
type PredictorConfig struct {
	Name         string        `env:"PREDICTOR" envDefault:"heuristic"`
	MLServiceURL string        `env:"ML_SERVICE_URL" envDefault:"http://127.0.0.1:8000"`
	Timeout      time.Duration `env:"ML_SERVICE_TIMEOUT" envDefault:"10s"`
}

// StatsSyncConfig controls the periodic stats pull from the ML service.
type StatsSyncConfig struct {
	Enabled  bool          `env:"STATS_SYNC_ENABLED" envDefault:"false"`
	Interval time.Duration `env:"STATS_SYNC_INTERVAL" envDefault:"15m"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT" envDefault:"text"`
	Version string `env:"SERVICE_VERSION"`
}

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Port         string `env:"METRICS_PORT" envDefault:"9090"`
	OtlpEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"cricket-insights-service"`
	OtlpInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize trims and lower-cases selectors and reverts non-positive durations
// and blank values to their defaults.
func (c *Config) normalize() {
	c.Port = orDefault(c.Port, defaultPort)
	c.AdminToken = strings.TrimSpace(c.AdminToken)

	c.Store.Driver = strings.ToLower(orDefault(c.Store.Driver, defaultStoreDriver))
	c.Store.SQLitePath = orDefault(c.Store.SQLitePath, defaultSQLitePath)

	c.Predictor.Name = strings.ToLower(orDefault(c.Predictor.Name, defaultPredictor))
	c.Predictor.MLServiceURL = orDefault(c.Predictor.MLServiceURL, defaultMLServiceURL)
	c.Predictor.Timeout = positiveOrDefault(c.Predictor.Timeout, defaultMLTimeout)

	c.StatsSync.Interval = positiveOrDefault(c.StatsSync.Interval, defaultSyncInterval)

	c.Metrics.Port = orDefault(c.Metrics.Port, defaultMetricsPort)
	c.Metrics.ServiceName = orDefault(c.Metrics.ServiceName, defaultServiceName)
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

func positiveOrDefault(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
