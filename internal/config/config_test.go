package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Store.Driver != StoreMemory {
		t.Fatalf("expected memory store by default, got %s", cfg.Store.Driver)
	}
	if cfg.Predictor.Name != PredictorHeuristic {
		t.Fatalf("expected heuristic predictor by default, got %s", cfg.Predictor.Name)
	}
	if cfg.Predictor.MLServiceURL != defaultMLServiceURL {
		t.Fatalf("expected default ml url, got %s", cfg.Predictor.MLServiceURL)
	}
	if cfg.Predictor.Timeout != defaultMLTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultMLTimeout, cfg.Predictor.Timeout)
	}
	if cfg.StatsSync.Enabled {
		t.Fatalf("expected stats sync disabled by default")
	}
	if cfg.StatsSync.Interval != defaultSyncInterval {
		t.Fatalf("expected default sync interval, got %s", cfg.StatsSync.Interval)
	}
	if cfg.AdminToken != "" {
		t.Fatalf("expected no admin token by default")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != defaultMetricsPort || cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/ipl.db")
	t.Setenv("PREDICTOR", "remote")
	t.Setenv("ML_SERVICE_URL", "http://ml:8000")
	t.Setenv("ML_SERVICE_TIMEOUT", "3s")
	t.Setenv("STATS_SYNC_ENABLED", "true")
	t.Setenv("STATS_SYNC_INTERVAL", "1m")
	t.Setenv("ADMIN_TOKEN", " secret ")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Store.Driver != StoreSQLite || cfg.Store.SQLitePath != "/tmp/ipl.db" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Predictor.Name != PredictorRemote || cfg.Predictor.MLServiceURL != "http://ml:8000" {
		t.Fatalf("unexpected predictor config %+v", cfg.Predictor)
	}
	if cfg.Predictor.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Predictor.Timeout)
	}
	if !cfg.StatsSync.Enabled || cfg.StatsSync.Interval != time.Minute {
		t.Fatalf("unexpected sync config %+v", cfg.StatsSync)
	}
	if cfg.AdminToken != "secret" {
		t.Fatalf("expected trimmed admin token, got %q", cfg.AdminToken)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %s", cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("expected metrics disabled")
	}
}

func TestLoadInvalidDurationFails(t *testing.T) {
	t.Setenv("ML_SERVICE_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error for invalid duration")
	}
}

func TestLoadNonPositiveDurationFallsBack(t *testing.T) {
	t.Setenv("STATS_SYNC_INTERVAL", "0s")
	t.Setenv("ML_SERVICE_TIMEOUT", "-1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StatsSync.Interval != defaultSyncInterval {
		t.Fatalf("expected default sync interval on non-positive value, got %s", cfg.StatsSync.Interval)
	}
	if cfg.Predictor.Timeout != defaultMLTimeout {
		t.Fatalf("expected default timeout on non-positive value, got %s", cfg.Predictor.Timeout)
	}
}

func TestLoadBlankValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "  ")
	t.Setenv("PREDICTOR", " ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != defaultPort || cfg.Predictor.Name != defaultPredictor {
		t.Fatalf("expected blank values to fall back, got port=%q predictor=%q", cfg.Port, cfg.Predictor.Name)
	}
}
