package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/preston-bernstein/cricket-insights-service/internal/config"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction/remote"
	"github.com/preston-bernstein/cricket-insights-service/internal/seed"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

// openStore selects the repository backend. A SQLite database that cannot
// be opened falls back to the memory store so the dashboard still serves
// the seed data.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) store.Repository {
	switch cfg.Store.Driver {
	case config.StoreMemory, "":
		return store.NewMemoryStore()
	case config.StoreSQLite:
		if dir := filepath.Dir(cfg.Store.SQLitePath); dir != "." && cfg.Store.SQLitePath != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logging.Warn(logger, "sqlite directory unavailable, falling back to memory store",
					slog.String("path", cfg.Store.SQLitePath), slog.String(logging.FieldError, err.Error()))
				return store.NewMemoryStore()
			}
		}
		s, err := store.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			logging.Warn(logger, "sqlite open failed, falling back to memory store",
				slog.String("path", cfg.Store.SQLitePath), slog.String(logging.FieldError, err.Error()))
			return store.NewMemoryStore()
		}
		return s
	default:
		logging.Warn(logger, "unknown store driver, falling back to memory store", slog.String("driver", cfg.Store.Driver))
		return store.NewMemoryStore()
	}
}

// seedStore writes the bundled reference data and returns it for the
// predictor's team profile.
func seedStore(ctx context.Context, repo store.Repository) (seed.Data, error) {
	data, err := seed.Load()
	if err != nil {
		return seed.Data{}, err
	}
	if err := seed.Apply(ctx, repo, data); err != nil {
		return seed.Data{}, fmt.Errorf("apply seed: %w", err)
	}
	return data, nil
}

type predictorComponents struct {
	predictor prediction.Predictor
	name      string
	// client is set only when predictions go to the ML service.
	client *remote.Client
}

func selectPredictor(cfg config.Config, profile seed.Profile, logger *slog.Logger, recorder *metrics.Recorder) predictorComponents {
	switch cfg.Predictor.Name {
	case config.PredictorHeuristic, "":
		return predictorComponents{predictor: prediction.NewHeuristic(profile, nil), name: config.PredictorHeuristic}
	case config.PredictorRemote:
		client := newRemoteClient(cfg, recorder)
		return predictorComponents{predictor: client, name: config.PredictorRemote, client: client}
	default:
		logging.Warn(logger, "unknown predictor, falling back to heuristic", slog.String("predictor", cfg.Predictor.Name))
		return predictorComponents{predictor: prediction.NewHeuristic(profile, nil), name: config.PredictorHeuristic}
	}
}

func newRemoteClient(cfg config.Config, recorder *metrics.Recorder) *remote.Client {
	return remote.NewClient(remote.Config{
		BaseURL: cfg.Predictor.MLServiceURL,
		Timeout: cfg.Predictor.Timeout,
		Metrics: recorder,
	})
}
