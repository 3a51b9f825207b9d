package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/cricket-insights-service/internal/config"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
	"github.com/preston-bernstein/cricket-insights-service/internal/poller"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction/remote"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

// Poller defines the minimal poller behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

// buildPoller returns nil unless stats sync is enabled. The sync always
// talks to the ML service, reusing the predictor's client when there is one.
func buildPoller(cfg config.Config, repo store.Repository, client *remote.Client, logger *slog.Logger, recorder *metrics.Recorder) Poller {
	if !cfg.StatsSync.Enabled {
		return nil
	}
	if client == nil {
		client = newRemoteClient(cfg, recorder)
	}
	logging.Info(logger, "stats sync enabled",
		slog.String("ml_service_url", client.BaseURL()),
		slog.Int64(logging.FieldDurationMS, cfg.StatsSync.Interval.Milliseconds()),
	)
	return poller.New(client, repo, logger, recorder, cfg.StatsSync.Interval)
}
