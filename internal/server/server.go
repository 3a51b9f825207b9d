package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/cricket-insights-service/internal/app/insights"
	"github.com/preston-bernstein/cricket-insights-service/internal/app/predictions"
	"github.com/preston-bernstein/cricket-insights-service/internal/config"
	"github.com/preston-bernstein/cricket-insights-service/internal/dashboard"
	httpserver "github.com/preston-bernstein/cricket-insights-service/internal/http"
	"github.com/preston-bernstein/cricket-insights-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
	"github.com/preston-bernstein/cricket-insights-service/internal/poller"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction/remote"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	repo          store.Repository
	insights      *insights.Service
	predictions   *predictions.Service
	httpServer    httpServer
	metricsServer httpServer
	// poller is nil when stats sync is disabled.
	poller      Poller
	metricsStop func(context.Context) error
}

// New opens the store, seeds it, selects the predictor and wires the HTTP
// surface.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	repo := openStore(ctx, cfg, logger)
	data, err := seedStore(ctx, repo)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("seed store: %w", err)
	}

	pc := selectPredictor(cfg, data.Profile, logger, recorder)
	var details insights.DetailsSource
	if pc.client != nil {
		details = pc.client
	}
	ins := insights.NewService(repo, details)
	preds := predictions.NewService(predictions.Config{
		Repo:          repo,
		Predictor:     pc.predictor,
		PredictorName: pc.name,
		Metrics:       recorder,
		Logger:        logger,
	})
	plr := buildPoller(cfg, repo, pc.client, logger, recorder)

	logging.Info(logger, "server configured",
		slog.String("store", cfg.Store.Driver),
		slog.String("predictor", pc.name),
		slog.Bool("stats_sync", plr != nil),
		slog.Bool("admin", cfg.AdminToken != ""),
	)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		repo:          repo,
		insights:      ins,
		predictions:   preds,
		httpServer:    buildHTTPServer(cfg, ins, preds, logger, recorder, plr, pc.client),
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, repo store.Repository, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, ins *insights.Service, preds *predictions.Service, logger *slog.Logger, recorder *metrics.Recorder, plr Poller, client *remote.Client) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}
	h := handlers.NewHandler(ins, preds, logger, statusFn)
	// A remote predictor is only ready while the ML service answers.
	if client != nil {
		h.WithUpstreamCheck(client.Health)
	}

	routes := httpserver.RouterConfig{
		Handler: h,
		Dashboard: dashboard.NewHandler(dashboard.Config{
			Insights:    ins,
			Predictions: preds,
			Logger:      logger,
		}),
		Logger:  logger,
		Metrics: recorder,
	}
	// Admin routes are only mounted when a token is configured.
	if cfg.AdminToken != "" {
		routes.Admin = handlers.NewAdminHandler(ins, cfg.AdminToken, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpserver.NewRouter(routes),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.poller != nil {
		s.poller.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", slog.String(logging.FieldError, err.Error()))
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", slog.String(logging.FieldError, err.Error()))
		}
	}

	if s.poller != nil {
		if err := s.poller.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop stats sync", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	// The store closes last so in-flight requests finish against it.
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			logging.Warn(s.logger, "store close failed", slog.String(logging.FieldError, err.Error()))
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.String(logging.FieldError, err.Error()))
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", slog.String(logging.FieldError, err.Error()))
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
