package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/cricket-insights-service/internal/app/insights"
	"github.com/preston-bernstein/cricket-insights-service/internal/app/predictions"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
	"github.com/preston-bernstein/cricket-insights-service/internal/poller"
)

const (
	notReadyMessage     = "stats sync not ready"
	upstreamDownMessage = "ML service unavailable"
)

// Handler wires HTTP routes to the application services.
type Handler struct {
	insights    *insights.Service
	predictions *predictions.Service
	logger      *slog.Logger
	statusFn    func() poller.Status
	upstream    func(context.Context) error
}

// NewHandler constructs a Handler. statusFn may be nil when stats sync is off.
func NewHandler(ins *insights.Service, preds *predictions.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		insights:    ins,
		predictions: preds,
		logger:      logger,
		statusFn:    statusFn,
	}
}

// WithUpstreamCheck makes Ready also require check to pass. It is set when
// predictions come from the ML service.
func (h *Handler) WithUpstreamCheck(check func(context.Context) error) *Handler {
	h.upstream = check
	return h
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic. With stats sync enabled it waits for a
// successful sync, and with an upstream check it requires the ML service to
// answer.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if h.statusFn != nil {
		if status := h.statusFn(); !status.IsReady() {
			// LastError may carry upstream detail, so it is logged rather than returned.
			logging.Warn(logger, "not ready",
				slog.Int("consecutive_failures", status.ConsecutiveFailures),
				slog.String("last_error", status.LastError),
			)
			writeError(w, r, http.StatusServiceUnavailable, notReadyMessage, h.logger)
			return
		}
	}
	if h.upstream != nil {
		if err := h.upstream(r.Context()); err != nil {
			logging.Error(logger, "ml service health check failed", err)
			writeError(w, r, http.StatusServiceUnavailable, upstreamDownMessage, h.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// MethodNotAllowed answers requests to a known path with the wrong verb.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
}

// NotFound answers requests no route matched.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}
