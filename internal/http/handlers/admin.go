package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/cricket-insights-service/internal/app/insights"
	"github.com/preston-bernstein/cricket-insights-service/internal/http/requestutil"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
)

// AdminHandler exposes token-guarded endpoints that write reference data.
type AdminHandler struct {
	insights *insights.Service
	token    string
	logger   *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token rejects every request.
func NewAdminHandler(ins *insights.Service, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		insights: ins,
		token:    token,
		logger:   logger,
	}
}

// RequireToken rejects requests without the bearer token.
func (h *AdminHandler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.authorize(r) {
			logging.Warn(h.logger, "admin unauthorized",
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String(logging.FieldClientIP, requestutil.ClientIP(r)),
			)
			writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	createRecord(h, w, r, "team", h.insights.CreateTeam)
}

func (h *AdminHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	createRecord(h, w, r, "venue", h.insights.CreateVenue)
}

func (h *AdminHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	createRecord(h, w, r, "match", h.insights.CreateMatch)
}

func (h *AdminHandler) CreateHeadToHead(w http.ResponseWriter, r *http.Request) {
	createRecord(h, w, r, "head-to-head", h.insights.CreateHeadToHead)
}

func (h *AdminHandler) CreateTeamStats(w http.ResponseWriter, r *http.Request) {
	createRecord(h, w, r, "team stats", h.insights.CreateTeamStats)
}

func (h *AdminHandler) CreateVenueStats(w http.ResponseWriter, r *http.Request) {
	createRecord(h, w, r, "venue stats", h.insights.CreateVenueStats)
}

func createRecord[T any](h *AdminHandler, w http.ResponseWriter, r *http.Request, kind string, create func(context.Context, T) (T, error)) {
	var in T
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	out, err := create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "admin record written", slog.String("kind", kind))
	writeJSON(w, http.StatusCreated, out, h.logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}
