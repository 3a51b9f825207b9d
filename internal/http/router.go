package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/cricket-insights-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-insights-service/internal/http/middleware"
	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
)

// Mounter registers extra routes, such as the dashboard pages, on the root router.
type Mounter interface {
	Mount(r chi.Router)
}

// RouterConfig collects everything the router serves.
type RouterConfig struct {
	Handler *handlers.Handler
	// Admin is nil when no admin token is configured.
	Admin     *handlers.AdminHandler
	Dashboard Mounter
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	h := cfg.Handler
	r := chi.NewRouter()
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
	r.Use(chimw.Recoverer)
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api", func(api chi.Router) {
		api.Get("/teams", h.Teams)
		api.Get("/teams/{id}", h.Team)
		api.Get("/venues", h.Venues)
		api.Get("/venues/{id}", h.Venue)
		api.Get("/head-to-head/{team1Id}/{team2Id}", h.HeadToHead)
		api.Get("/team-stats/{teamId}", h.TeamStats)
		api.Get("/venue-stats/{venueId}", h.VenueStats)
		api.Get("/venue-stats/{venueId}/{teamId}", h.VenueTeamStats)
		api.Get("/venue-details/{venueId}", h.VenueDetails)
		api.Get("/matches", h.Matches)
		api.Get("/matches/{id}", h.Match)

		api.Post("/predict-match", h.PredictMatch)
		api.Post("/predict-live", h.PredictLive)
		api.Get("/predictions", h.Predictions)
		api.Get("/predictions/{id}", h.Prediction)

		if cfg.Admin != nil {
			api.Route("/admin", func(admin chi.Router) {
				admin.Use(cfg.Admin.RequireToken)
				admin.Post("/teams", cfg.Admin.CreateTeam)
				admin.Post("/venues", cfg.Admin.CreateVenue)
				admin.Post("/matches", cfg.Admin.CreateMatch)
				admin.Post("/head-to-head", cfg.Admin.CreateHeadToHead)
				admin.Post("/team-stats", cfg.Admin.CreateTeamStats)
				admin.Post("/venue-stats", cfg.Admin.CreateVenueStats)
			})
		}
	})

	if cfg.Dashboard != nil {
		cfg.Dashboard.Mount(r)
	}
	return r
}
