// Package dashboard serves the server-rendered match dashboard and its
// widget fragments.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/cricket-insights-service/internal/app/insights"
	"github.com/preston-bernstein/cricket-insights-service/internal/app/predictions"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
)

const maxFormBytes = 64 << 10

// Config wires a Handler.
type Config struct {
	Insights    *insights.Service
	Predictions *predictions.Service
	Sessions    *Sessions
	Logger      *slog.Logger
}

// Handler renders the dashboard for each viewer session.
type Handler struct {
	loader      loader
	predictions *predictions.Service
	sessions    *Sessions
	logger      *slog.Logger
}

func NewHandler(cfg Config) *Handler {
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = NewSessions(0)
	}
	return &Handler{
		loader:      loader{insights: cfg.Insights, predictions: cfg.Predictions},
		predictions: cfg.Predictions,
		sessions:    sessions,
		logger:      cfg.Logger,
	}
}

// Mount registers the page, the form actions and every widget fragment.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/dashboard/selection", h.UpdateSelection)
	r.Post("/dashboard/predict", h.Predict)

	r.Get("/dashboard/widgets/match-setup", h.MatchSetup)
	r.Get("/dashboard/widgets/head-to-head", h.HeadToHead)
	r.Get("/dashboard/widgets/key-players", h.KeyPlayers)
	r.Get("/dashboard/widgets/team-strength", h.TeamStrength)
	r.Get("/dashboard/widgets/venue-analysis", h.VenueAnalysis)
	r.Get("/dashboard/widgets/win-probability", h.WinProbability)
	r.Get("/dashboard/widgets/prediction-results", h.PredictionResults)
}

// Index renders the full page for the viewer's current selection.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.sessions.Page(w, r)
	sel := page.Selection()
	pred, hasPred := page.Prediction()
	ctx := r.Context()

	var view PageView
	var err error
	view.Setup, err = h.loader.setup(ctx, sel)
	h.logWidget(ctx, "match-setup", err)
	view.HeadToHead, err = h.loader.headToHead(ctx, sel)
	h.logWidget(ctx, "head-to-head", err)
	view.Results = results(pred, hasPred)
	view.Chart, err = h.loader.chart(ctx, pred, hasPred)
	h.logWidget(ctx, "win-probability", err)
	view.Strength, err = h.loader.teamStrength(ctx, sel)
	h.logWidget(ctx, "team-strength", err)
	view.Players, err = h.loader.keyPlayers(ctx, sel)
	h.logWidget(ctx, "key-players", err)
	view.Venue, err = h.loader.venueAnalysis(ctx, sel)
	h.logWidget(ctx, "venue-analysis", err)

	render(w, r, DashboardPage(view))
}

// UpdateSelection applies the submitted setup fields and returns to the page.
func (h *Handler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	page := h.sessions.Page(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	changes := make(map[string]string)
	for _, field := range []string{FieldTeam1, FieldTeam2, FieldVenue, FieldTossWinner, FieldTossDecision} {
		if r.PostForm.Has(field) {
			changes[field] = r.PostForm.Get(field)
		}
	}
	page.Apply(changes)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Predict runs a prediction for the current selection. The result is kept
// only if the selection did not change while it was computed.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	page := h.sessions.Page(w, r)
	sel, gen := page.Snapshot()
	if !sel.CanGenerate() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	logger := logging.FromContext(r.Context(), h.logger)
	pred, err := h.predictions.PredictMatch(r.Context(), sel.Request())
	if err != nil {
		logging.Error(logger, "dashboard prediction failed", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if !page.Accept(gen, pred) {
		logging.Debug(logger, "dashboard prediction superseded", slog.String("prediction_id", pred.ID))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) MatchSetup(w http.ResponseWriter, r *http.Request) {
	sel := h.selection(w, r)
	view, err := h.loader.setup(r.Context(), sel)
	h.logWidget(r.Context(), "match-setup", err)
	render(w, r, MatchSetupForm(view))
}

func (h *Handler) HeadToHead(w http.ResponseWriter, r *http.Request) {
	view, err := h.loader.headToHead(r.Context(), h.selection(w, r))
	h.logWidget(r.Context(), "head-to-head", err)
	render(w, r, HeadToHeadWidget(view))
}

func (h *Handler) KeyPlayers(w http.ResponseWriter, r *http.Request) {
	view, err := h.loader.keyPlayers(r.Context(), h.selection(w, r))
	h.logWidget(r.Context(), "key-players", err)
	render(w, r, KeyPlayersWidget(view))
}

func (h *Handler) TeamStrength(w http.ResponseWriter, r *http.Request) {
	view, err := h.loader.teamStrength(r.Context(), h.selection(w, r))
	h.logWidget(r.Context(), "team-strength", err)
	render(w, r, TeamStrengthWidget(view))
}

func (h *Handler) VenueAnalysis(w http.ResponseWriter, r *http.Request) {
	view, err := h.loader.venueAnalysis(r.Context(), h.selection(w, r))
	h.logWidget(r.Context(), "venue-analysis", err)
	render(w, r, VenueAnalysisWidget(view))
}

func (h *Handler) WinProbability(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.sessions.Page(w, r).Prediction()
	view, err := h.loader.chart(r.Context(), pred, ok)
	h.logWidget(r.Context(), "win-probability", err)
	render(w, r, WinProbabilityChart(view))
}

func (h *Handler) PredictionResults(w http.ResponseWriter, r *http.Request) {
	pred, ok := h.sessions.Page(w, r).Prediction()
	render(w, r, PredictionResultsWidget(results(pred, ok)))
}

// selection is the viewer's selection with any team1, team2 or venue query
// parameters laid over it.
func (h *Handler) selection(w http.ResponseWriter, r *http.Request) Selection {
	sel := h.sessions.Page(w, r).Selection()
	return overrideSelection(sel, r.URL.Query())
}

func overrideSelection(sel Selection, q url.Values) Selection {
	if q.Has(FieldTeam1) {
		sel.Team1ID = q.Get(FieldTeam1)
	}
	if q.Has(FieldTeam2) {
		sel.Team2ID = q.Get(FieldTeam2)
	}
	if q.Has(FieldVenue) {
		sel.VenueID = q.Get(FieldVenue)
	}
	return sel
}

func (h *Handler) logWidget(ctx context.Context, widget string, err error) {
	if err != nil {
		logging.Error(logging.FromContext(ctx, h.logger), "dashboard widget failed", err, slog.String(logging.FieldWidget, widget))
	}
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	templ.Handler(c).ServeHTTP(w, r)
}
