package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.insights.Teams(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, teams, h.logger)
}

func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	team, err := h.insights.Team(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, team, h.logger)
}

func (h *Handler) Venues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.insights.Venues(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, venues, h.logger)
}

func (h *Handler) Venue(w http.ResponseWriter, r *http.Request) {
	venue, err := h.insights.Venue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, venue, h.logger)
}

// HeadToHead returns the pair's record with team1 set to the first path segment.
func (h *Handler) HeadToHead(w http.ResponseWriter, r *http.Request) {
	stats, err := h.insights.HeadToHead(r.Context(), chi.URLParam(r, "team1Id"), chi.URLParam(r, "team2Id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats, h.logger)
}

func (h *Handler) TeamStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.insights.TeamStats(r.Context(), chi.URLParam(r, "teamId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats, h.logger)
}

// VenueStats lists per-team records for a venue. Unknown venues give [].
func (h *Handler) VenueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.insights.VenueStats(r.Context(), chi.URLParam(r, "venueId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats, h.logger)
}

func (h *Handler) VenueTeamStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.insights.VenueTeamStats(r.Context(), chi.URLParam(r, "venueId"), chi.URLParam(r, "teamId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats, h.logger)
}

func (h *Handler) VenueDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.insights.VenueDetails(r.Context(), chi.URLParam(r, "venueId"))
	if err != nil {
		writeServiceErrorAs(w, r, err, venueDetailsFailed, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, details, h.logger)
}

func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.insights.Matches(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, matches, h.logger)
}

func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	match, err := h.insights.Match(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, match, h.logger)
}
