package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
)

type liveRequest struct {
	MatchState domain.MatchState `json:"matchState"`
}

type liveResponse struct {
	Progression []float64 `json:"progression"`
}

// PredictMatch validates the match setup, predicts and stores the result.
func (h *Handler) PredictMatch(w http.ResponseWriter, r *http.Request) {
	var req domain.PredictionRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result, err := h.predictions.PredictMatch(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	logging.Info(loggerFromContext(r, h.logger), "prediction served",
		slog.String(logging.FieldPredictor, h.predictions.PredictorName()),
		slog.String("predicted_winner", result.PredictedWinner),
	)
	writeJSON(w, http.StatusOK, result, h.logger)
}

// PredictLive returns the win-probability progression for {matchState}.
func (h *Handler) PredictLive(w http.ResponseWriter, r *http.Request) {
	var req liveRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	points, err := h.predictions.PredictLive(r.Context(), req.MatchState)
	if err != nil {
		writeServiceErrorAs(w, r, err, livePredictionFailed, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, liveResponse{Progression: points}, h.logger)
}

func (h *Handler) Predictions(w http.ResponseWriter, r *http.Request) {
	log, err := h.predictions.Predictions(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, log, h.logger)
}

func (h *Handler) Prediction(w http.ResponseWriter, r *http.Request) {
	p, err := h.predictions.Prediction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, p, h.logger)
}
