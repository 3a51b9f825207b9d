// Package predictions validates match setups, asks the active predictor and
// keeps the prediction log.
package predictions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

// MatchTeams embeds the two teams of a prediction. Unknown ids are null.
type MatchTeams struct {
	Team1 *domain.Team `json:"team1"`
	Team2 *domain.Team `json:"team2"`
}

// MatchPrediction is a stored prediction together with the entities it names.
type MatchPrediction struct {
	domain.Prediction
	Teams MatchTeams    `json:"teams"`
	Venue *domain.Venue `json:"venue"`
}

// Config wires a Service.
type Config struct {
	Repo          store.Repository
	Predictor     prediction.Predictor
	PredictorName string
	Metrics       *metrics.Recorder
	Logger        *slog.Logger
	Now           func() time.Time
}

// Service runs predictions through a single Predictor.
type Service struct {
	repo          store.Repository
	predictor     prediction.Predictor
	predictorName string
	metrics       *metrics.Recorder
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:          cfg.Repo,
		predictor:     cfg.Predictor,
		predictorName: cfg.PredictorName,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		now:           now,
	}
}

// PredictorName reports which predictor is active.
func (s *Service) PredictorName() string { return s.predictorName }

// PredictMatch validates the request, predicts, then records a Match and
// the Prediction that references it. Nothing is stored when validation or
// the predictor fails.
func (s *Service) PredictMatch(ctx context.Context, req domain.PredictionRequest) (MatchPrediction, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return MatchPrediction{}, err
	}

	result, err := s.predictor.Predict(ctx, req)
	if err != nil {
		logging.Error(logging.FromContext(ctx, s.logger), "prediction failed", err,
			logging.FieldPredictor, s.predictorName,
			logging.FieldTeamID, req.Team1ID,
			logging.FieldVenueID, req.VenueID,
		)
		return MatchPrediction{}, err
	}

	now := s.now()
	_, p, err := s.repo.CreatePredictionWithMatch(ctx, domain.NewMatch(req, now), domain.NewPrediction(req, result, now))
	if err != nil {
		return MatchPrediction{}, fmt.Errorf("store prediction: %w", err)
	}

	s.metrics.RecordPrediction(s.predictorName, winnerSide(req, result))

	return s.embed(ctx, p)
}

// PredictLive returns the win-probability progression for a match state.
func (s *Service) PredictLive(ctx context.Context, state domain.MatchState) ([]float64, error) {
	points, err := s.predictor.PredictLive(ctx, state)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []float64{}
	}
	return points, nil
}

// Predictions returns the prediction log oldest first.
func (s *Service) Predictions(ctx context.Context) ([]domain.Prediction, error) {
	return s.repo.Predictions(ctx)
}

func (s *Service) Prediction(ctx context.Context, id string) (domain.Prediction, error) {
	p, ok, err := s.repo.Prediction(ctx, id)
	if err != nil {
		return domain.Prediction{}, err
	}
	if !ok {
		return domain.Prediction{}, domain.NotFound("prediction", id)
	}
	return p, nil
}

func (s *Service) embed(ctx context.Context, p domain.Prediction) (MatchPrediction, error) {
	out := MatchPrediction{Prediction: p}

	if t, ok, err := s.repo.Team(ctx, p.Team1ID); err != nil {
		return MatchPrediction{}, err
	} else if ok {
		out.Teams.Team1 = &t
	}
	if t, ok, err := s.repo.Team(ctx, p.Team2ID); err != nil {
		return MatchPrediction{}, err
	} else if ok {
		out.Teams.Team2 = &t
	}
	if v, ok, err := s.repo.Venue(ctx, p.VenueID); err != nil {
		return MatchPrediction{}, err
	} else if ok {
		out.Venue = &v
	}
	return out, nil
}

func winnerSide(req domain.PredictionRequest, result domain.PredictionResult) string {
	if result.PredictedWinner == req.Team1ID {
		return "team1"
	}
	return "team2"
}
