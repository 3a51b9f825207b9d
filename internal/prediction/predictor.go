// Package prediction turns a match setup into win probabilities.
package prediction

import (
	"context"
	"errors"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

// ErrUpstream marks failures of an external prediction service. Callers map
// it to a single generic message without upstream detail.
var ErrUpstream = errors.New("prediction upstream failed")

// UpstreamMessage is the client-facing text for a failed match prediction.
const UpstreamMessage = "Failed to fetch prediction from ML service"

// Predictor produces match outcome predictions.
type Predictor interface {
	Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResult, error)
	PredictLive(ctx context.Context, state domain.MatchState) ([]float64, error)
}

const (
	minProbability = 20.0
	maxProbability = 80.0
)

// Complete fills team2's probability and the predicted winner from team1's
// probability so the pair always sums to 100.
func Complete(req domain.PredictionRequest, team1 float64, margin string, factors domain.Factors) domain.PredictionResult {
	team1 = domain.Round1(team1)
	team2 := domain.Round1(100 - team1)
	return domain.PredictionResult{
		Team1WinProbability: team1,
		Team2WinProbability: team2,
		PredictedWinner:     Winner(req, team1),
		Margin:              margin,
		Factors:             factors,
	}
}

// Winner is team1 when its probability exceeds 50, otherwise team2.
func Winner(req domain.PredictionRequest, team1 float64) string {
	if team1 > 50 {
		return req.Team1ID
	}
	return req.Team2ID
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
