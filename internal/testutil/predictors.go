package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

// StubPredictor returns canned results and counts calls.
type StubPredictor struct {
	Result domain.PredictionResult
	Points []float64
	Err    error
	Calls  atomic.Int32
}

func (p *StubPredictor) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResult, error) {
	_ = ctx
	_ = req
	p.Calls.Add(1)
	return p.Result, p.Err
}

func (p *StubPredictor) PredictLive(ctx context.Context, state domain.MatchState) ([]float64, error) {
	_ = ctx
	_ = state
	p.Calls.Add(1)
	return p.Points, p.Err
}
