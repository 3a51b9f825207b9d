package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/seed"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

// FixedSource is a prediction.Source that always returns the same draw.
// 0.5 means no random perturbation.
type FixedSource float64

func (f FixedSource) Float64() float64 { return float64(f) }

// SeedData loads the bundled seed document, failing the test on error.
func SeedData(t *testing.T) seed.Data {
	t.Helper()
	data, err := seed.Load()
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	return data
}

// SeededStore returns a memory store holding the bundled seed data.
func SeededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	ms := store.NewMemoryStore()
	if err := seed.Apply(context.Background(), ms, SeedData(t)); err != nil {
		t.Fatalf("apply seed: %v", err)
	}
	return ms
}

// SampleRequest is the mi/csk match at Wankhede with mi batting first.
func SampleRequest() domain.PredictionRequest {
	return domain.PredictionRequest{
		Team1ID:      "mi",
		Team2ID:      "csk",
		VenueID:      "wankhede",
		TossWinner:   "mi",
		TossDecision: domain.TossBat,
	}
}
