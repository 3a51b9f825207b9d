package testutil

import (
	"testing"

	"github.com/preston-bernstein/cricket-insights-service/internal/app/insights"
	"github.com/preston-bernstein/cricket-insights-service/internal/app/predictions"
	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

// Services bundles the application services over one repository.
type Services struct {
	Repo        store.Repository
	Insights    *insights.Service
	Predictions *predictions.Service
	Metrics     *metrics.Recorder
}

// NewServices wires services over a seeded memory store. A nil predictor
// selects the heuristic with no perturbation.
func NewServices(t *testing.T, p prediction.Predictor, details insights.DetailsSource) Services {
	t.Helper()
	repo := SeededStore(t)
	name := "stub"
	if p == nil {
		p = prediction.NewHeuristic(SeedData(t).Profile, FixedSource(0.5))
		name = "heuristic"
	}
	rec := metrics.NewRecorder()
	return Services{
		Repo:     repo,
		Insights: insights.NewService(repo, details),
		Predictions: predictions.NewService(predictions.Config{
			Repo:          repo,
			Predictor:     p,
			PredictorName: name,
			Metrics:       rec,
		}),
		Metrics: rec,
	}
}
