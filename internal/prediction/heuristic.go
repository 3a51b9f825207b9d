package prediction

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/seed"
)

const (
	baseline = 50.0

	homeAdvantage  = 12.0
	tossBatEffect  = 7.0
	tossBowlEffect = 5.0
	strongTeamEdge = 8.0
	formSpread     = 5.0

	wideMarginAbove   = 60.0
	narrowMarginAbove = 55.0

	liveOvers       = 20
	liveDefaultBase = 64.2
	liveWave        = 10.0
	liveWaveStep    = 0.3
	liveNoise       = 2.5
)

const (
	MarginWide   = "15-25 runs"
	MarginNarrow = "5-15 runs"
	MarginClose  = "Close match"
)

// Source yields uniformly distributed values in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Heuristic scores a match from fixed adjustments to a 50% baseline plus a
// bounded random form term.
type Heuristic struct {
	profile seed.Profile

	mu  sync.Mutex
	src Source
}

var _ Predictor = (*Heuristic)(nil)

// NewHeuristic builds a Heuristic. A nil src uses the process-wide generator.
func NewHeuristic(profile seed.Profile, src Source) *Heuristic {
	if src == nil {
		src = globalSource{}
	}
	return &Heuristic{profile: profile, src: src}
}

// Predict applies the venue, toss, strength and form adjustments.
func (h *Heuristic) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PredictionResult{}, err
	}

	factors := domain.Factors{
		VenueAdvantage: h.venueAdjustment(req),
		TossDecision:   tossAdjustment(req),
		HeadToHead:     h.strengthAdjustment(req),
		RecentForm:     h.uniform(formSpread),
	}
	raw := baseline + factors.VenueAdvantage + factors.TossDecision + factors.HeadToHead + factors.RecentForm
	team1 := clamp(math.Round(raw), minProbability, maxProbability)
	factors.RecentForm = domain.Round1(factors.RecentForm)

	return Complete(req, team1, marginFor(team1), factors), nil
}

// PredictLive simulates a 20-over progression starting from the current
// probability when one is given.
func (h *Heuristic) PredictLive(ctx context.Context, state domain.MatchState) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := liveDefaultBase
	if state.CurrentProbability > 0 && state.CurrentProbability < 100 {
		base = state.CurrentProbability
	}

	points := make([]float64, 0, liveOvers+1)
	for over := 0; over <= liveOvers; over++ {
		variation := math.Sin(float64(over)*liveWaveStep)*liveWave + h.uniform(liveNoise)
		p := clamp(base+variation, minProbability, maxProbability)
		points = append(points, domain.Round1(p))
		base = p
	}
	return points, nil
}

func (h *Heuristic) venueAdjustment(req domain.PredictionRequest) float64 {
	switch {
	case h.profile.IsHome(req.Team1ID, req.VenueID):
		return homeAdvantage
	case h.profile.IsHome(req.Team2ID, req.VenueID):
		return -homeAdvantage
	default:
		return 0
	}
}

func tossAdjustment(req domain.PredictionRequest) float64 {
	effect := tossBowlEffect
	if req.TossDecision == domain.TossBat {
		effect = tossBatEffect
	}
	switch req.TossWinner {
	case req.Team1ID:
		return effect
	case req.Team2ID:
		return -effect
	default:
		return 0
	}
}

func (h *Heuristic) strengthAdjustment(req domain.PredictionRequest) float64 {
	strong := h.profile.StrongTeam
	switch {
	case strong == "":
		return 0
	case req.Team1ID == strong:
		return strongTeamEdge
	case req.Team2ID == strong:
		return -strongTeamEdge
	default:
		return 0
	}
}

// uniform draws from [-spread, spread).
func (h *Heuristic) uniform(spread float64) float64 {
	h.mu.Lock()
	v := h.src.Float64()
	h.mu.Unlock()
	return (v*2 - 1) * spread
}

func marginFor(team1 float64) string {
	top := math.Max(team1, 100-team1)
	switch {
	case top > wideMarginAbove:
		return MarginWide
	case top > narrowMarginAbove:
		return MarginNarrow
	default:
		return MarginClose
	}
}
