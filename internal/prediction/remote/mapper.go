package remote

import (
	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction"
)

func toUpstreamRequest(req domain.PredictionRequest) predictRequest {
	decision := string(req.TossDecision)
	if req.TossDecision == domain.TossBowl {
		decision = upstreamBowl
	}
	return predictRequest{
		Team1ID:      req.Team1ID,
		Team2ID:      req.Team2ID,
		VenueID:      req.VenueID,
		TossWinner:   req.TossWinner,
		TossDecision: decision,
	}
}

// mapPrediction keeps team1's probability and derives the rest from it, so
// the model's rounding never breaks the sum or the winner.
func mapPrediction(req domain.PredictionRequest, resp predictResponse) domain.PredictionResult {
	team1 := resp.Team1WinProbability
	if team1 <= 0 && resp.Team2WinProbability > 0 {
		team1 = 100 - resp.Team2WinProbability
	}
	if team1 < 0 {
		team1 = 0
	}
	if team1 > 100 {
		team1 = 100
	}
	return prediction.Complete(req, team1, resp.ExpectedMargin, domain.Factors{
		VenueAdvantage: resp.Factors.VenueAdvantage,
		TossDecision:   resp.Factors.TossDecision,
		RecentForm:     resp.Factors.RecentForm,
		HeadToHead:     resp.Factors.HeadToHead,
	})
}

func mapHeadToHead(resp headToHeadResponse) domain.HeadToHeadStats {
	h := domain.HeadToHeadStats{
		Team1ID:      resp.Team1ID,
		Team2ID:      resp.Team2ID,
		TotalMatches: resp.TotalMatches,
		Team1Wins:    resp.Team1Wins,
		Team2Wins:    resp.Team2Wins,
	}
	h.ID = "h2h-" + h.Key()
	return h
}

func mapTeamStats(resp teamStatsResponse) domain.TeamStats {
	players := make([]domain.ImpactPlayer, 0, len(resp.ImpactPlayers))
	for _, p := range resp.ImpactPlayers {
		players = append(players, domain.ImpactPlayer{
			Name:        p.Name,
			Role:        p.Role,
			ImpactScore: p.ImpactScore,
			Initials:    p.Initials,
		})
	}
	form := resp.RecentForm
	if form == nil {
		form = []bool{}
	}
	return domain.TeamStats{
		ID:                "stats-" + resp.TeamID,
		TeamID:            resp.TeamID,
		PowerplayAvg:      resp.PowerplayAvg,
		DeathOversEconomy: resp.DeathOversEconomy,
		RecentForm:        form,
		ImpactPlayers:     players,
	}
}

func mapVenueStats(resp venueStatsResponse) domain.VenueStats {
	s := domain.VenueStats{
		VenueID:       resp.VenueID,
		TeamID:        resp.TeamID,
		MatchesPlayed: resp.Matches,
		Wins:          resp.Wins,
	}
	s.ID = "vs-" + s.Key()
	return s.WithWinRate()
}

func mapVenueDetails(venueID string, resp venueDetailsResponse) domain.VenueDetails {
	return domain.VenueDetails{
		VenueID:            venueID,
		Capacity:           resp.Capacity,
		AvgFirstInnings:    resp.AvgFirstInnings,
		BoundaryPercentage: resp.BoundaryPercentage,
		SixRate:            resp.SixRate,
	}
}
