package store

import (
	"context"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

// Repository is the contract for storing and retrieving every entity the
// dashboard shows. Reads report absence through the bool result and never
// return an error for a missing key. Creates overwrite any record that
// shares the same derived key.
type Repository interface {
	Teams(ctx context.Context) ([]domain.Team, error)
	Team(ctx context.Context, id string) (domain.Team, bool, error)
	CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error)

	Venues(ctx context.Context) ([]domain.Venue, error)
	Venue(ctx context.Context, id string) (domain.Venue, bool, error)
	CreateVenue(ctx context.Context, venue domain.Venue) (domain.Venue, error)

	Matches(ctx context.Context) ([]domain.Match, error)
	Match(ctx context.Context, id string) (domain.Match, bool, error)
	CreateMatch(ctx context.Context, match domain.Match) (domain.Match, error)

	Predictions(ctx context.Context) ([]domain.Prediction, error)
	Prediction(ctx context.Context, id string) (domain.Prediction, bool, error)
	CreatePrediction(ctx context.Context, prediction domain.Prediction) (domain.Prediction, error)
	// CreatePredictionWithMatch stores a match and the prediction that points
	// at it. Either both are written or neither is.
	CreatePredictionWithMatch(ctx context.Context, match domain.Match, prediction domain.Prediction) (domain.Match, domain.Prediction, error)

	// HeadToHead tries team1-team2 first, then team2-team1.
	HeadToHead(ctx context.Context, team1ID, team2ID string) (domain.HeadToHeadStats, bool, error)
	CreateHeadToHead(ctx context.Context, stats domain.HeadToHeadStats) (domain.HeadToHeadStats, error)

	TeamStats(ctx context.Context, teamID string) (domain.TeamStats, bool, error)
	CreateTeamStats(ctx context.Context, stats domain.TeamStats) (domain.TeamStats, error)

	VenueStats(ctx context.Context, venueID string) ([]domain.VenueStats, error)
	VenueTeamStats(ctx context.Context, venueID, teamID string) (domain.VenueStats, bool, error)
	CreateVenueStats(ctx context.Context, stats domain.VenueStats) (domain.VenueStats, error)

	Close() error
}

func withID(id string) string {
	if id == "" {
		return domain.NewID()
	}
	return id
}

func prepareVenueStats(stats domain.VenueStats) domain.VenueStats {
	stats.ID = withID(stats.ID)
	return stats.WithWinRate()
}

func prepareTeamStats(stats domain.TeamStats) domain.TeamStats {
	stats.ID = withID(stats.ID)
	return stats.Clone()
}
