package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction"
	"github.com/preston-bernstein/cricket-insights-service/internal/seed"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

type stubDetails struct {
	details domain.VenueDetails
	found   bool
	err     error
}

func (s stubDetails) VenueDetails(context.Context, string) (domain.VenueDetails, bool, error) {
	return s.details, s.found, s.err
}

func seededRepo(t *testing.T) store.Repository {
	t.Helper()
	data, err := seed.Load()
	require.NoError(t, err)
	repo := store.NewMemoryStore()
	require.NoError(t, seed.Apply(context.Background(), repo, data))
	return repo
}

func TestTeamsAndVenues(t *testing.T) {
	svc := NewService(seededRepo(t), nil)
	ctx := context.Background()

	teams, err := svc.Teams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 8)
	assert.Equal(t, "mi", teams[0].ID)

	team, err := svc.Team(ctx, "csk")
	require.NoError(t, err)
	assert.Equal(t, "Chennai Super Kings", team.Name)

	_, err = svc.Team(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	venues, err := svc.Venues(ctx)
	require.NoError(t, err)
	assert.Len(t, venues, 5)

	_, err = svc.Venue(ctx, "lords")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHeadToHeadIsOrientedToRequest(t *testing.T) {
	svc := NewService(seededRepo(t), nil)
	ctx := context.Background()

	forward, err := svc.HeadToHead(ctx, "mi", "csk")
	require.NoError(t, err)
	assert.Equal(t, "mi", forward.Team1ID)
	assert.Equal(t, 20, forward.Team1Wins)

	reverse, err := svc.HeadToHead(ctx, "csk", "mi")
	require.NoError(t, err)
	assert.Equal(t, "csk", reverse.Team1ID)
	assert.Equal(t, 14, reverse.Team1Wins)
	assert.Equal(t, 20, reverse.Team2Wins)
	assert.Equal(t, forward.TotalMatches, reverse.TotalMatches)

	_, err = svc.HeadToHead(ctx, "mi", "rr")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTeamAndVenueStats(t *testing.T) {
	svc := NewService(seededRepo(t), nil)
	ctx := context.Background()

	st, err := svc.TeamStats(ctx, "mi")
	require.NoError(t, err)
	assert.Len(t, st.ImpactPlayers, 3)

	_, err = svc.TeamStats(ctx, "pbks")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	venue, err := svc.VenueStats(ctx, "wankhede")
	require.NoError(t, err)
	require.Len(t, venue, 2)
	assert.Equal(t, 72.1, venue[0].WinRate)

	empty, err := svc.VenueStats(ctx, "eden")
	require.NoError(t, err)
	assert.Empty(t, empty)

	one, err := svc.VenueTeamStats(ctx, "wankhede", "csk")
	require.NoError(t, err)
	assert.Equal(t, 41.2, one.WinRate)

	_, err = svc.VenueTeamStats(ctx, "wankhede", "rr")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVenueDetailsFromStoredVenue(t *testing.T) {
	svc := NewService(seededRepo(t), nil)
	ctx := context.Background()

	d, err := svc.VenueDetails(ctx, "wankhede")
	require.NoError(t, err)
	assert.Equal(t, "wankhede", d.VenueID)
	assert.Equal(t, 33108, d.Capacity)

	_, err = svc.VenueDetails(ctx, "lords")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVenueDetailsFromSourceFillsCapacity(t *testing.T) {
	src := stubDetails{found: true, details: domain.VenueDetails{VenueID: "wankhede", AvgFirstInnings: 181, SixRate: 3.1}}
	svc := NewService(seededRepo(t), src)

	d, err := svc.VenueDetails(context.Background(), "wankhede")
	require.NoError(t, err)
	assert.Equal(t, 181, d.AvgFirstInnings)
	assert.Equal(t, 33108, d.Capacity)
}

func TestVenueDetailsSourceFailures(t *testing.T) {
	ctx := context.Background()
	upstream := NewService(seededRepo(t), stubDetails{err: prediction.ErrUpstream})
	_, err := upstream.VenueDetails(ctx, "wankhede")
	assert.True(t, errors.Is(err, prediction.ErrUpstream))

	missing := NewService(seededRepo(t), stubDetails{})
	_, err = missing.VenueDetails(ctx, "wankhede")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminCreatesValidate(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil)
	ctx := context.Background()

	_, err := svc.CreateTeam(ctx, domain.Team{Name: "No ID"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateVenue(ctx, domain.Venue{ID: "x", Name: "X", Capacity: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateHeadToHead(ctx, domain.HeadToHeadStats{Team1ID: "mi", Team2ID: "csk", TotalMatches: 3, Team1Wins: 2, Team2Wins: 2})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateHeadToHead(ctx, domain.HeadToHeadStats{Team1ID: "mi", Team2ID: "mi"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateTeamStats(ctx, domain.TeamStats{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateVenueStats(ctx, domain.VenueStats{VenueID: "eden", TeamID: "kkr", MatchesPlayed: 1, Wins: 2})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateMatch(ctx, domain.Match{Team1ID: "mi", Team2ID: "csk", VenueID: "wankhede", TossWinner: "rr", TossDecision: domain.TossBat})
	assert.ErrorIs(t, err, domain.ErrValidation)

	teams, err := svc.Teams(ctx)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestAdminCreatesStore(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, domain.Team{ID: " gt ", Name: "Gujarat Titans"})
	require.NoError(t, err)
	assert.Equal(t, "gt", team.ID)

	vs, err := svc.CreateVenueStats(ctx, domain.VenueStats{VenueID: "eden", TeamID: "kkr", MatchesPlayed: 3, Wins: 2})
	require.NoError(t, err)
	assert.Equal(t, 66.7, vs.WinRate)
	assert.NotEmpty(t, vs.ID)

	m, err := svc.CreateMatch(ctx, domain.Match{Team1ID: "kkr", Team2ID: "rr", VenueID: "eden", TossWinner: "rr", TossDecision: "BOWL"})
	require.NoError(t, err)
	assert.Equal(t, domain.TossBowl, m.TossDecision)

	got, err := svc.Match(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = svc.Match(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
