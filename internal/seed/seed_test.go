package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

func TestLoadBundledSeed(t *testing.T) {
	data, err := Load()
	require.NoError(t, err)

	assert.Len(t, data.Teams, 8)
	assert.Len(t, data.Venues, 5)
	assert.Equal(t, "mi", data.Teams[0].ID)
	assert.Equal(t, "#004BA0", data.Teams[0].Color)
	assert.Nil(t, data.Teams[0].Logo)
	assert.Equal(t, 33108, data.Venues[0].Capacity)
	assert.Equal(t, "mi", data.Profile.StrongTeam)
	assert.True(t, data.Profile.IsHome("csk", "chepauk"))
	assert.False(t, data.Profile.IsHome("csk", "wankhede"))
	assert.False(t, data.Profile.IsHome("srh", "wankhede"))
}

func TestApplySeedsRepository(t *testing.T) {
	ctx := context.Background()
	data, err := Load()
	require.NoError(t, err)

	repo := store.NewMemoryStore()
	require.NoError(t, Apply(ctx, repo, data))
	require.NoError(t, Apply(ctx, repo, data))

	teams, err := repo.Teams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 8)

	h, ok, err := repo.HeadToHead(ctx, "csk", "mi")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 34, h.TotalMatches)

	stats, ok, err := repo.TeamStats(ctx, "mi")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, stats.ImpactPlayers, 3)
	for _, p := range stats.ImpactPlayers {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Role)
		assert.NotEmpty(t, p.Initials)
		assert.Greater(t, p.ImpactScore, 0.0)
	}
	assert.Equal(t, []bool{true, true, false, true, true}, stats.RecentForm)

	venueStats, err := repo.VenueStats(ctx, "wankhede")
	require.NoError(t, err)
	require.Len(t, venueStats, 2)
	for _, s := range venueStats {
		assert.LessOrEqual(t, s.Wins, s.MatchesPlayed)
		assert.Equal(t, domain.WinRate(s.Wins, s.MatchesPlayed), s.WinRate)
	}
	assert.Equal(t, 72.1, venueStats[0].WinRate)
}

func TestParseRejectsBrokenInvariants(t *testing.T) {
	_, err := Parse([]byte(`
venueStats:
  - {venueId: eden, teamId: kkr, matches: 3, wins: 4}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Parse([]byte(`
headToHead:
  - {team1Id: a, team2Id: b, totalMatches: 1, team1Wins: 1, team2Wins: 1}
`))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Parse([]byte("teams: [unterminated"))
	assert.Error(t, err)
}
