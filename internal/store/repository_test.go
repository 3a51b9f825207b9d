package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

type repoFactory func(t *testing.T) Repository

func factories() map[string]repoFactory {
	return map[string]repoFactory{
		"memory": func(t *testing.T) Repository {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Repository {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "insights.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func forEachRepo(t *testing.T, fn func(t *testing.T, repo Repository)) {
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func TestRepositoryTeamsKeepInsertionOrderAndOverwrite(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		for _, id := range []string{"mi", "csk", "rcb"} {
			_, err := repo.CreateTeam(ctx, domain.Team{ID: id, Name: id})
			require.NoError(t, err)
		}
		_, err := repo.CreateTeam(ctx, domain.Team{ID: "csk", Name: "Chennai Super Kings"})
		require.NoError(t, err)

		teams, err := repo.Teams(ctx)
		require.NoError(t, err)
		require.Len(t, teams, 3)
		assert.Equal(t, []string{"mi", "csk", "rcb"}, []string{teams[0].ID, teams[1].ID, teams[2].ID})
		assert.Equal(t, "Chennai Super Kings", teams[1].Name)

		got, ok, err := repo.Team(ctx, "csk")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Chennai Super Kings", got.Name)
		assert.Nil(t, got.Logo)

		_, ok, err = repo.Team(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepositoryAssignsIDsWhenMissing(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		v, err := repo.CreateVenue(ctx, domain.Venue{Name: "Nowhere Oval"})
		require.NoError(t, err)
		assert.NotEmpty(t, v.ID)

		got, ok, err := repo.Venue(ctx, v.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, v, got)
	})
}

func TestRepositoryHeadToHeadIsSymmetric(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		_, err := repo.CreateHeadToHead(ctx, domain.HeadToHeadStats{ID: "h1", Team1ID: "mi", Team2ID: "csk", TotalMatches: 34, Team1Wins: 20, Team2Wins: 14})
		require.NoError(t, err)

		forward, ok, err := repo.HeadToHead(ctx, "mi", "csk")
		require.NoError(t, err)
		require.True(t, ok)
		reverse, ok, err := repo.HeadToHead(ctx, "csk", "mi")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, forward, reverse)

		_, ok, err = repo.HeadToHead(ctx, "mi", "rcb")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepositoryHeadToHeadReverseWriteReplaces(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		_, err := repo.CreateHeadToHead(ctx, domain.HeadToHeadStats{ID: "old", Team1ID: "mi", Team2ID: "csk", TotalMatches: 34, Team1Wins: 20, Team2Wins: 14})
		require.NoError(t, err)
		_, err = repo.CreateHeadToHead(ctx, domain.HeadToHeadStats{ID: "new", Team1ID: "csk", Team2ID: "mi", TotalMatches: 35, Team1Wins: 15, Team2Wins: 20})
		require.NoError(t, err)

		for _, pair := range [][2]string{{"mi", "csk"}, {"csk", "mi"}} {
			got, ok, err := repo.HeadToHead(ctx, pair[0], pair[1])
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "new", got.ID)
			assert.Equal(t, 35, got.TotalMatches)
		}
	})
}

func TestRepositoryHyphenatedIDsDoNotCollide(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		_, err := repo.CreateVenueStats(ctx, domain.VenueStats{VenueID: "arun-jaitley", TeamID: "dc", MatchesPlayed: 10, Wins: 4})
		require.NoError(t, err)
		_, err = repo.CreateVenueStats(ctx, domain.VenueStats{VenueID: "arun", TeamID: "jaitley-dc", MatchesPlayed: 2, Wins: 1})
		require.NoError(t, err)

		got, ok, err := repo.VenueTeamStats(ctx, "arun-jaitley", "dc")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 10, got.MatchesPlayed)

		stats, err := repo.VenueStats(ctx, "arun-jaitley")
		require.NoError(t, err)
		assert.Len(t, stats, 1)

		_, err = repo.CreateHeadToHead(ctx, domain.HeadToHeadStats{Team1ID: "a-b", Team2ID: "c", TotalMatches: 5, Team1Wins: 3, Team2Wins: 2})
		require.NoError(t, err)
		_, err = repo.CreateHeadToHead(ctx, domain.HeadToHeadStats{Team1ID: "a", Team2ID: "b-c", TotalMatches: 1, Team1Wins: 1})
		require.NoError(t, err)

		h, ok, err := repo.HeadToHead(ctx, "a-b", "c")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 5, h.TotalMatches)
	})
}

func TestRepositoryTeamStatsAreCopies(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		_, err := repo.CreateTeamStats(ctx, domain.TeamStats{
			TeamID:        "mi",
			PowerplayAvg:  52.3,
			RecentForm:    []bool{true, true, false},
			ImpactPlayers: []domain.ImpactPlayer{{Name: "Rohit Sharma", Role: "Batsman", ImpactScore: 8.4, Initials: "RS"}},
		})
		require.NoError(t, err)

		first, ok, err := repo.TeamStats(ctx, "mi")
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotEmpty(t, first.ID)
		first.RecentForm[0] = false
		first.ImpactPlayers[0].Name = "mutated"

		second, _, err := repo.TeamStats(ctx, "mi")
		require.NoError(t, err)
		assert.True(t, second.RecentForm[0])
		assert.Equal(t, "Rohit Sharma", second.ImpactPlayers[0].Name)

		_, ok, err = repo.TeamStats(ctx, "dc")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepositoryVenueStatsRecomputesWinRate(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		_, err := repo.CreateVenueStats(ctx, domain.VenueStats{VenueID: "wankhede", TeamID: "mi", MatchesPlayed: 43, Wins: 31, WinRate: 99})
		require.NoError(t, err)
		_, err = repo.CreateVenueStats(ctx, domain.VenueStats{VenueID: "wankhede", TeamID: "csk", MatchesPlayed: 17, Wins: 7})
		require.NoError(t, err)
		_, err = repo.CreateVenueStats(ctx, domain.VenueStats{VenueID: "eden", TeamID: "kkr", MatchesPlayed: 10, Wins: 6})
		require.NoError(t, err)

		stats, err := repo.VenueStats(ctx, "wankhede")
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, "mi", stats[0].TeamID)
		assert.Equal(t, 72.1, stats[0].WinRate)
		assert.Equal(t, 41.2, stats[1].WinRate)

		one, ok, err := repo.VenueTeamStats(ctx, "eden", "kkr")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 60.0, one.WinRate)

		empty, err := repo.VenueStats(ctx, "chepauk")
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})
}

func TestRepositoryPredictionLogAppends(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		now := time.Date(2025, 4, 1, 14, 0, 0, 0, time.UTC)
		req := domain.PredictionRequest{Team1ID: "mi", Team2ID: "csk", VenueID: "wankhede", TossWinner: "mi", TossDecision: domain.TossBat}

		var ids []string
		for i := 0; i < 3; i++ {
			p, err := repo.CreatePrediction(ctx, domain.NewPrediction(req, domain.PredictionResult{
				Team1WinProbability: 70, Team2WinProbability: 30, PredictedWinner: "mi", Margin: "15-25 runs",
			}, now.Add(time.Duration(i)*time.Minute)))
			require.NoError(t, err)
			ids = append(ids, p.ID)
		}

		log, err := repo.Predictions(ctx)
		require.NoError(t, err)
		require.Len(t, log, 3)
		for i, p := range log {
			assert.Equal(t, ids[i], p.ID)
			assert.Nil(t, p.MatchID)
		}

		got, ok, err := repo.Prediction(ctx, ids[1])
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.CreatedAt.Equal(now.Add(time.Minute)))
		assert.Equal(t, 100.0, got.Team1WinProbability+got.Team2WinProbability)
	})
}

func TestRepositoryCreatePredictionWithMatchLinksRecords(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		req := domain.PredictionRequest{Team1ID: "kkr", Team2ID: "srh", VenueID: "eden", TossWinner: "srh", TossDecision: domain.TossBowl}
		now := time.Date(2025, 5, 1, 14, 0, 0, 0, time.UTC)

		m, p, err := repo.CreatePredictionWithMatch(ctx, domain.NewMatch(req, now), domain.NewPrediction(req, domain.PredictionResult{
			Team1WinProbability: 52, Team2WinProbability: 48, PredictedWinner: "kkr", Margin: "Close match",
		}, now))
		require.NoError(t, err)
		require.NotNil(t, p.MatchID)
		assert.Equal(t, m.ID, *p.MatchID)

		stored, ok, err := repo.Prediction(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, stored.MatchID)
		_, ok, err = repo.Match(ctx, *stored.MatchID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestSQLiteCreatePredictionWithMatchRollsBack(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()
	_, err = s.db.ExecContext(ctx, `DROP TABLE predictions`)
	require.NoError(t, err)

	req := domain.PredictionRequest{Team1ID: "mi", Team2ID: "csk", VenueID: "wankhede", TossWinner: "mi", TossDecision: domain.TossBat}
	_, _, err = s.CreatePredictionWithMatch(ctx, domain.NewMatch(req, time.Now()), domain.NewPrediction(req, domain.PredictionResult{}, time.Now()))
	require.Error(t, err)

	matches, err := s.Matches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRepositoryMatches(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		m, err := repo.CreateMatch(ctx, domain.Match{Team1ID: "rr", Team2ID: "dc", VenueID: "arun-jaitley", TossWinner: "dc", TossDecision: domain.TossBowl})
		require.NoError(t, err)

		got, ok, err := repo.Match(ctx, m.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, domain.TossBowl, got.TossDecision)

		all, err := repo.Matches(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestRepositoryListingsAreStable(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		for _, id := range []string{"pbks", "srh", "kkr", "rr", "dc"} {
			_, err := repo.CreateTeam(ctx, domain.Team{ID: id, Name: id})
			require.NoError(t, err)
		}

		encode := func() string {
			teams, err := repo.Teams(ctx)
			require.NoError(t, err)
			raw, err := json.Marshal(teams)
			require.NoError(t, err)
			return string(raw)
		}
		first := encode()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, encode())
		}
	})
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "insights.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = s.CreateTeam(ctx, domain.Team{ID: "srh", Name: "Sunrisers Hyderabad"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	team, ok, err := reopened.Team(ctx, "srh")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sunrisers Hyderabad", team.Name)
}

func TestSQLiteStoreInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateVenue(ctx, domain.Venue{ID: "eden", Name: "Eden Gardens"})
	require.NoError(t, err)
	venues, err := s.Venues(ctx)
	require.NoError(t, err)
	assert.Len(t, venues, 1)
}

func TestTableRemoveKeepsOrder(t *testing.T) {
	tbl := newTable[int]()
	tbl.put("a", 1)
	tbl.put("b", 2)
	tbl.put("c", 3)
	tbl.remove("b")
	tbl.remove("missing")
	tbl.put("b", 4)

	assert.Equal(t, []int{1, 3, 4}, tbl.list(nil))
	assert.Equal(t, []int{3}, tbl.list(func(v int) bool { return v == 3 }))
}
