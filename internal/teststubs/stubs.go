package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

// StubStatsSource is a test double for poller.Source. Records are keyed by
// team id, pair key (team1-team2) and venue id.
type StubStatsSource struct {
	Teams  map[string]domain.TeamStats
	Pairs  map[string]domain.HeadToHeadStats
	Venues map[string][]domain.VenueStats
	Err    error
	Calls  atomic.Int32
	// Notify is closed on the first call.
	Notify chan struct{}

	mu sync.Mutex
}

func (s *StubStatsSource) TeamStats(ctx context.Context, teamID string) (domain.TeamStats, bool, error) {
	_ = ctx
	if err := s.call(); err != nil {
		return domain.TeamStats{}, false, err
	}
	st, ok := s.Teams[teamID]
	return st, ok, nil
}

func (s *StubStatsSource) HeadToHead(ctx context.Context, team1ID, team2ID string) (domain.HeadToHeadStats, bool, error) {
	_ = ctx
	if err := s.call(); err != nil {
		return domain.HeadToHeadStats{}, false, err
	}
	h, ok := s.Pairs[domain.PairKey(team1ID, team2ID)]
	return h, ok, nil
}

func (s *StubStatsSource) VenueStats(ctx context.Context, venueID string) ([]domain.VenueStats, error) {
	_ = ctx
	if err := s.call(); err != nil {
		return nil, err
	}
	return s.Venues[venueID], nil
}

func (s *StubStatsSource) call() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	return s.Err
}

// FailingWrites wraps a repository and fails every stats write with Err.
type FailingWrites struct {
	store.Repository
	Err error
}

func (f FailingWrites) CreateHeadToHead(ctx context.Context, stats domain.HeadToHeadStats) (domain.HeadToHeadStats, error) {
	return domain.HeadToHeadStats{}, f.Err
}

func (f FailingWrites) CreateTeamStats(ctx context.Context, stats domain.TeamStats) (domain.TeamStats, error) {
	return domain.TeamStats{}, f.Err
}

func (f FailingWrites) CreateVenueStats(ctx context.Context, stats domain.VenueStats) (domain.VenueStats, error) {
	return domain.VenueStats{}, f.Err
}
